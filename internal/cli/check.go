package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exchangekit/excheck/pkg/check"
)

// ExitError carries a specific process exit code out of command execution.
// main inspects it with errors.As before falling back to exit code 1.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		version   string
		file      string
		aliveList string
		insecure  bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "check [host]",
		Short: "Probe a live server and judge its build number",
		Long: `Probe a live Exchange server for its build number and judge it against
the version catalog. The verdict is printed in monitoring format:

  OK        the build is currently supported          exit 0
  CRITICAL  the build is out of support               exit 2
  UNKNOWN   the build is not in the catalog           exit 3

With --version the probe is skipped and the given build number is judged
directly, so the command also works offline against a scanned catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var host string
			if len(args) > 0 {
				host = args[0]
			}
			if host == "" && version == "" {
				return fmt.Errorf("either a host or --version is required")
			}
			return c.runCheck(cmd.Context(), host, version, file, aliveList, insecure, noCache)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "judge this build number instead of probing")
	cmd.Flags().StringVarP(&file, "file", "f", "", "judge against a versions.yaml file instead of fetching")
	cmd.Flags().StringVar(&aliveList, "alive-list", "", "judge against an alive.json file (membership only, no upgrade targets)")
	cmd.Flags().BoolVarP(&insecure, "insecure", "k", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, host, version, file, aliveList string, insecure, noCache bool) error {
	if version == "" {
		probed, err := check.Probe(ctx, host, check.ProbeOptions{
			Path:     c.config.Check.EndpointPath,
			Header:   c.config.Check.VersionHeader,
			Insecure: insecure,
		})
		if err != nil {
			return &ExitError{
				Code: check.Indeterminate.ExitCode(),
				Msg:  fmt.Sprintf("%s: %v", check.Indeterminate.Label(), err),
			}
		}
		version = probed
		loggerFromContext(ctx).Debug("probed server", "host", host, "version", version)
	}

	var report *check.Report
	if aliveList != "" {
		alive, err := readAliveList(aliveList)
		if err != nil {
			return &ExitError{
				Code: check.Indeterminate.ExitCode(),
				Msg:  fmt.Sprintf("%s: cannot read alive list: %v", check.Indeterminate.Label(), err),
			}
		}
		report = check.EvaluateSet(version, alive)
	} else {
		cat, err := c.loadCatalog(ctx, file, noCache)
		if err != nil {
			return &ExitError{
				Code: check.Indeterminate.ExitCode(),
				Msg:  fmt.Sprintf("%s: cannot build version catalog: %v", check.Indeterminate.Label(), err),
			}
		}
		report = check.Evaluate(version, cat)
	}

	fmt.Print(report)

	if code := report.Outcome.ExitCode(); code != 0 {
		return &ExitError{Code: code, Msg: ""}
	}
	return nil
}

// readAliveList loads a flat alive.json array.
func readAliveList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var alive []string
	if err := json.Unmarshal(data, &alive); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return alive, nil
}
