package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch the release tables and write the catalog artifacts",
		Long: `Fetch the official build-number table, classify every version as
supported or dead, and write the catalog artifacts:

  versions.yaml   full version tree with dates and liveness
  versions.html   browsable table with old versions collapsed
  alive.json      flat list of supported build numbers

When the supported-updates page is reachable, its cumulative-update list
drives the classification; otherwise the release-date heuristic is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runScan(cmd.Context(), output, refresh, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory to write the artifacts to")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and refetch upstream tables")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, output string, refresh, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() { _ = runner.Cache.Close() }()

	opts := c.pipelineOptions()
	opts.Refresh = refresh

	track := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Building version catalog...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()
	track.done(fmt.Sprintf("Cataloged %d releases", result.RecordCount))

	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	names := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(output, name)
		if err := os.WriteFile(path, result.Artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	printSuccess("Scanned %d releases, %d supported builds", result.RecordCount, len(result.Catalog.AliveCodes()))
	if result.OverrideUsed {
		printKeyValue("classifier", "supported-updates page")
	} else {
		printKeyValue("classifier", "release-date heuristic")
	}
	for _, name := range names {
		printFile(filepath.Join(output, name))
	}
	return nil
}
