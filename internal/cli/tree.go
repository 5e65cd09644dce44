package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exchangekit/excheck/pkg/catalog"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		file      string
		aliveOnly bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the version catalog as a tree",
		Long: `Print the version catalog as an indented tree, one line per release
line, update branch, and build. Supported versions are green, dead ones red.

By default the catalog is fetched and built in place; --file renders a
versions.yaml written by a previous scan instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTree(cmd.Context(), file, aliveOnly, noCache)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "render a versions.yaml file instead of fetching")
	cmd.Flags().BoolVar(&aliveOnly, "alive", false, "only show supported versions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, file string, aliveOnly, noCache bool) error {
	cat, err := c.loadCatalog(ctx, file, noCache)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("Exchange Server versions"))
	for _, row := range cat.Rows() {
		if aliveOnly && !row.Alive {
			continue
		}
		fmt.Println(renderRow(row))
	}
	return nil
}

// loadCatalog reads a previously scanned file when given, and otherwise
// runs the full pipeline.
func (c *CLI) loadCatalog(ctx context.Context, file string, noCache bool) (*catalog.Catalog, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = f.Close() }()
		forest, err := catalog.DecodeForest(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		return catalog.New(forest), nil
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer func() { _ = runner.Cache.Close() }()

	result, err := runner.Execute(ctx, c.pipelineOptions())
	if err != nil {
		return nil, err
	}
	return result.Catalog, nil
}

// renderRow styles a single catalog row: branches bold, exact builds
// colored by liveness, dates dimmed.
func renderRow(row catalog.Row) string {
	indent := strings.Repeat("  ", row.Depth)

	name := row.Name
	if !row.HasRecord {
		name = styleBranch.Render(name)
	} else if row.Alive {
		name = styleAlive.Render(name)
	} else {
		name = styleDead.Render(name)
	}

	line := indent + name + " " + StyleValue.Render(row.Code)
	if row.Date != "" {
		line += " " + StyleDim.Render(row.Date)
	}
	if row.HasRecord && row.Alive {
		line += " " + styleAlive.Render(iconSuccess)
	}
	return line
}
