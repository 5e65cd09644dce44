package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/exchangekit/excheck/pkg/cache"
	"github.com/exchangekit/excheck/pkg/catalog"
	"github.com/exchangekit/excheck/pkg/render"
	"github.com/exchangekit/excheck/pkg/source"
)

// CacheTTL bounds how long upstream responses are served from cache when
// the runner builds its own fetch client.
const CacheTTL = 12 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and the serve endpoint can use this to avoid duplicating logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete fetch → build → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	client := source.NewClient(r.Cache, CacheTTL)

	// Stage 1: Fetch
	fetchStart := time.Now()
	records, err := source.FetchReleases(ctx, client, opts.ReleasesURL, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	result.RecordCount = len(records)

	classifier := r.resolveClassifier(ctx, opts, result)
	result.Stats.FetchTime = time.Since(fetchStart)

	r.Logger.Info("fetched release table",
		"records", len(records),
		"override", result.OverrideUsed,
		"duration", result.Stats.FetchTime)

	// Stage 2: Build
	buildStart := time.Now()
	cat, err := catalog.Build(records, opts.Seeds, classifier)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	result.Catalog = cat
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built version catalog",
		"branches", len(cat.Forest),
		"alive", len(cat.AliveCodes()),
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	if err := r.renderArtifacts(result); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered artifacts",
		"count", len(result.Artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// resolveClassifier prefers the authoritative supported-CU override and
// falls back to the age heuristic when the page is unavailable or empty.
// The override fetch failing is never fatal.
func (r *Runner) resolveClassifier(ctx context.Context, opts Options, result *Result) catalog.Classifier {
	heuristic := catalog.AgeHeuristic{
		Now:           opts.Now,
		MaxAge:        opts.MaxAge,
		CompareWindow: opts.CompareWindow,
	}
	if opts.SupportedURL == "" {
		return heuristic
	}

	supported, err := source.FetchSupported(ctx, opts.SupportedURL)
	if err != nil {
		r.Logger.Warn("supported-CU page unavailable, using age heuristic",
			"url", opts.SupportedURL, "err", err)
		return heuristic
	}
	if len(supported) == 0 {
		r.Logger.Warn("supported-CU page listed nothing, using age heuristic",
			"url", opts.SupportedURL)
		return heuristic
	}

	result.OverrideUsed = true
	return catalog.SupportedOverride{Supported: supported}
}

func (r *Runner) renderArtifacts(result *Result) error {
	var yamlBuf bytes.Buffer
	if err := catalog.EncodeForest(&yamlBuf, result.Catalog.Forest); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	result.Artifacts[ArtifactYAML] = yamlBuf.Bytes()

	var htmlBuf bytes.Buffer
	if err := render.WriteHTML(&htmlBuf, result.Catalog.Rows()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	result.Artifacts[ArtifactHTML] = htmlBuf.Bytes()

	var aliveBuf bytes.Buffer
	if err := render.WriteAliveJSON(&aliveBuf, result.Catalog.AliveCodes()); err != nil {
		return fmt.Errorf("write alive list: %w", err)
	}
	result.Artifacts[ArtifactAlive] = aliveBuf.Bytes()
	return nil
}
