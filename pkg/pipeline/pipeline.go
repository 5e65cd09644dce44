// Package pipeline provides the core scan pipeline for excheck.
//
// This package implements the complete fetch → build → render pipeline that
// is shared by the CLI commands and the serve endpoint. Centralizing it here
// keeps behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Download the release table (and, best effort, the supported-CU
//     page) from the upstream documentation.
//  2. Build: Parse rows into records, assemble the version forest, infer
//     missing metadata and classify every node alive or dead.
//  3. Render: Produce the published artifacts (YAML catalog, HTML table,
//     alive list).
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	yaml := result.Artifacts[pipeline.ArtifactYAML]
package pipeline

import (
	"errors"
	"net/url"
	"time"

	"github.com/exchangekit/excheck/pkg/catalog"
	"github.com/exchangekit/excheck/pkg/config"
)

// Artifact names used as keys in Result.Artifacts.
const (
	ArtifactYAML  = "versions.yaml"
	ArtifactHTML  = "versions.html"
	ArtifactAlive = "alive.json"
)

// ErrNoReleasesURL is returned when options carry an empty releases URL
// after defaulting, which should not happen with config defaults applied.
var ErrNoReleasesURL = errors.New("pipeline: releases URL is required")

// Options configures a pipeline execution.
// Zero values fall back to sensible defaults in ValidateAndSetDefaults.
type Options struct {
	// ReleasesURL is the markdown build-number table to fetch.
	ReleasesURL string

	// SupportedURL is the page listing currently supported cumulative
	// updates. Empty disables the authoritative override and classification
	// falls back to the age heuristic.
	SupportedURL string

	// Refresh bypasses the cache for upstream fetches.
	Refresh bool

	// Now anchors the age heuristic. Zero means time.Now at execution.
	Now time.Time

	// MaxAge is how old the newest release on a branch may be before the
	// branch is considered dead. Zero means catalog.DefaultMaxAge.
	MaxAge time.Duration

	// CompareWindow bounds how far a build may lag its branch's newest
	// sibling before being demoted. Zero means catalog.DefaultCompareWindow.
	CompareWindow time.Duration

	// Seeds anchor the top of the version forest. Nil means
	// catalog.DefaultSeeds.
	Seeds []catalog.Seed
}

// ValidateAndSetDefaults fills zero-valued fields and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.ReleasesURL == "" {
		o.ReleasesURL = config.DefaultReleasesURL
	}
	if _, err := url.Parse(o.ReleasesURL); err != nil {
		return errors.Join(ErrNoReleasesURL, err)
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.MaxAge <= 0 {
		o.MaxAge = catalog.DefaultMaxAge
	}
	if o.CompareWindow <= 0 {
		o.CompareWindow = catalog.DefaultCompareWindow
	}
	if o.Seeds == nil {
		o.Seeds = catalog.DefaultSeeds
	}
	return nil
}

// Stats captures per-stage timings for logging and API responses.
type Stats struct {
	FetchTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Result holds everything a pipeline run produced.
type Result struct {
	// Catalog is the classified version forest with its lookup index.
	Catalog *catalog.Catalog

	// Artifacts maps artifact names (ArtifactYAML, ArtifactHTML,
	// ArtifactAlive) to rendered bytes.
	Artifacts map[string][]byte

	// OverrideUsed reports whether the supported-CU override drove
	// classification rather than the age heuristic.
	OverrideUsed bool

	// RecordCount is the number of release records parsed from upstream.
	RecordCount int

	Stats Stats
}
