package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/exchangekit/excheck/pkg/catalog"
)

// ErrNoVersions is returned when the release document yields no records at
// all, which means the table moved or changed shape.
var ErrNoVersions = errors.New("no versions found in release table")

// FetchReleases downloads the primary build-numbers document and parses
// every table row into a version record. Any failure here is fatal to the
// run: without the primary table there is no catalog.
func FetchReleases(ctx context.Context, client *Client, url string, refresh bool) ([]*catalog.Record, error) {
	text, err := client.GetText(ctx, url, refresh)
	if err != nil {
		return nil, fmt.Errorf("fetch release table: %w", err)
	}
	return ParseReleases(text)
}

// ParseReleases converts the markdown release document into records.
//
// Header rows repeat before each per-product table and are skipped by
// their known first cell. A malformed row aborts parsing: a row that lost
// cells signals that the upstream format drifted, and silently skipping it
// would publish a catalog with holes.
func ParseReleases(text string) ([]*catalog.Record, error) {
	var records []*catalog.Record
	for _, cells := range Rows(text) {
		if isHeader(cells) {
			continue
		}
		rec, err := catalog.ParseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("parse release table: %w", err)
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoVersions
	}
	return records, nil
}

// isHeader recognizes the repeated column-header rows of the source table.
func isHeader(cells []string) bool {
	return len(cells) > 0 && strings.TrimSpace(cells[0]) == "Product name"
}
