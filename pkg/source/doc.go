// Package source fetches and dissects the two upstream documents the
// catalog is built from: the markdown release table (primary, fatal on
// failure) and the HTML supported-builds page (secondary, best effort).
// Raw responses are cached between runs via pkg/cache.
package source
