// Package catalog builds the hierarchical Exchange Server version catalog
// and classifies every version as alive or dead.
//
// The data flows through fixed stages:
//
//	rows -> records -> scaffold -> forest -> inference -> classification
//
// [ParseRow] turns one table row into an immutable [Record]. A [Builder]
// inserts records into a mutable scaffold keyed by the numeric segments of
// their dotted build numbers and finalizes it into the immutable [Node]
// forest. [Infer] then fills derived data bottom-up (latest release dates,
// guessed branch names), and a [Classifier] - [AgeHeuristic] or
// [SupportedOverride] - resolves the tri-state Alive flag top-down. The
// [Catalog] facade wraps the finished forest with a flat code index for the
// live compatibility check.
//
// After classification the tree is read-only; no stage mutates topology.
package catalog
