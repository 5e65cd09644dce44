// Package check probes a live Exchange server for its build number and
// judges it against the version catalog. The verdict is rendered in a
// monitoring-friendly format: a machine-parseable first line followed by
// upgrade suggestions, with a distinct process exit code per outcome.
package check

import (
	"fmt"
	"strings"

	"github.com/exchangekit/excheck/pkg/catalog"
)

// Outcome is the verdict for a probed server version.
type Outcome int

const (
	// Nominal means the reported build is currently supported.
	Nominal Outcome = iota
	// Outdated means the build exists in the catalog but is dead.
	Outdated
	// Indeterminate means the build is unknown to the catalog, so no
	// judgement is possible.
	Indeterminate
)

// Label returns the monitoring keyword for the outcome.
func (o Outcome) Label() string {
	switch o {
	case Nominal:
		return "OK"
	case Outdated:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the outcome to the process exit code the check command
// uses. The values follow the Nagios plugin convention.
func (o Outcome) ExitCode() int {
	switch o {
	case Nominal:
		return 0
	case Outdated:
		return 2
	default:
		return 3
	}
}

// Report is the full result of evaluating a probed version.
type Report struct {
	Outcome Outcome
	Version string

	// Record is the catalog entry matching Version, nil when unknown.
	Record *catalog.Record

	// Targets lists suggested upgrades, nearest first. Only set for
	// Outdated verdicts.
	Targets []*catalog.Record
}

// EvaluateSet judges a reported build number against a flat alive list, as
// published in alive.json. Without the full tree no upgrade targets can be
// suggested, and builds absent from the list are treated as out of support.
func EvaluateSet(version string, alive []string) *Report {
	report := &Report{Version: version}
	for _, code := range alive {
		if code == version {
			report.Outcome = Nominal
			return report
		}
	}
	report.Outcome = Outdated
	return report
}

// Evaluate judges a reported build number against the catalog.
func Evaluate(version string, cat *catalog.Catalog) *Report {
	report := &Report{Version: version}

	node, ok := cat.Find(version)
	if !ok || node.Record == nil {
		report.Outcome = Indeterminate
		return report
	}
	report.Record = node.Record

	if node.Alive.Alive() {
		report.Outcome = Nominal
		return report
	}

	report.Outcome = Outdated
	report.Targets = cat.UpgradeTargets(version)
	return report
}

// String renders the report. The first line always starts with the outcome
// label and a colon so monitoring systems can parse it; detail lines with
// upgrade targets follow for outdated servers.
func (r *Report) String() string {
	var b strings.Builder

	name := r.Version
	if r.Record != nil {
		name = fmt.Sprintf("%s (%s)", r.Record.DisplayName(), r.Version)
	}

	switch r.Outcome {
	case Nominal:
		fmt.Fprintf(&b, "%s: %s is supported\n", r.Outcome.Label(), name)
	case Outdated:
		fmt.Fprintf(&b, "%s: %s is out of support\n", r.Outcome.Label(), name)
		for _, t := range r.Targets {
			fmt.Fprintf(&b, "upgrade to %s (%s), released %s\n", t.DisplayName(), t.Code, t.Date)
		}
	default:
		fmt.Fprintf(&b, "%s: build %s is not in the version catalog\n", r.Outcome.Label(), r.Version)
	}
	return b.String()
}
