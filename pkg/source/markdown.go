package source

import "strings"

// Rows extracts the cell sequences of every pipe-table row in a markdown
// document. Non-table lines, the |---| separator rows, and all-blank
// spacer rows (the upstream table pads sections with bare "|" and "||"
// lines) are dropped; header rows are kept, since telling them apart
// needs domain knowledge the caller has and this extractor does not.
func Rows(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if isSeparator(cells) || isBlank(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

// isBlank reports whether every cell of the row is empty. Blank rows are
// layout spacers, not truncated data, and must not abort the scrape.
func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// splitRow splits one table line into cells, dropping the outer pipes.
// Cell content is not trimmed; the record parser owns that.
func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	return strings.Split(line, "|")
}

// isSeparator reports whether the row is a |---|---| alignment separator.
func isSeparator(cells []string) bool {
	sawDash := false
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if strings.Trim(cell, "-:") != "" {
			return false
		}
		sawDash = true
	}
	return sawDash
}
