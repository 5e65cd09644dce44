package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrShortRow is returned by [ParseRow] when a table row has fewer than
	// three cells. This is treated as a hard failure: a truncated row means
	// the upstream table format changed, not that a single entry is bad.
	ErrShortRow = errors.New("row has fewer than 3 cells")

	// ErrEmptyCode is returned by [ParseCode] for an empty version string.
	ErrEmptyCode = errors.New("empty version code")
)

// Code is a dotted build number split into its numeric segments,
// e.g. "15.2.1748.10" becomes {15, 2, 1748, 10}. It is the sort and
// lookup key for the whole catalog.
type Code []int

// ParseCode parses a dotted version string into a Code. Leading zeros in
// each segment are dropped ("15.02.01234.005" parses the same as
// "15.2.1234.5"), so formatting a parsed code yields the normalized form.
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyCode
	}
	parts := strings.Split(s, ".")
	code := make(Code, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid version code %q: %w", s, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid version code %q: negative segment", s)
		}
		code = append(code, n)
	}
	return code, nil
}

// String returns the canonical dotted form, without leading zeros.
func (c Code) String() string {
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare orders codes segment by segment, with a shorter prefix sorting
// before its extensions (so 15.2 < 15.2.1).
func (c Code) Compare(other Code) int {
	for i := 0; i < len(c) && i < len(other); i++ {
		switch {
		case c[i] < other[i]:
			return -1
		case c[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(c) < len(other):
		return -1
	case len(c) > len(other):
		return 1
	}
	return 0
}

// HasPrefix reports whether prefix is a leading sub-sequence of c.
func (c Code) HasPrefix(prefix Code) bool {
	if len(prefix) > len(c) {
		return false
	}
	for i, n := range prefix {
		if c[i] != n {
			return false
		}
	}
	return true
}

// ReleaseDate is a possibly-approximate calendar date. Exactly one of the
// two representations is authoritative:
//
//   - an exact date has Day set and Display empty;
//   - an approximate date has Display set (e.g. "2023-05" for a month-only
//     source entry, or "Unknown: <text>" for an unparseable one) and may
//     carry a resolved Day (first of month) used only for arithmetic.
//
// The zero value means "no date at all".
type ReleaseDate struct {
	Day     time.Time // resolved day used for age arithmetic; zero if unknown
	Display string    // authoritative display form when the date is not exact
}

// Known reports whether a resolved day is available for arithmetic.
func (d ReleaseDate) Known() bool { return !d.Day.IsZero() }

// IsZero reports whether the date carries no information at all.
func (d ReleaseDate) IsZero() bool { return d.Day.IsZero() && d.Display == "" }

// String returns the display form: the placeholder string when present,
// otherwise the exact date as YYYY-MM-DD, otherwise "".
func (d ReleaseDate) String() string {
	if d.Display != "" {
		return d.Display
	}
	if !d.Day.IsZero() {
		return d.Day.Format("2006-01-02")
	}
	return ""
}

// after reports whether d's resolved day is strictly after other's.
func (d ReleaseDate) after(other ReleaseDate) bool {
	return d.Day.After(other.Day)
}

// Record is a single released build parsed from one table row.
// Records are created once during parsing and never mutated.
type Record struct {
	Name     string      // plain display name
	RichName string      // HTML anchor form when the source name carried a link
	Code     Code        // parsed dotted build number
	Date     ReleaseDate // release date, possibly approximate
}

// DisplayName returns the rich (linked) name when present, else the plain one.
func (r *Record) DisplayName() string {
	if r.RichName != "" {
		return r.RichName
	}
	return r.Name
}

var (
	mdLink = regexp.MustCompile(`\[(.+?)\]\((.+?)\)`)
	// Repairs month names glued to a day number, e.g. "May25" -> "May 25".
	dateGlue = regexp.MustCompile(`([a-zA-Z])([0-9])`)
)

// splitMarkdown converts markdown links inside s into an HTML anchor form,
// returning the plain text and, when they differ, the HTML rendering.
func splitMarkdown(s string) (plain, html string) {
	var p, h strings.Builder
	for {
		m := mdLink.FindStringSubmatchIndex(s)
		if m == nil {
			p.WriteString(s)
			h.WriteString(s)
			break
		}
		p.WriteString(s[:m[0]])
		h.WriteString(s[:m[0]])
		text := s[m[2]:m[3]]
		href := s[m[4]:m[5]]
		p.WriteString(text)
		fmt.Fprintf(&h, `<a href=%q>%s</a>`, href, text)
		s = s[m[1]:]
	}
	plain = p.String()
	html = h.String()
	if plain == html {
		return plain, ""
	}
	return plain, html
}

// parseDate interprets the date cell of a row. Parsing never fails hard:
// a cell that matches none of the known layouts yields a descriptive
// placeholder with no resolved day.
func parseDate(cell string) ReleaseDate {
	cell = dateGlue.ReplaceAllString(strings.TrimSpace(cell), "$1 $2")
	if t, err := time.Parse("January 2, 2006", cell); err == nil {
		return ReleaseDate{Day: t}
	}
	for _, layout := range []string{"January, 2006", "January 2006"} {
		if t, err := time.Parse(layout, cell); err == nil {
			// Month-only entry: first of month for arithmetic, year-month for display.
			return ReleaseDate{Day: t, Display: t.Format("2006-01")}
		}
	}
	return ReleaseDate{Display: "Unknown: " + cell}
}

// cleanName trims a name cell and drops the &nbsp; indentation padding that
// the source table uses for nested entries.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "&nbsp;") {
		s = strings.TrimLeft(strings.TrimPrefix(s, "&nbsp;"), " \t")
	}
	return s
}

// ParseRow converts one table row (name, date, code, ...) into a Record.
//
// A row whose first three cells are all blank is a separator and yields
// (nil, nil). A row with fewer than three cells is a precondition violation
// and returns ErrShortRow: the caller should abort the whole scrape rather
// than skip it. An unparseable date is recoverable (placeholder display
// string); an unparseable code or empty name is not.
func ParseRow(cells []string) (*Record, error) {
	if len(cells) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrShortRow, len(cells))
	}
	rawName := cleanName(cells[0])
	rawDate := strings.TrimSpace(cells[1])
	rawCode := strings.TrimSpace(cells[2])
	if rawName == "" && rawDate == "" && rawCode == "" {
		return nil, nil
	}

	name, richName := splitMarkdown(rawName)
	if name == "" {
		return nil, fmt.Errorf("row %v: empty name", cells[:3])
	}
	code, err := ParseCode(rawCode)
	if err != nil {
		return nil, fmt.Errorf("row %q: %w", name, err)
	}

	return &Record{
		Name:     name,
		RichName: richName,
		Code:     code,
		Date:     parseDate(rawDate),
	}, nil
}
