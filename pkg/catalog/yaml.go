package catalog

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// The YAML forms serialize only meaningful fields: empty names, unset dates
// and non-alive flags are omitted, numeric paths are reconstructable from
// record codes, and parent back-references never appear (they would recurse
// forever). When a display string is present it is the authoritative date
// representation and the resolved day is dropped.

type recordYAML struct {
	Name      string `yaml:"name"`
	ShortCode string `yaml:"short_code"`
	Date      string `yaml:"date,omitempty"`
	DateStr   string `yaml:"date_str,omitempty"`
	HTMLName  string `yaml:"html_name,omitempty"`
}

type nodeYAML struct {
	Name             string      `yaml:"name,omitempty"`
	HTMLName         string      `yaml:"html_name,omitempty"`
	Version          *recordYAML `yaml:"version,omitempty"`
	LatestRelease    string      `yaml:"latest_release,omitempty"`
	LatestReleaseStr string      `yaml:"latest_release_str,omitempty"`
	Alive            bool        `yaml:"alive,omitempty"`
	Children         []*Node     `yaml:"children,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (r *Record) MarshalYAML() (any, error) {
	out := recordYAML{
		Name:      r.Name,
		ShortCode: r.Code.String(),
		DateStr:   r.Date.Display,
		HTMLName:  r.RichName,
	}
	if r.Date.Display == "" && r.Date.Known() {
		out.Date = r.Date.Day.Format("2006-01-02")
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var in recordYAML
	if err := value.Decode(&in); err != nil {
		return err
	}
	code, err := ParseCode(in.ShortCode)
	if err != nil {
		return fmt.Errorf("record %q: %w", in.Name, err)
	}
	r.Name = in.Name
	r.RichName = in.HTMLName
	r.Code = code
	r.Date = decodeDate(in.Date, in.DateStr)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (any, error) {
	out := nodeYAML{
		Name:             n.Name,
		HTMLName:         n.RichName,
		LatestReleaseStr: n.Latest.Display,
		Alive:            n.Alive.Alive(),
		Children:         n.Children,
	}
	if n.Record != nil {
		rec, err := n.Record.MarshalYAML()
		if err != nil {
			return nil, err
		}
		r := rec.(recordYAML)
		out.Version = &r
	}
	if n.Latest.Display == "" && n.Latest.Known() {
		out.LatestRelease = n.Latest.Day.Format("2006-01-02")
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var in nodeYAML
	if err := value.Decode(&in); err != nil {
		return err
	}
	n.Name = in.Name
	n.RichName = in.HTMLName
	n.Latest = decodeDate(in.LatestRelease, in.LatestReleaseStr)
	n.Children = in.Children
	if in.Alive {
		n.Alive = LivenessAlive
	} else {
		n.Alive = LivenessUnknown
	}
	if in.Version != nil {
		var rec Record
		code, err := ParseCode(in.Version.ShortCode)
		if err != nil {
			return fmt.Errorf("node %q: %w", in.Name, err)
		}
		rec.Name = in.Version.Name
		rec.RichName = in.Version.HTMLName
		rec.Code = code
		rec.Date = decodeDate(in.Version.Date, in.Version.DateStr)
		n.Record = &rec
		n.Path = code
	} else {
		n.Path = branchPath(in.Children)
	}
	return nil
}

// branchPath rebuilds a structural node's numeric path from its decoded
// children. Paths are not serialized, but every child path extends its
// parent's by at least one segment, so the parent path is the longest
// shared prefix of the children's paths. A single child constrains it only
// up to its own penultimate segment.
func branchPath(children []*Node) Code {
	if len(children) == 0 {
		return nil
	}
	prefix := children[0].Path
	if len(children) == 1 {
		if len(prefix) == 0 {
			return nil
		}
		return prefix[:len(prefix)-1]
	}
	for _, c := range children[1:] {
		for !c.Path.HasPrefix(prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

// decodeDate rebuilds a ReleaseDate from its serialized parts. A "2006-01"
// display string resolves back to the first of that month so age arithmetic
// keeps working after a round trip.
func decodeDate(exact, display string) ReleaseDate {
	if display != "" {
		d := ReleaseDate{Display: display}
		if t, err := time.Parse("2006-01", display); err == nil {
			d.Day = t
		}
		return d
	}
	if exact != "" {
		if t, err := time.Parse("2006-01-02", exact); err == nil {
			return ReleaseDate{Day: t}
		}
	}
	return ReleaseDate{}
}

// EncodeForest writes the forest as a YAML document to w.
func EncodeForest(w io.Writer, forest []*Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(forest); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeForest reads a YAML forest, as written by [EncodeForest], and
// relinks parent references so the decoded trees support upward walks.
func DecodeForest(r io.Reader) ([]*Node, error) {
	var forest []*Node
	if err := yaml.NewDecoder(r).Decode(&forest); err != nil {
		return nil, err
	}
	for _, t := range forest {
		t.link(nil)
	}
	return forest, nil
}
