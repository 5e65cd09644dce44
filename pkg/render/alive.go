package render

import (
	"encoding/json"
	"io"
)

// WriteAliveJSON writes the flat list of build numbers still considered
// alive, one dotted code per entry, newest branches first.
func WriteAliveJSON(w io.Writer, codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(codes)
}
