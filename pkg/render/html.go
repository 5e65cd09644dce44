// Package render turns the finished catalog into the published artifacts:
// a static HTML table of every version and a flat JSON list of alive build
// numbers for external consumers.
package render

import (
	"fmt"
	"html"
	"io"

	"github.com/exchangekit/excheck/pkg/catalog"
)

const htmlHeader = `<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.4.1/css/bootstrap.min.css" crossorigin="anonymous">
		<script src="https://code.jquery.com/jquery-3.4.1.slim.min.js" crossorigin="anonymous"></script>
		<script src="https://cdn.jsdelivr.net/npm/popper.js@1.16.0/dist/umd/popper.min.js" crossorigin="anonymous"></script>
		<script src="https://stackpath.bootstrapcdn.com/bootstrap/4.4.1/js/bootstrap.min.js" crossorigin="anonymous"></script>
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>Exchange versions</title>
	</head>
	<body><div class="container-fluid">
		<h1>Exchange versions</h1>
		<button class="btn btn-primary mb-2" type="button" data-toggle="collapse" data-target=".vt-collapse-dead" aria-expanded="true">Toggle old versions</button>
		<table class="table table-striped table-responsive" id="vt">
			<thead class="thead-dark"><tr><th scope="col">Name</th><th scope="col">Version</th><th scope="col">Latest Release</th></tr></thead>
`

const htmlFooter = `		</table>
	</div></body>
</html>
`

// WriteHTML renders the catalog rows as a static bootstrap page. Dead rows
// are tinted and tagged with the vt-collapse-dead class so the toggle
// button can hide them; indentation mirrors tree depth.
func WriteHTML(w io.Writer, rows []catalog.Row) error {
	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}

func writeRow(w io.Writer, row catalog.Row) error {
	var deadColor, deadCollapse string
	if !row.Alive {
		deadColor = ` class="text-danger"`
		deadCollapse = ` class="collapse show vt-collapse-dead"`
	}

	name := row.RichName
	if name == "" {
		name = html.EscapeString(row.Name)
	}
	indent := fmt.Sprintf(`style="padding-left: %dem;"`, 2*row.Depth)

	_, err := fmt.Fprintf(w, "<tr%s><td %s>%s</td><td%s>%s</td><td%s>%s</td></tr>\n",
		deadCollapse, indent, name,
		deadColor, html.EscapeString(row.Code),
		deadColor, html.EscapeString(row.Date))
	return err
}
