package chart

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// PlotlyScriptURL is the Plotly build loaded by generated pages.
const PlotlyScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="chart" style="width:100%;height:600px;"></div>
<script>
const figure = {{.Figure}};
Plotly.newPlot("chart", figure.data, figure.layout, {responsive: true});
</script>
</body>
</html>
`))

// WriteHTML writes a standalone page that draws fig.
func WriteHTML(w io.Writer, fig Figure, title string) error {
	encoded, err := json.Marshal(fig)
	if err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}

	return pageTemplate.Execute(w, struct {
		Title  string
		Script string
		Figure template.JS
	}{
		Title:  title,
		Script: PlotlyScriptURL,
		Figure: template.JS(encoded),
	})
}
