package chart

import (
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
)

// Figure is a Plotly figure description, serialized as JSON for the browser.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single bar series.
type Trace struct {
	Type string    `json:"type"`
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// Layout holds the figure-wide settings.
type Layout struct {
	BarMode      string `json:"barmode"`
	Title        Text   `json:"title"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	HoverMode    string `json:"hovermode"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
}

// Axis describes one axis.
type Axis struct {
	Title Text      `json:"title"`
	Range []float64 `json:"range,omitempty"`
}

// Text wraps a label the way Plotly expects it.
type Text struct {
	Text string `json:"text"`
}

// BuildFigure renders result as a stacked bar chart: one trace per stacked
// series, dates on the x-axis and the y-axis sized by AxisRange.
func BuildFigure(result *forecast.Result) Figure {
	fig := Figure{
		Layout: Layout{
			BarMode:      "stack",
			Title:        Text{Text: constants.ChartTitle},
			XAxis:        Axis{Title: Text{Text: "Date"}},
			HoverMode:    "x unified",
			PaperBGColor: "white",
			PlotBGColor:  "white",
		},
	}

	axis := AxisRange(MaxStack(result))
	fig.Layout.YAxis = Axis{
		Title: Text{Text: "Total Revenue"},
		Range: []float64{axis[0], axis[1]},
	}
	if result == nil {
		return fig
	}

	dates := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		dates[i] = datetime.FormatDate(row.Date)
	}

	fig.Data = make([]Trace, 0, len(result.Stack))
	for _, series := range result.Stack {
		values := make([]float64, len(result.Rows))
		for i, row := range result.Rows {
			values[i] = row.Value(series.Column)
		}
		fig.Data = append(fig.Data, Trace{
			Type: "bar",
			Name: series.Label,
			X:    dates,
			Y:    values,
		})
	}
	return fig
}
