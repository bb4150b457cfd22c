package stats

import (
	"fmt"
	"strings"

	"deskfeed/internal/aggregate"
)

// Line is one rendered stat: a label and its display string.
type Line struct {
	Label string
	Value string
}

// Binding maps one summary field to a display string. Bindings are pure;
// page tables declare them once and the projector applies them uniformly.
type Binding struct {
	Label string
	Value func(aggregate.Summary) string
}

// Project applies each binding to the summary in order.
func Project(sum aggregate.Summary, bindings []Binding) []Line {
	out := make([]Line, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, Line{Label: b.Label, Value: b.Value(sum)})
	}
	return out
}

// BarDatum is one labelled bar of a chart.
type BarDatum struct {
	Label string
	Value float64
}

// NoData is the placeholder rendered when a chart receives no data.
const NoData = "(no data)"

// BarChart renders a horizontal bar chart into a plain string, one bar per
// datum, scaled to width. Zero data renders the explicit no-data placeholder
// rather than an empty chart.
func BarChart(data []BarDatum, width int) string {
	if width < 10 {
		width = 10
	}

	max := 0.0
	for _, d := range data {
		if d.Value > max {
			max = d.Value
		}
	}
	if len(data) == 0 || max <= 0 {
		return NoData
	}

	labelW := 0
	for _, d := range data {
		if len(d.Label) > labelW {
			labelW = len(d.Label)
		}
	}
	barW := width - labelW - 10
	if barW < 4 {
		barW = 4
	}

	var b strings.Builder
	for i, d := range data {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := int(d.Value / max * float64(barW))
		if d.Value > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%-*s %s %s", labelW, d.Label,
			strings.Repeat("█", n)+strings.Repeat(" ", barW-n),
			FormatCount(int(d.Value)))
	}
	return b.String()
}
