package stats

import (
	"strings"
	"testing"

	"deskfeed/internal/aggregate"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{999999.999, "$1,000,000.00"},
		{1000000, "$1,000,000.00"},
		{0.1, "$0.10"},
		{-42.5, "-$42.50"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{500, "$500"},
		{1500, "$1.5K"},
		{2500000, "$2.5M"},
		{3100000000, "$3.1B"},
	}
	for _, tc := range cases {
		if got := FormatCompact(tc.in); got != tc.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatInt(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range cases {
		if got := FormatInt(tc.in); got != tc.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.1234); got != "12.3%" {
		t.Errorf("FormatPercent(0.1234) = %q, want 12.3%%", got)
	}
}

func TestOrNA(t *testing.T) {
	if got := OrNA(""); got != "N/A" {
		t.Errorf("OrNA(\"\") = %q", got)
	}
	if got := OrNA("x"); got != "x" {
		t.Errorf("OrNA(\"x\") = %q", got)
	}
}

func TestProject(t *testing.T) {
	sum := aggregate.Summary{Total: 3, TotalValue: 1000}
	lines := Project(sum, []Binding{
		{Label: "Total", Value: func(s aggregate.Summary) string { return FormatInt(s.Total) }},
		{Label: "Volume", Value: func(s aggregate.Summary) string { return FormatCurrency(s.TotalValue) }},
	})

	if len(lines) != 2 {
		t.Fatalf("Project returned %d lines, want 2", len(lines))
	}
	if lines[0].Value != "3" {
		t.Errorf("Total line = %q", lines[0].Value)
	}
	if lines[1].Value != "$1,000.00" {
		t.Errorf("Volume line = %q", lines[1].Value)
	}
}

func TestBarChartNoData(t *testing.T) {
	if got := BarChart(nil, 40); got != NoData {
		t.Errorf("BarChart(nil) = %q, want placeholder", got)
	}
	zeros := []BarDatum{{Label: "House", Value: 0}, {Label: "Senate", Value: 0}}
	if got := BarChart(zeros, 40); got != NoData {
		t.Errorf("BarChart(zero values) = %q, want placeholder", got)
	}
}

func TestBarChart(t *testing.T) {
	out := BarChart([]BarDatum{
		{Label: "House", Value: 10},
		{Label: "Senate", Value: 5},
	}, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("BarChart produced %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "House") || !strings.Contains(lines[0], "10") {
		t.Errorf("first bar missing label/value: %q", lines[0])
	}
	houseBars := strings.Count(lines[0], "█")
	senateBars := strings.Count(lines[1], "█")
	if houseBars <= senateBars {
		t.Errorf("larger value should render a longer bar: %d vs %d", houseBars, senateBars)
	}
}
