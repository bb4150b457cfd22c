// Package pages declares the feed pages of the dashboard. Each page is one
// table entry: endpoint, row schema, column specs, aggregation spec, and
// stat/chart bindings. The UI and the headless snapshotter consume pages
// uniformly; adding a feed means adding an entry here.
package pages

import (
	"fmt"

	"deskfeed/internal/aggregate"
	"deskfeed/internal/grid"
	"deskfeed/internal/schema"
	"deskfeed/internal/stats"
)

// Page is one feed of the dashboard.
type Page struct {
	Name    string // tab label
	Feed    string // API endpoint, also the archive feed name
	RowsKey string // key of the rows array in the response envelope

	Schema  *schema.Schema
	Columns []grid.ColumnSpec
	Agg     aggregate.Spec
	Stats   []stats.Binding

	// Chart projects the summary into bar chart data; nil means no chart.
	Chart func(aggregate.Summary) []stats.BarDatum

	// TickerField is the navigation column; Reanalyze enables the
	// re-analysis action on the selected row.
	TickerField string
	Reanalyze   bool
}

// All returns the page table. windowDays and topK come from dashboard
// config and parameterize every aggregation spec.
func All(windowDays, topK int) []Page {
	return []Page{
		insiderTrades(windowDays, topK),
		congressTrades(windowDays, topK),
		signals(windowDays, topK),
		sentiment(windowDays, topK),
	}
}

// ByFeed returns the page for a feed endpoint, or ok=false.
func ByFeed(pages []Page, feed string) (Page, bool) {
	for _, p := range pages {
		if p.Feed == feed {
			return p, true
		}
	}
	return Page{}, false
}

func navStyle(schema.Row) grid.StyleTag { return grid.StyleNav }

func tradeTypeStyle(field string) func(schema.Row) grid.StyleTag {
	return func(r schema.Row) grid.StyleTag {
		switch r.Str(field) {
		case "Purchase", "Buy":
			return grid.StyleGain
		case "Sale", "Sell":
			return grid.StyleLoss
		}
		return grid.StyleNone
	}
}

func currencyCol(field, label string, width int) grid.ColumnSpec {
	return grid.ColumnSpec{Field: field, Label: label, Width: width,
		Format: func(r schema.Row) string {
			if v, ok := r.NumOK(field); ok {
				return stats.FormatCurrency(v)
			}
			return schema.StringNA
		}}
}

func insiderTrades(windowDays, topK int) Page {
	s := &schema.Schema{
		Name: "insider_trades",
		Fields: []schema.Field{
			{Key: "ticker", Kind: schema.KindString},
			{Key: "insider_name", Kind: schema.KindString},
			{Key: "title", Kind: schema.KindString},
			{Key: "transaction_date", Kind: schema.KindDate},
			{Key: "type", Kind: schema.KindString},
			{Key: "shares", Kind: schema.KindNumber},
			{Key: "price_per_share", Kind: schema.KindNumber, NullDefault: true},
			{Key: "value", Kind: schema.KindNumber, NullDefault: true},
		},
		KeyFields:   []string{"ticker", "transaction_date", "insider_name"},
		Passthrough: []string{"_logo_url"},
	}
	agg := aggregate.Spec{
		Dimensions: []aggregate.Dimension{
			{Name: "type", Field: "type", Categories: []string{"Purchase", "Sale"}},
		},
		ValueField:     "value",
		SharesField:    "shares",
		PriceField:     "price_per_share",
		ValueDimension: "type",
		EntityField:    "ticker",
		TopK:           topK,
		DateField:      "transaction_date",
		WindowDays:     windowDays,
	}
	return Page{
		Name:    "Insider",
		Feed:    "insider/trades",
		RowsKey: "trades",
		Schema:  s,
		Columns: []grid.ColumnSpec{
			{Field: "ticker", Label: "Ticker", Width: 7, Style: navStyle},
			{Field: "insider_name", Label: "Insider", Width: 20},
			{Field: "title", Label: "Title", Width: 14, Style: dimAlways},
			{Field: "transaction_date", Label: "Date", Width: 10},
			{Field: "type", Label: "Type", Width: 8, Style: tradeTypeStyle("type")},
			{Field: "shares", Label: "Shares", Width: 10, Format: intCell("shares")},
			currencyCol("price_per_share", "Price", 10),
			currencyCol("value", "Value", 13),
		},
		Agg: agg,
		Stats: []stats.Binding{
			{Label: "Total trades", Value: func(s aggregate.Summary) string {
				return stats.FormatInt(int(s.Total))
			}},
			{Label: "Purchase volume", Value: func(s aggregate.Summary) string {
				return stats.FormatCompact(s.ValueBy["Purchase"])
			}},
			{Label: "Sale volume", Value: func(s aggregate.Summary) string {
				return stats.FormatCompact(s.ValueBy["Sale"])
			}},
			{Label: "Most active", Value: mostActive},
			{Label: fmt.Sprintf("Last %d days", windowDays), Value: func(s aggregate.Summary) string {
				return stats.FormatInt(int(len(s.Recent)))
			}},
		},
		Chart:       topEntityChart,
		TickerField: "ticker",
	}
}

func congressTrades(windowDays, topK int) Page {
	s := &schema.Schema{
		Name: "congress_trades",
		Fields: []schema.Field{
			{Key: "ticker", Kind: schema.KindString},
			{Key: "representative", Kind: schema.KindString},
			{Key: "chamber", Kind: schema.KindString},
			{Key: "party", Kind: schema.KindString},
			{Key: "transaction_date", Kind: schema.KindDate},
			{Key: "type", Kind: schema.KindString},
			{Key: "amount_range", Kind: schema.KindString},
			{Key: "value", Kind: schema.KindNumber, NullDefault: true},
		},
		KeyFields:   []string{"ticker", "transaction_date", "representative"},
		Passthrough: []string{"_logo_url"},
	}
	agg := aggregate.Spec{
		Dimensions: []aggregate.Dimension{
			{Name: "chamber", Field: "chamber", Categories: []string{"House", "Senate"}},
			{Name: "party", Field: "party", Categories: []string{"Democrat", "Republican", "Independent"}},
			{Name: "type", Field: "type", Categories: []string{"Purchase", "Sale"}},
		},
		ValueField:  "value",
		EntityField: "representative",
		TopK:        topK,
		DateField:   "transaction_date",
		WindowDays:  windowDays,
	}
	return Page{
		Name:    "Congress",
		Feed:    "congress/trades",
		RowsKey: "trades",
		Schema:  s,
		Columns: []grid.ColumnSpec{
			{Field: "ticker", Label: "Ticker", Width: 7, Style: navStyle},
			{Field: "representative", Label: "Representative", Width: 22},
			{Field: "chamber", Label: "Chamber", Width: 8},
			{Field: "party", Label: "Party", Width: 11, Style: partyStyle},
			{Field: "transaction_date", Label: "Date", Width: 10},
			{Field: "type", Label: "Type", Width: 8, Style: tradeTypeStyle("type")},
			{Field: "amount_range", Label: "Amount", Width: 17, Style: dimAlways},
		},
		Agg: agg,
		Stats: []stats.Binding{
			{Label: "Total trades", Value: func(s aggregate.Summary) string {
				return stats.FormatInt(int(s.Total))
			}},
			{Label: "House", Value: countOf("chamber", "House")},
			{Label: "Senate", Value: countOf("chamber", "Senate")},
			{Label: "Most active", Value: mostActive},
		},
		Chart: func(s aggregate.Summary) []stats.BarDatum {
			return []stats.BarDatum{
				{Label: "Democrat", Value: float64(s.Count("party", "Democrat"))},
				{Label: "Republican", Value: float64(s.Count("party", "Republican"))},
				{Label: "Independent", Value: float64(s.Count("party", "Independent"))},
			}
		},
		TickerField: "ticker",
	}
}

func signals(windowDays, topK int) Page {
	s := &schema.Schema{
		Name: "signals",
		Fields: []schema.Field{
			{Key: "ticker", Kind: schema.KindString},
			{Key: "signal", Kind: schema.KindString},
			{Key: "confidence", Kind: schema.KindNumber},
			{Key: "generated_at", Kind: schema.KindDate},
		},
		KeyFields:   []string{"ticker"},
		Passthrough: []string{"_reasoning", "_logo_url"},
	}
	agg := aggregate.Spec{
		Dimensions: []aggregate.Dimension{
			{Name: "signal", Field: "signal", Categories: []string{"Buy", "Sell", "Hold"}},
		},
		EntityField: "ticker",
		TopK:        topK,
		DateField:   "generated_at",
		WindowDays:  windowDays,
	}
	return Page{
		Name:    "Signals",
		Feed:    "signals",
		RowsKey: "signals",
		Schema:  s,
		Columns: []grid.ColumnSpec{
			{Field: "ticker", Label: "Ticker", Width: 7, Style: navStyle},
			{Field: "signal", Label: "Signal", Width: 6, Style: tradeTypeStyle("signal")},
			{Field: "confidence", Label: "Conf", Width: 7, Format: func(r schema.Row) string {
				return stats.FormatPercent(r.Num("confidence"))
			}},
			{Field: "generated_at", Label: "Generated", Width: 10, Style: dimAlways},
		},
		Agg: agg,
		Stats: []stats.Binding{
			{Label: "Signals", Value: func(s aggregate.Summary) string {
				return stats.FormatInt(int(s.Total))
			}},
			{Label: "Buy", Value: countOf("signal", "Buy")},
			{Label: "Sell", Value: countOf("signal", "Sell")},
			{Label: "Hold", Value: countOf("signal", "Hold")},
		},
		Chart: func(s aggregate.Summary) []stats.BarDatum {
			return []stats.BarDatum{
				{Label: "Buy", Value: float64(s.Count("signal", "Buy"))},
				{Label: "Sell", Value: float64(s.Count("signal", "Sell"))},
				{Label: "Hold", Value: float64(s.Count("signal", "Hold"))},
			}
		},
		TickerField: "ticker",
		Reanalyze:   true,
	}
}

func sentiment(windowDays, topK int) Page {
	s := &schema.Schema{
		Name: "sentiment",
		Fields: []schema.Field{
			{Key: "ticker", Kind: schema.KindString},
			{Key: "mentions", Kind: schema.KindNumber},
			{Key: "bullish", Kind: schema.KindNumber},
			{Key: "bearish", Kind: schema.KindNumber},
			{Key: "score", Kind: schema.KindNumber},
			{Key: "as_of", Kind: schema.KindDate},
		},
		KeyFields:   []string{"ticker"},
		Passthrough: []string{"_logo_url"},
	}
	agg := aggregate.Spec{
		EntityField: "ticker",
		TopK:        topK,
		DateField:   "as_of",
		WindowDays:  windowDays,
	}
	return Page{
		Name:    "Sentiment",
		Feed:    "sentiment",
		RowsKey: "sentiment",
		Schema:  s,
		Columns: []grid.ColumnSpec{
			{Field: "ticker", Label: "Ticker", Width: 7, Style: navStyle},
			{Field: "mentions", Label: "Mentions", Width: 9, Format: intCell("mentions")},
			{Field: "bullish", Label: "Bullish", Width: 8, Format: intCell("bullish"), Style: gainAlways},
			{Field: "bearish", Label: "Bearish", Width: 8, Format: intCell("bearish"), Style: lossAlways},
			{Field: "score", Label: "Score", Width: 7, Format: func(r schema.Row) string {
				return fmt.Sprintf("%+.2f", r.Num("score"))
			}, Style: scoreStyle},
			{Field: "as_of", Label: "As of", Width: 10, Style: dimAlways},
		},
		Agg: agg,
		Stats: []stats.Binding{
			{Label: "Tickers", Value: func(s aggregate.Summary) string {
				return stats.FormatInt(int(s.Total))
			}},
			{Label: "Top mentioned", Value: topMentioned},
			{Label: "Net sentiment", Value: netSentiment},
		},
		Chart: func(s aggregate.Summary) []stats.BarDatum {
			var data []stats.BarDatum
			for _, r := range s.Recent {
				data = append(data, stats.BarDatum{
					Label: r.Str("ticker"),
					Value: r.Num("mentions"),
				})
				if len(data) == 5 {
					break
				}
			}
			return data
		},
		TickerField: "ticker",
	}
}

// Shared cell helpers.

func dimAlways(schema.Row) grid.StyleTag  { return grid.StyleDim }
func gainAlways(schema.Row) grid.StyleTag { return grid.StyleGain }
func lossAlways(schema.Row) grid.StyleTag { return grid.StyleLoss }

func scoreStyle(r schema.Row) grid.StyleTag {
	switch {
	case r.Num("score") > 0:
		return grid.StyleGain
	case r.Num("score") < 0:
		return grid.StyleLoss
	}
	return grid.StyleNone
}

func partyStyle(r schema.Row) grid.StyleTag {
	switch r.Str("party") {
	case "Democrat":
		return grid.StyleAccent
	case "Republican":
		return grid.StyleLoss
	}
	return grid.StyleNone
}

func intCell(field string) func(schema.Row) string {
	return func(r schema.Row) string {
		if v, ok := r.NumOK(field); ok {
			return stats.FormatInt(int(v))
		}
		return schema.StringNA
	}
}

func countOf(dimension, category string) func(aggregate.Summary) string {
	return func(s aggregate.Summary) string {
		return stats.FormatInt(int(s.Count(dimension, category)))
	}
}

func mostActive(s aggregate.Summary) string {
	top, ok := s.MostActive()
	if !ok {
		return schema.StringNA
	}
	return fmt.Sprintf("%s (%d)", top.Entity, top.Count)
}

// topMentioned scans the windowed rows for the largest mention count.
func topMentioned(s aggregate.Summary) string {
	best := ""
	bestN := -1.0
	for _, r := range s.Recent {
		if n := r.Num("mentions"); n > bestN {
			best = r.Str("ticker")
			bestN = n
		}
	}
	if best == "" {
		return schema.StringNA
	}
	return fmt.Sprintf("%s (%s)", best, stats.FormatCount(int(bestN)))
}

// netSentiment sums bullish minus bearish over the windowed rows.
func netSentiment(s aggregate.Summary) string {
	net := 0.0
	for _, r := range s.Recent {
		net += r.Num("bullish") - r.Num("bearish")
	}
	return fmt.Sprintf("%+d", int(net))
}

// topEntityChart charts the top-K frequency table.
func topEntityChart(s aggregate.Summary) []stats.BarDatum {
	var data []stats.BarDatum
	for _, e := range s.TopEntities {
		data = append(data, stats.BarDatum{Label: e.Entity, Value: float64(e.Count)})
	}
	return data
}
