package archive

import (
	"testing"
	"time"

	"deskfeed/internal/schema"
)

var tradeSchema = &schema.Schema{
	Name: "insider_trades",
	Fields: []schema.Field{
		{Key: "ticker", Kind: schema.KindString},
		{Key: "shares", Kind: schema.KindNumber},
		{Key: "price", Kind: schema.KindNumber, NullDefault: true},
		{Key: "is_director", Kind: schema.KindBool},
		{Key: "trade_date", Kind: schema.KindDate},
	},
	KeyFields:   []string{"ticker", "trade_date"},
	Passthrough: []string{"_logo_url"},
}

func sampleRows(t *testing.T) []schema.Row {
	t.Helper()
	return []schema.Row{
		schema.Normalize(map[string]any{
			"ticker":      "ABC",
			"shares":      float64(100),
			"price":       "$12.50",
			"is_director": true,
			"trade_date":  "2024-06-08",
			"_logo_url":   "https://example.com/abc.png",
		}, tradeSchema),
		schema.Normalize(map[string]any{
			"ticker":     "DEF",
			"shares":     float64(50),
			"trade_date": "2024-06-09",
		}, tradeSchema),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := New(t.TempDir())
	date := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	rows := sampleRows(t)

	if err := a.Save("insider/trades", date, rows); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := a.Load("insider/trades", date, tradeSchema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(rows) {
		t.Fatalf("loaded %d rows, want %d", len(loaded), len(rows))
	}

	for i := range rows {
		if loaded[i].Key() != rows[i].Key() {
			t.Errorf("row %d key = %q, want %q", i, loaded[i].Key(), rows[i].Key())
		}
	}

	r := loaded[0]
	if r.Str("ticker") != "ABC" {
		t.Errorf("ticker = %q", r.Str("ticker"))
	}
	if r.Num("shares") != 100 {
		t.Errorf("shares = %v", r.Num("shares"))
	}
	if r.Num("price") != 12.5 {
		t.Errorf("price = %v", r.Num("price"))
	}
	if !r.Bool("is_director") {
		t.Error("is_director lost")
	}
	if d, ok := r.Date("trade_date"); !ok || d.Format("2006-01-02") != "2024-06-08" {
		t.Errorf("trade_date = %v ok=%v", d, ok)
	}
	if r.Extra("_logo_url") != "https://example.com/abc.png" {
		t.Errorf("passthrough = %q", r.Extra("_logo_url"))
	}

	// DEF had no price; the null must survive the round trip.
	if _, ok := loaded[1].NumOK("price"); ok {
		t.Error("null price came back as present")
	}
}

func TestSaveOverwritesSameDate(t *testing.T) {
	a := New(t.TempDir())
	date := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	if err := a.Save("signals", date, sampleRows(t)); err != nil {
		t.Fatal(err)
	}
	one := []schema.Row{schema.Normalize(map[string]any{
		"ticker": "GHI", "shares": float64(1), "trade_date": "2024-06-09",
	}, tradeSchema)}
	if err := a.Save("signals", date, one); err != nil {
		t.Fatal(err)
	}

	loaded, err := a.Load("signals", date, tradeSchema)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Str("ticker") != "GHI" {
		t.Errorf("snapshot not replaced: %d rows", len(loaded))
	}
}

func TestListDatesSorted(t *testing.T) {
	a := New(t.TempDir())
	rows := sampleRows(t)
	for _, d := range []string{"2024-06-10", "2024-06-08", "2024-06-09"} {
		date, _ := time.Parse("2006-01-02", d)
		if err := a.Save("congress/trades", date, rows); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := a.ListDates("congress/trades")
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 3 {
		t.Fatalf("got %d dates, want 3", len(dates))
	}
	for i, want := range []string{"2024-06-08", "2024-06-09", "2024-06-10"} {
		if got := dates[i].Format("2006-01-02"); got != want {
			t.Errorf("dates[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestListDatesMissingFeed(t *testing.T) {
	a := New(t.TempDir())
	dates, err := a.ListDates("nothing")
	if err != nil {
		t.Fatalf("missing feed dir should not error: %v", err)
	}
	if dates != nil {
		t.Errorf("dates = %v, want nil", dates)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	a := New(t.TempDir())
	date := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	if _, err := a.Load("signals", date, tradeSchema); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	if a.Has("signals", date) {
		t.Error("Has should be false for missing snapshot")
	}
}
