package schema

import (
	"math"
	"testing"
	"time"
)

var tradeSchema = &Schema{
	Name: "insider_trades",
	Fields: []Field{
		{Key: "ticker", Kind: KindString},
		{Key: "insider_name", Kind: KindString},
		{Key: "transaction_date", Kind: KindDate},
		{Key: "type", Kind: KindString},
		{Key: "shares", Kind: KindNumber},
		{Key: "price_per_share", Kind: KindNumber},
		{Key: "value", Kind: KindNumber, NullDefault: true},
		{Key: "ten_percent_owner", Kind: KindBool},
	},
	KeyFields:   []string{"ticker", "transaction_date", "insider_name"},
	Passthrough: []string{"_logo_url", "_tooltip"},
}

func TestNormalizeDefaults(t *testing.T) {
	row := Normalize(map[string]any{}, tradeSchema)

	if got := row.Str("ticker"); got != "N/A" {
		t.Errorf("missing string field = %q, want N/A", got)
	}
	if got := row.Num("shares"); got != 0 {
		t.Errorf("missing numeric field = %v, want 0", got)
	}
	if math.IsNaN(row.Num("shares")) {
		t.Error("missing numeric field must never be NaN")
	}
	if _, ok := row.NumOK("value"); ok {
		t.Error("null-default numeric field should report absent")
	}
	if row.Bool("ten_percent_owner") {
		t.Error("missing bool field should default to false")
	}
	if _, ok := row.Date("transaction_date"); ok {
		t.Error("missing date field should report unparsed")
	}
}

func TestNormalizeCoercion(t *testing.T) {
	raw := map[string]any{
		"ticker":            "ABC",
		"insider_name":      "Jane Roe",
		"transaction_date":  "2024-06-08",
		"type":              "Purchase",
		"shares":            float64(100),
		"price_per_share":   "$1,234.50",
		"value":             "garbage",
		"ten_percent_owner": true,
		"_logo_url":         "https://img.example.com/abc.png",
		"unknown_field":     "dropped",
	}
	row := Normalize(raw, tradeSchema)

	if got := row.Str("ticker"); got != "ABC" {
		t.Errorf("ticker = %q", got)
	}
	if got := row.Num("shares"); got != 100 {
		t.Errorf("shares = %v, want 100", got)
	}
	if got := row.Num("price_per_share"); got != 1234.50 {
		t.Errorf("price_per_share = %v, want 1234.50 (currency string coercion)", got)
	}
	// Malformed numeric string with NullDefault coerces to null, not an error.
	if _, ok := row.NumOK("value"); ok {
		t.Error("malformed value should be null")
	}
	if !row.Bool("ten_percent_owner") {
		t.Error("bool field lost")
	}
	d, ok := row.Date("transaction_date")
	if !ok {
		t.Fatal("transaction_date failed to parse")
	}
	if want := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("transaction_date = %v, want %v", d, want)
	}
	if got := row.Extra("_logo_url"); got != "https://img.example.com/abc.png" {
		t.Errorf("passthrough _logo_url = %q", got)
	}
	if got := row.Extra("unknown_field"); got != "" {
		t.Errorf("undeclared extra field should be ignored, got %q", got)
	}
}

func TestNormalizeIdentityKey(t *testing.T) {
	raw := map[string]any{
		"ticker":           "ABC",
		"insider_name":     "Jane Roe",
		"transaction_date": "2024-06-08",
	}
	row := Normalize(raw, tradeSchema)
	if got := row.Key(); got != "ABC|2024-06-08|Jane Roe" {
		t.Errorf("identity key = %q", got)
	}

	// Same input yields the same Row (pure).
	again := Normalize(raw, tradeSchema)
	if row.Key() != again.Key() || row.Str("ticker") != again.Str("ticker") {
		t.Error("Normalize is not deterministic")
	}
}

func TestNormalizeDateFormats(t *testing.T) {
	cases := []struct {
		raw  any
		ok   bool
		want string
	}{
		{"2024-06-08", true, "2024-06-08"},
		{"2024-06-08T14:30:00Z", true, "2024-06-08"},
		{"2024-06-08 14:30:00", true, "2024-06-08"},
		{float64(1717804800000), true, "2024-06-08"},
		{"not a date", false, ""},
		{nil, false, ""},
	}
	for _, tc := range cases {
		row := Normalize(map[string]any{"transaction_date": tc.raw}, tradeSchema)
		d, ok := row.Date("transaction_date")
		if ok != tc.ok {
			t.Errorf("date %v: parsed=%v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && d.Format("2006-01-02") != tc.want {
			t.Errorf("date %v: = %s, want %s", tc.raw, d.Format("2006-01-02"), tc.want)
		}
	}
}

func TestBuildRowRoundTrip(t *testing.T) {
	raw := map[string]any{
		"ticker":           "XYZ",
		"insider_name":     "John Doe",
		"transaction_date": "2024-05-01",
		"shares":           float64(50),
		"_tooltip":         "hover text",
	}
	orig := Normalize(raw, tradeSchema)
	rebuilt := BuildRow(orig.Values(), orig.Extras(), tradeSchema)

	if rebuilt.Key() != orig.Key() {
		t.Errorf("rebuilt key = %q, want %q", rebuilt.Key(), orig.Key())
	}
	if rebuilt.Num("shares") != 50 {
		t.Errorf("rebuilt shares = %v", rebuilt.Num("shares"))
	}
	if rebuilt.Extra("_tooltip") != "hover text" {
		t.Errorf("rebuilt tooltip = %q", rebuilt.Extra("_tooltip"))
	}
}
