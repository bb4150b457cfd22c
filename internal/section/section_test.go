package section

import (
	"testing"

	"deskfeed/internal/feed"
	"deskfeed/internal/schema"
)

var testSchema = &schema.Schema{
	Name:      "test",
	Fields:    []schema.Field{{Key: "ticker", Kind: schema.KindString}},
	KeyFields: []string{"ticker"},
}

func rowsFor(tickers ...string) []schema.Row {
	var rows []schema.Row
	for _, t := range tickers {
		rows = append(rows, schema.Normalize(map[string]any{"ticker": t}, testSchema))
	}
	return rows
}

func TestSectionLifecycle(t *testing.T) {
	s := New("history")
	if s.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", s.State())
	}

	seq := s.Begin()
	if s.State() != StateLoading {
		t.Errorf("state after Begin = %v, want loading", s.State())
	}
	if !s.Pending() {
		t.Error("Pending should be true after Begin")
	}

	if !s.Apply(Outcome{Seq: seq, Rows: rowsFor("ABC")}) {
		t.Fatal("Apply of current seq should succeed")
	}
	if s.State() != StatePopulated {
		t.Errorf("state = %v, want populated", s.State())
	}
	if len(s.Rows()) != 1 {
		t.Errorf("rows = %d, want 1", len(s.Rows()))
	}
	if s.Pending() {
		t.Error("Pending should be false after Apply")
	}
}

func TestSectionEmptyState(t *testing.T) {
	s := New("signals")
	seq := s.Begin()
	s.Apply(Outcome{Seq: seq, Rows: nil})
	if s.State() != StateEmpty {
		t.Errorf("state = %v, want empty", s.State())
	}
}

func TestSectionErrorState(t *testing.T) {
	s := New("history")
	seq := s.Begin()
	s.Apply(Outcome{Seq: seq, Err: &feed.FetchError{
		Kind: feed.KindHTTP, Endpoint: "history", Status: 500, Message: "db down",
	}})

	if s.State() != StateErrored {
		t.Fatalf("state = %v, want errored", s.State())
	}
	if got := s.ErrorMessage(); got != "Error loading history: db down" {
		t.Errorf("error message = %q", got)
	}
	if s.Rows() != nil {
		t.Error("rows should be cleared on error")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	s := New("grid")

	// Two refreshes fired in quick succession; the first response arrives
	// after the second.
	seq1 := s.Begin()
	seq2 := s.Begin()

	if !s.Apply(Outcome{Seq: seq2, Rows: rowsFor("NEW")}) {
		t.Fatal("latest response should apply")
	}
	if s.Apply(Outcome{Seq: seq1, Rows: rowsFor("OLD")}) {
		t.Fatal("stale response must be discarded")
	}

	if got := s.Rows()[0].Str("ticker"); got != "NEW" {
		t.Errorf("displayed ticker = %q, want NEW (latest request wins)", got)
	}
}

func TestInOrderResponsesBothApply(t *testing.T) {
	s := New("grid")
	seq1 := s.Begin()
	seq2 := s.Begin()

	if !s.Apply(Outcome{Seq: seq1, Rows: rowsFor("FIRST")}) {
		t.Fatal("first response should apply while newest is still in flight")
	}
	if got := s.Rows()[0].Str("ticker"); got != "FIRST" {
		t.Errorf("displayed = %q", got)
	}
	if !s.Apply(Outcome{Seq: seq2, Rows: rowsFor("SECOND")}) {
		t.Fatal("second response should supersede")
	}
	if got := s.Rows()[0].Str("ticker"); got != "SECOND" {
		t.Errorf("displayed = %q", got)
	}
}

func TestErrorDoesNotAffectOtherSections(t *testing.T) {
	grid := New("history")
	statsSec := New("stats")

	gseq := grid.Begin()
	sseq := statsSec.Begin()

	grid.Apply(Outcome{Seq: gseq, Err: &feed.FetchError{Kind: feed.KindHTTP, Message: "db down"}})
	statsSec.Apply(Outcome{Seq: sseq, Rows: rowsFor("ABC")})

	if grid.State() != StateErrored {
		t.Errorf("grid state = %v", grid.State())
	}
	if statsSec.State() != StatePopulated {
		t.Errorf("independent stats section affected by grid error: %v", statsSec.State())
	}
}
