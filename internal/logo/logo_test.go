package logo

import (
	"context"
	"fmt"
	"testing"
)

func TestNextCandidateWalksInOrder(t *testing.T) {
	cands := Candidates("abc ")
	if len(cands) == 0 {
		t.Fatal("no candidates for valid ticker")
	}

	seen := 0
	for url := NextCandidate("ABC", ""); url != ""; url = NextCandidate("ABC", url) {
		if url != cands[seen] {
			t.Errorf("candidate %d = %q, want %q", seen, url, cands[seen])
		}
		seen++
	}
	if seen != len(cands) {
		t.Errorf("walked %d candidates, want %d", seen, len(cands))
	}
}

func TestNextCandidateUnknownCurrent(t *testing.T) {
	if got := NextCandidate("ABC", "https://elsewhere/x.png"); got != "" {
		t.Errorf("unknown current should end the chain, got %q", got)
	}
	if got := NextCandidate("", ""); got != "" {
		t.Errorf("empty ticker should have no candidates, got %q", got)
	}
}

func TestResolveCachesSuccess(t *testing.T) {
	calls := 0
	r := NewResolver(func(ctx context.Context, url string) bool {
		calls++
		return true
	}, 10)

	first := r.Resolve(context.Background(), "abc")
	if first == "" {
		t.Fatal("expected a resolved URL")
	}
	second := r.Resolve(context.Background(), "ABC")
	if second != first {
		t.Errorf("case-insensitive lookup returned %q, want cached %q", second, first)
	}
	if calls != 1 {
		t.Errorf("probe ran %d times, want 1 (cached after success)", calls)
	}
}

func TestResolveCachesFailure(t *testing.T) {
	calls := 0
	r := NewResolver(func(ctx context.Context, url string) bool {
		calls++
		return false
	}, 10)

	if got := r.Resolve(context.Background(), "XYZ"); got != "" {
		t.Fatalf("all candidates fail, got %q", got)
	}
	probesPerLookup := calls

	r.Resolve(context.Background(), "XYZ")
	if calls != probesPerLookup {
		t.Errorf("failed ticker was re-probed: %d calls, want %d", calls, probesPerLookup)
	}
	if !r.Failed("xyz") {
		t.Error("ticker should be in the failed set")
	}
}

func TestFailedSetBounded(t *testing.T) {
	r := NewResolver(func(ctx context.Context, url string) bool { return false }, 4)

	for i := 0; i < 6; i++ {
		r.Resolve(context.Background(), fmt.Sprintf("T%d", i))
	}

	// The oldest entries were evicted when the bound was hit.
	if r.Failed("T0") {
		t.Error("oldest failed entry should have been evicted")
	}
	if !r.Failed("T5") {
		t.Error("newest failed entry should still be cached")
	}
	if len(r.failed) > 4 {
		t.Errorf("failed set size %d exceeds bound 4", len(r.failed))
	}
}
