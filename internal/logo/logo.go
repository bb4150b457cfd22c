// Package logo resolves company logo URLs. Each ticker gets an ordered list
// of candidate URLs; candidates are tried in order and a ticker whose
// candidates all fail is remembered in a bounded set so it is not retried
// on every render.
package logo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Candidates returns the ordered logo URL list for a ticker. The first entry
// is the platform's own asset host, then public fallbacks.
func Candidates(ticker string) []string {
	t := normalize(ticker)
	if t == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("https://assets.deskfeed.io/logos/%s.png", t),
		fmt.Sprintf("https://logo.clearbit.com/%s.com", strings.ToLower(t)),
		fmt.Sprintf("https://financialmodelingprep.com/image-stock/%s.png", t),
	}
}

// NextCandidate returns the candidate after current, or "" when current is
// the last (or unknown). A fresh lookup starts with current == "".
func NextCandidate(ticker, current string) string {
	cands := Candidates(ticker)
	if len(cands) == 0 {
		return ""
	}
	if current == "" {
		return cands[0]
	}
	for i, c := range cands {
		if c == current {
			if i+1 < len(cands) {
				return cands[i+1]
			}
			return ""
		}
	}
	return ""
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// CheckFunc probes one candidate URL and reports whether it serves a logo.
type CheckFunc func(ctx context.Context, url string) bool

// Resolver walks candidate lists and caches failures. The failed set is
// bounded: when full, the oldest half is evicted. Not safe for concurrent
// use; the event loop is the only caller.
type Resolver struct {
	check    CheckFunc
	resolved map[string]string
	failed   map[string]struct{}
	failSeen []string
	maxFail  int
}

// NewResolver creates a resolver with the given probe and failed-set bound.
// A nil check uses an HTTP HEAD probe.
func NewResolver(check CheckFunc, maxFailed int) *Resolver {
	if check == nil {
		check = headCheck
	}
	if maxFailed <= 0 {
		maxFailed = 256
	}
	return &Resolver{
		check:    check,
		resolved: make(map[string]string),
		failed:   make(map[string]struct{}),
		maxFail:  maxFailed,
	}
}

// Resolve returns a working logo URL for ticker, or "" when none of the
// candidates respond. Results are cached both ways.
func (r *Resolver) Resolve(ctx context.Context, ticker string) string {
	t := normalize(ticker)
	if t == "" {
		return ""
	}
	if url, ok := r.resolved[t]; ok {
		return url
	}
	if _, ok := r.failed[t]; ok {
		return ""
	}

	for url := NextCandidate(t, ""); url != ""; url = NextCandidate(t, url) {
		if r.check(ctx, url) {
			r.resolved[t] = url
			return url
		}
	}

	r.markFailed(t)
	return ""
}

// Failed reports whether ticker is in the failed set.
func (r *Resolver) Failed(ticker string) bool {
	_, ok := r.failed[normalize(ticker)]
	return ok
}

func (r *Resolver) markFailed(t string) {
	if _, ok := r.failed[t]; ok {
		return
	}
	if len(r.failed) >= r.maxFail {
		half := len(r.failSeen) / 2
		for _, old := range r.failSeen[:half] {
			delete(r.failed, old)
		}
		r.failSeen = append([]string(nil), r.failSeen[half:]...)
	}
	r.failed[t] = struct{}{}
	r.failSeen = append(r.failSeen, t)
}

func headCheck(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
