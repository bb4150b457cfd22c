// Package aggregate computes summary statistics over normalized rows: totals,
// per-category counts, top-K frequency tables, and date-windowed subsets.
package aggregate

import (
	"time"

	"deskfeed/internal/schema"
)

// Dimension classifies rows into a fixed set of categories by one field.
// Rows whose value matches no known category are excluded from that
// dimension's counts without error.
type Dimension struct {
	Name       string
	Field      string
	Categories []string
}

// Spec declares what Aggregate computes for one feed.
type Spec struct {
	Dimensions []Dimension

	// Value totals: ValueField is preferred; when absent on a row the
	// product SharesField × PriceField is used; when those are also absent
	// the row contributes 0.
	ValueField  string
	SharesField string
	PriceField  string

	// ValueDimension, when set, additionally buckets value totals by that
	// dimension's categories (e.g. purchase vs. sale volume).
	ValueDimension string

	// Top-K most frequent entities in EntityField.
	EntityField string
	TopK        int

	// Recent window over DateField: [now − WindowDays, now], inclusive
	// lower bound. Rows with unparseable dates are excluded.
	DateField  string
	WindowDays int
}

// EntityCount is one entry of the top-K frequency table.
type EntityCount struct {
	Entity string
	Count  int
}

// Summary is the wholesale-recomputed result of one aggregation pass. It
// derives from the rows but does not own them.
type Summary struct {
	Total      int
	Counts     map[string]map[string]int // dimension name → category → count
	TotalValue float64
	ValueBy    map[string]float64 // ValueDimension category → value total

	// TopEntities is ranked by descending count; ties are broken by
	// first-seen order in the input.
	TopEntities []EntityCount

	// Recent holds the rows inside the date window, in input order.
	Recent []schema.Row
}

// RowValue resolves the monetary value of a single row under the spec's
// value policy.
func (s Spec) RowValue(r schema.Row) float64 {
	if s.ValueField != "" {
		if v, ok := r.NumOK(s.ValueField); ok {
			return v
		}
	}
	if s.SharesField == "" || s.PriceField == "" {
		return 0
	}
	shares, ok1 := r.NumOK(s.SharesField)
	price, ok2 := r.NumOK(s.PriceField)
	if !ok1 || !ok2 {
		return 0
	}
	return shares * price
}

// Aggregate runs one linear pass over rows. Time is O(n); space is bounded
// by the number of distinct categories and entities. An empty or nil input
// yields zero counts and an empty top-K table.
func Aggregate(rows []schema.Row, spec Spec, now time.Time) Summary {
	sum := Summary{
		Total:  len(rows),
		Counts: make(map[string]map[string]int, len(spec.Dimensions)),
	}

	known := make(map[string]map[string]bool, len(spec.Dimensions))
	for _, d := range spec.Dimensions {
		buckets := make(map[string]int, len(d.Categories))
		cats := make(map[string]bool, len(d.Categories))
		for _, c := range d.Categories {
			buckets[c] = 0
			cats[c] = true
		}
		sum.Counts[d.Name] = buckets
		known[d.Name] = cats
	}
	if spec.ValueDimension != "" {
		sum.ValueBy = make(map[string]float64)
		for _, d := range spec.Dimensions {
			if d.Name == spec.ValueDimension {
				for _, c := range d.Categories {
					sum.ValueBy[c] = 0
				}
			}
		}
	}

	var windowStart time.Time
	if spec.DateField != "" && spec.WindowDays > 0 {
		windowStart = now.AddDate(0, 0, -spec.WindowDays)
	}

	entityCounts := make(map[string]int)
	var entityOrder []string

	for _, r := range rows {
		for _, d := range spec.Dimensions {
			cat := r.Str(d.Field)
			if !known[d.Name][cat] {
				continue
			}
			sum.Counts[d.Name][cat]++
			if d.Name == spec.ValueDimension {
				sum.ValueBy[cat] += spec.RowValue(r)
			}
		}

		if spec.ValueField != "" || spec.SharesField != "" {
			sum.TotalValue += spec.RowValue(r)
		}

		if spec.EntityField != "" {
			entity := r.Str(spec.EntityField)
			if entity != schema.StringNA {
				if _, seen := entityCounts[entity]; !seen {
					entityOrder = append(entityOrder, entity)
				}
				entityCounts[entity]++
			}
		}

		if !windowStart.IsZero() {
			if d, ok := r.Date(spec.DateField); ok {
				if !d.Before(windowStart) && !d.After(now) {
					sum.Recent = append(sum.Recent, r)
				}
			}
		}
	}

	sum.TopEntities = topK(entityCounts, entityOrder, spec.TopK)
	return sum
}

// topK ranks entities by descending count, breaking ties by first-seen order.
// A selection scan over the first-seen list keeps the tie-break exact without
// a comparison sort's unstable reordering.
func topK(counts map[string]int, order []string, k int) []EntityCount {
	if k <= 0 || len(order) == 0 {
		return nil
	}

	picked := make(map[string]bool, k)
	var out []EntityCount
	for len(out) < k && len(out) < len(order) {
		best := ""
		bestCount := -1
		for _, e := range order {
			if picked[e] {
				continue
			}
			// Strict > keeps the earliest-seen entity on ties.
			if counts[e] > bestCount {
				best = e
				bestCount = counts[e]
			}
		}
		if best == "" {
			break
		}
		picked[best] = true
		out = append(out, EntityCount{Entity: best, Count: bestCount})
	}
	return out
}

// MostActive returns the single most frequent entity, or ok=false when the
// summary has no entities.
func (s Summary) MostActive() (EntityCount, bool) {
	if len(s.TopEntities) == 0 {
		return EntityCount{}, false
	}
	return s.TopEntities[0], true
}

// Count returns one category bucket, or 0 for unknown dimension/category.
func (s Summary) Count(dimension, category string) int {
	return s.Counts[dimension][category]
}
