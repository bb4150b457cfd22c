// Package archive persists daily feed snapshots as Parquet files so past
// days can be browsed offline. Feeds have different columns, so rows are
// flattened to one record per cell and rebuilt against the feed's schema on
// load.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"deskfeed/internal/schema"
)

// cellRecord is the on-disk schema: one record per row cell. Row groups
// cells back into rows on load; Extra marks passthrough cells that carry
// only Str.
type cellRecord struct {
	Row    int32   `parquet:"row"`
	Field  string  `parquet:"field"`
	Kind   int32   `parquet:"kind"`
	Str    string  `parquet:"str"`
	Num    float64 `parquet:"num"`
	Flag   bool    `parquet:"flag"`
	TimeMs int64   `parquet:"time_ms,timestamp(millisecond)"`
	Null   bool    `parquet:"null"`
	Extra  bool    `parquet:"extra"`
}

// Archive stores feed snapshots under a data directory.
// Layout: <dataDir>/feeds/<feed>/<YYYY-MM-DD>.parquet
type Archive struct {
	DataDir string
}

// New creates an Archive rooted at the given data directory.
func New(dataDir string) *Archive {
	return &Archive{DataDir: dataDir}
}

// Save writes one day's snapshot for a feed, replacing any existing file
// for that date.
func (a *Archive) Save(feed string, date time.Time, rows []schema.Row) error {
	records := make([]cellRecord, 0, len(rows)*8)
	for i, r := range rows {
		for field, v := range r.Values() {
			records = append(records, cellRecord{
				Row:    int32(i),
				Field:  field,
				Kind:   int32(v.Kind),
				Str:    v.Str,
				Num:    v.Num,
				Flag:   v.Bool,
				TimeMs: timeMs(v.Time),
				Null:   v.Null,
			})
		}
		for field, s := range r.Extras() {
			records = append(records, cellRecord{
				Row:   int32(i),
				Field: field,
				Str:   s,
				Extra: true,
			})
		}
	}

	path := a.snapshotPath(feed, date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing snapshot %s/%s: %w", feed, date.Format("2006-01-02"), err)
	}
	return nil
}

// Load reads one day's snapshot and rebuilds rows against the feed's
// current schema. Returns os.ErrNotExist (wrapped) when no snapshot exists.
func (a *Archive) Load(feed string, date time.Time, s *schema.Schema) ([]schema.Row, error) {
	path := a.snapshotPath(feed, date)
	records, err := parquet.ReadFile[cellRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s/%s: %w", feed, date.Format("2006-01-02"), err)
	}

	type partial struct {
		vals  map[string]schema.Value
		extra map[string]string
	}
	byRow := make(map[int32]*partial)
	var order []int32
	for _, rec := range records {
		p, ok := byRow[rec.Row]
		if !ok {
			p = &partial{vals: make(map[string]schema.Value)}
			byRow[rec.Row] = p
			order = append(order, rec.Row)
		}
		if rec.Extra {
			if p.extra == nil {
				p.extra = make(map[string]string)
			}
			p.extra[rec.Field] = rec.Str
			continue
		}
		p.vals[rec.Field] = schema.Value{
			Kind: schema.Kind(rec.Kind),
			Str:  rec.Str,
			Num:  rec.Num,
			Bool: rec.Flag,
			Time: msTime(rec.TimeMs),
			Null: rec.Null,
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	rows := make([]schema.Row, 0, len(order))
	for _, idx := range order {
		p := byRow[idx]
		rows = append(rows, schema.BuildRow(p.vals, p.extra, s))
	}
	return rows, nil
}

// ListDates returns the snapshot dates available for a feed, oldest first.
func (a *Archive) ListDates(feed string) ([]time.Time, error) {
	dir := filepath.Join(a.DataDir, "feeds", sanitize(feed))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".parquet") {
			continue
		}
		d, err := time.Parse("2006-01-02", strings.TrimSuffix(name, ".parquet"))
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Has reports whether a snapshot exists for the feed and date.
func (a *Archive) Has(feed string, date time.Time) bool {
	_, err := os.Stat(a.snapshotPath(feed, date))
	return err == nil
}

func (a *Archive) snapshotPath(feed string, date time.Time) string {
	return filepath.Join(a.DataDir, "feeds", sanitize(feed), date.Format("2006-01-02")+".parquet")
}

// sanitize maps a feed endpoint like "insider/trades" to a directory name.
func sanitize(feed string) string {
	return strings.ReplaceAll(strings.ToLower(feed), "/", "_")
}

func timeMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func msTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
