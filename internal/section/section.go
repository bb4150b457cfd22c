// Package section tracks the lifecycle of one independently fetched page
// region. Each refresh is tagged with a monotonically increasing sequence
// number so that responses resolving out of order can never clobber newer
// data, and every fetch cycle lands in a terminal visual state.
package section

import (
	"errors"
	"fmt"

	"deskfeed/internal/aggregate"
	"deskfeed/internal/feed"
	"deskfeed/internal/schema"
)

// State is the visual state of a section. Every fetch-triggering action ends
// in Populated, Empty, or Errored, never a stuck Loading.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the delivered result of one fetch cycle.
type Outcome struct {
	Seq     uint64
	Rows    []schema.Row
	Summary aggregate.Summary
	Err     error
}

// Section owns the state for one page region. It is not safe for concurrent
// use; all transitions happen on the event loop, which is the only writer.
type Section struct {
	name string

	issued  uint64 // latest sequence handed out by Begin
	applied uint64 // sequence of the outcome currently displayed

	state   State
	rows    []schema.Row
	summary aggregate.Summary
	errMsg  string
}

// New creates an idle section with the given display name.
func New(name string) *Section {
	return &Section{name: name}
}

// Name returns the section's display name.
func (s *Section) Name() string { return s.name }

// Begin marks the start of a new fetch cycle and returns its sequence
// number. The section shows Loading only until the first outcome lands;
// an in-flight older fetch can no longer win.
func (s *Section) Begin() uint64 {
	s.issued++
	if s.state == StateIdle {
		s.state = StateLoading
	}
	return s.issued
}

// Apply installs a fetch outcome. It returns false when the outcome is
// stale: an outcome loses if a newer one has already been applied. Responses
// are therefore reflected in issue order regardless of arrival order.
func (s *Section) Apply(o Outcome) bool {
	if o.Seq <= s.applied {
		return false
	}
	s.applied = o.Seq

	switch {
	case o.Err != nil:
		s.state = StateErrored
		s.errMsg = fmt.Sprintf("Error loading %s: %s", s.name, errText(o.Err))
		s.rows = nil
		s.summary = aggregate.Summary{}
	case len(o.Rows) == 0:
		s.state = StateEmpty
		s.rows = nil
		s.summary = o.Summary
		s.errMsg = ""
	default:
		s.state = StatePopulated
		s.rows = o.Rows
		s.summary = o.Summary
		s.errMsg = ""
	}
	return true
}

// errText prefers the server's own message over the wrapped chain for
// user-facing display, e.g. "db down" rather than "fetching history: db down".
func errText(err error) string {
	var fe *feed.FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// State returns the section's current visual state.
func (s *Section) State() State { return s.state }

// Rows returns the currently displayed rows (nil unless Populated).
func (s *Section) Rows() []schema.Row { return s.rows }

// Summary returns the currently displayed aggregate summary.
func (s *Section) Summary() aggregate.Summary { return s.summary }

// ErrorMessage returns the user-visible error line ("" unless Errored).
func (s *Section) ErrorMessage() string { return s.errMsg }

// Pending reports whether a fetch newer than the applied one is in flight.
func (s *Section) Pending() bool { return s.issued > s.applied }
