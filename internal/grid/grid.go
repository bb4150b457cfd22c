// Package grid binds normalized rows and declarative column specs to a
// tabular display widget. The core depends only on the Adapter interface;
// TermGrid is the terminal implementation.
package grid

import "deskfeed/internal/schema"

// StyleTag classifies a cell for display without naming a concrete style.
// The adapter implementation maps tags to whatever its widget understands.
type StyleTag string

const (
	StyleNone   StyleTag = ""
	StyleGain   StyleTag = "gain"
	StyleLoss   StyleTag = "loss"
	StyleDim    StyleTag = "dim"
	StyleAccent StyleTag = "accent"
	StyleNav    StyleTag = "nav"
)

// ColumnSpec declares one column: where its value comes from, how it is
// formatted and styled, and what happens when it is clicked.
type ColumnSpec struct {
	Field string
	Label string
	Width int

	// Format renders the cell; nil falls back to the row's string value.
	Format func(schema.Row) string

	// Style classifies the cell; nil means StyleNone.
	Style func(schema.Row) StyleTag

	// OnClick, when set, makes this a navigation column: clicking it
	// bypasses row selection and performs its side effect immediately.
	OnClick func(schema.Row)
}

// CellText resolves the display string for one cell.
func (c ColumnSpec) CellText(r schema.Row) string {
	if c.Format != nil {
		return c.Format(r)
	}
	return r.Str(c.Field)
}

// SelectionFunc receives the full current selection; an empty slice means
// dependent detail panels must transition to their hidden/empty state.
type SelectionFunc func(selected []schema.Row)

// CellClickFunc receives the clicked column's field key and row.
type CellClickFunc func(field string, row schema.Row)

// Adapter is the capability the rest of the core programs against.
type Adapter interface {
	// Render initializes the widget with rows and columns.
	Render(rows []schema.Row, cols []ColumnSpec)

	// Update replaces the displayed rows without rebuilding the widget;
	// scroll position and selections on surviving identity keys are kept.
	Update(rows []schema.Row)

	OnSelectionChanged(fn SelectionFunc)
	OnCellClicked(fn CellClickFunc)
}
