package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deskfeed/internal/schema"
)

// Styles.
var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	gainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	navStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selMarkStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	pinMarkStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	cursorBG      = lipgloss.Color("236")
)

func styleFor(tag StyleTag) lipgloss.Style {
	switch tag {
	case StyleGain:
		return gainStyle
	case StyleLoss:
		return lossStyle
	case StyleDim:
		return dimStyle
	case StyleAccent:
		return accentStyle
	case StyleNav:
		return navStyle
	default:
		return lipgloss.NewStyle()
	}
}

// cursorStyle returns a copy of s with the cursor background applied when
// hl is true.
func cursorStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(cursorBG)
	}
	return s
}

// TermGrid is the terminal Adapter. It holds the one piece of mutable state
// in the pipeline: the current row set plus cursor and selection. It is
// driven from the event loop only and is not safe for concurrent use.
type TermGrid struct {
	cols   []ColumnSpec
	rows   []schema.Row
	cursor int

	selected map[string]bool // identity key → selected
	marked   map[string]bool // identity key → pinned marker

	onSelection SelectionFunc
	onCellClick CellClickFunc
}

var _ Adapter = (*TermGrid)(nil)

// NewTermGrid creates an empty, uninitialized grid.
func NewTermGrid() *TermGrid {
	return &TermGrid{selected: make(map[string]bool), marked: make(map[string]bool)}
}

// Render initializes the grid with rows and column specs. Any previous
// selection is cleared.
func (g *TermGrid) Render(rows []schema.Row, cols []ColumnSpec) {
	g.cols = cols
	g.rows = rows
	g.cursor = 0
	if len(g.selected) > 0 {
		g.selected = make(map[string]bool)
		g.fireSelection()
	}
}

// Update replaces the displayed rows in place. Selections survive for rows
// whose identity key is still present; the cursor is clamped. The column
// specs and any applied marks are untouched.
func (g *TermGrid) Update(rows []schema.Row) {
	surviving := make(map[string]bool, len(rows))
	for _, r := range rows {
		surviving[r.Key()] = true
	}

	changed := false
	for key := range g.selected {
		if !surviving[key] {
			delete(g.selected, key)
			changed = true
		}
	}

	g.rows = rows
	if g.cursor >= len(rows) {
		g.cursor = len(rows) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}

	if changed {
		g.fireSelection()
	}
}

// OnSelectionChanged registers the selection callback.
func (g *TermGrid) OnSelectionChanged(fn SelectionFunc) { g.onSelection = fn }

// OnCellClicked registers the cell-click callback.
func (g *TermGrid) OnCellClicked(fn CellClickFunc) { g.onCellClick = fn }

// SetMarked replaces the set of marked (pinned) identity keys.
func (g *TermGrid) SetMarked(keys map[string]bool) { g.marked = keys }

// MoveCursor moves the cursor by delta, clamped to the row range.
func (g *TermGrid) MoveCursor(delta int) {
	g.cursor += delta
	if g.cursor < 0 {
		g.cursor = 0
	}
	if g.cursor >= len(g.rows) {
		g.cursor = len(g.rows) - 1
	}
}

// Cursor returns the row under the cursor.
func (g *TermGrid) Cursor() (schema.Row, bool) {
	if g.cursor < 0 || g.cursor >= len(g.rows) {
		return schema.Row{}, false
	}
	return g.rows[g.cursor], true
}

// ToggleSelect toggles selection of the row under the cursor. Multiple rows
// may be selected.
func (g *TermGrid) ToggleSelect() {
	r, ok := g.Cursor()
	if !ok {
		return
	}
	key := r.Key()
	if g.selected[key] {
		delete(g.selected, key)
	} else {
		g.selected[key] = true
	}
	g.fireSelection()
}

// ClearSelection deselects everything.
func (g *TermGrid) ClearSelection() {
	if len(g.selected) == 0 {
		return
	}
	g.selected = make(map[string]bool)
	g.fireSelection()
}

// SelectedRows returns the selected rows in display order.
func (g *TermGrid) SelectedRows() []schema.Row {
	var out []schema.Row
	for _, r := range g.rows {
		if g.selected[r.Key()] {
			out = append(out, r)
		}
	}
	return out
}

func (g *TermGrid) fireSelection() {
	if g.onSelection != nil {
		g.onSelection(g.SelectedRows())
	}
}

// ClickCell simulates a click on the cursor row in the column with the given
// field key. Navigation columns run their side effect and bypass selection;
// the cell-click callback fires either way.
func (g *TermGrid) ClickCell(field string) {
	r, ok := g.Cursor()
	if !ok {
		return
	}
	for _, c := range g.cols {
		if c.Field != field {
			continue
		}
		if c.OnClick != nil {
			c.OnClick(r)
		}
		if g.onCellClick != nil {
			g.onCellClick(field, r)
		}
		return
	}
}

// Len returns the number of displayed rows.
func (g *TermGrid) Len() int { return len(g.rows) }

// View renders the grid as styled terminal text: one header line and one
// line per row.
func (g *TermGrid) View() string {
	var b strings.Builder

	b.WriteString("   ")
	for _, c := range g.cols {
		b.WriteString(headerStyle.Render(pad(c.Label, colWidth(c))))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')

	for i, r := range g.rows {
		hl := i == g.cursor
		mark := " "
		switch {
		case g.selected[r.Key()]:
			mark = selMarkStyle.Render("▸")
		case g.marked[r.Key()]:
			mark = pinMarkStyle.Render("*")
		}
		b.WriteString(mark)
		b.WriteString(cursorStyle(lipgloss.NewStyle(), hl).Render("  "))
		for _, c := range g.cols {
			cell := pad(c.CellText(r), colWidth(c))
			tag := StyleNone
			if c.Style != nil {
				tag = c.Style(r)
			} else if c.OnClick != nil {
				tag = StyleNav
			}
			b.WriteString(cursorStyle(styleFor(tag), hl).Render(cell))
			b.WriteString(cursorStyle(lipgloss.NewStyle(), hl).Render(" "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func colWidth(c ColumnSpec) int {
	if c.Width > 0 {
		return c.Width
	}
	return 12
}

// pad pads s with spaces to width, or truncates if longer.
func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return fmt.Sprintf("%-*s", width, s)
}
