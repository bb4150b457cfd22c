package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskfeed/internal/aggregate"
	"deskfeed/internal/archive"
	"deskfeed/internal/config"
	"deskfeed/internal/feed"
	"deskfeed/internal/grid"
	"deskfeed/internal/logo"
	"deskfeed/internal/pages"
	"deskfeed/internal/schema"
	"deskfeed/internal/section"
	"deskfeed/internal/stats"
	"deskfeed/internal/store"
)

// Styles.
var (
	headerBarStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	historyBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	footerBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	statLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statValueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	sectionHdrStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	detailStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Messages.
type tickMsg time.Time

type feedLoadedMsg struct {
	feed   string
	region string // "grid" or "stats"
	seq    uint64
	rows   []schema.Row
	sum    aggregate.Summary
	err    error
}

type histLoadedMsg struct {
	feed     string
	date     time.Time
	seq      uint64 // grid region sequence
	statsSeq uint64
	rows     []schema.Row
	sum      aggregate.Summary
	err      error
}

type pinsLoadedMsg struct {
	feed    string
	tickers []string
	err     error
}

type pinToggledMsg struct {
	feed   string
	ticker string
	pinned bool
	err    error
}

type actionDoneMsg struct {
	feed    string
	message string
	err     error
}

type logoResolvedMsg struct {
	ticker string
	url    string
}

// pageUI bundles one feed page with its grid widget and sections. The grid
// and stats regions fetch independently; each owns its sequence counter.
type pageUI struct {
	page     pages.Page
	grid     *grid.TermGrid
	gridSec  *section.Section
	statsSec *section.Section

	rendered  bool // grid has had its initial Render
	selected  []schema.Row
	pinned    map[string]bool
	navTicker string // set by a navigation column click, consumed by the model

	histMode  bool
	histDates []time.Time
	histIdx   int
}

func newPageUI(p pages.Page) *pageUI {
	pu := &pageUI{
		page:     p,
		grid:     grid.NewTermGrid(),
		gridSec:  section.New(p.Name),
		statsSec: section.New(p.Name + " stats"),
		pinned:   make(map[string]bool),
	}
	pu.grid.OnSelectionChanged(func(sel []schema.Row) { pu.selected = sel })
	pu.grid.OnCellClicked(func(field string, r schema.Row) {
		if field == p.TickerField {
			pu.navTicker = r.Str(field)
		}
	})
	return pu
}

func (pu *pageUI) histDate() (time.Time, bool) {
	if !pu.histMode || pu.histIdx < 0 || pu.histIdx >= len(pu.histDates) {
		return time.Time{}, false
	}
	return pu.histDates[pu.histIdx], true
}

// Model.
type model struct {
	cfg    *config.Config
	client *feed.Client
	pins   store.PinStore
	arc    *archive.Archive
	logger *slog.Logger

	pages  []*pageUI
	active int

	// Logo lookups run one at a time; the resolver is only ever touched
	// from the in-flight command.
	logos    *logo.Resolver
	logoURLs map[string]string
	logoBusy bool

	viewport      viewport.Model
	ready         bool
	width, height int
	notice        string
}

func (m model) current() *pageUI { return m.pages[m.active] }

func (m *model) pageByFeed(feedName string) *pageUI {
	for _, pu := range m.pages {
		if pu.page.Feed == feedName {
			return pu
		}
	}
	return nil
}

func tickCmd(refreshSec int) tea.Cmd {
	return tea.Tick(time.Duration(refreshSec)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd runs one fetch cycle for a page region. The sequence number was
// issued by the section before the command started; the outcome carries it
// back so stale responses get discarded on arrival.
func fetchCmd(client *feed.Client, p pages.Page, region string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := client.Fetch(ctx, p.Feed, p.RowsKey, nil)
		if err != nil {
			return feedLoadedMsg{feed: p.Feed, region: region, seq: seq, err: err}
		}
		rows := normalizeRows(res.Rows, p.Schema)
		sum := aggregate.Aggregate(rows, p.Agg, time.Now())
		return feedLoadedMsg{feed: p.Feed, region: region, seq: seq, rows: rows, sum: sum}
	}
}

func normalizeRows(raw []map[string]any, s *schema.Schema) []schema.Row {
	rows := make([]schema.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, schema.Normalize(r, s))
	}
	return rows
}

// refreshCmd begins a new fetch cycle on both regions of a page.
func (m *model) refreshCmd(pu *pageUI) tea.Cmd {
	gseq := pu.gridSec.Begin()
	sseq := pu.statsSec.Begin()
	return tea.Batch(
		fetchCmd(m.client, pu.page, "grid", gseq),
		fetchCmd(m.client, pu.page, "stats", sseq),
	)
}

// histCmd loads an archived snapshot into both regions of a page.
func (m *model) histCmd(pu *pageUI, date time.Time) tea.Cmd {
	gseq := pu.gridSec.Begin()
	sseq := pu.statsSec.Begin()
	p := pu.page
	arc := m.arc
	return func() tea.Msg {
		rows, err := arc.Load(p.Feed, date, p.Schema)
		if err != nil {
			return histLoadedMsg{feed: p.Feed, date: date, seq: gseq, statsSeq: sseq, err: err}
		}
		sum := aggregate.Aggregate(rows, p.Agg, date)
		return histLoadedMsg{feed: p.Feed, date: date, seq: gseq, statsSeq: sseq, rows: rows, sum: sum}
	}
}

func loadPinsCmd(pins store.PinStore, feedName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tickers, err := pins.List(ctx, feedName)
		return pinsLoadedMsg{feed: feedName, tickers: tickers, err: err}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.cfg.Dashboard.RefreshSec)}
	for _, pu := range m.pages {
		cmds = append(cmds, m.refreshCmd(pu), loadPinsCmd(m.pins, pu.page.Feed))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		for _, pu := range m.pages {
			if !pu.histMode {
				cmds = append(cmds, m.refreshCmd(pu))
			}
		}
		cmds = append(cmds, tickCmd(m.cfg.Dashboard.RefreshSec))
		return m, tea.Batch(cmds...)

	case feedLoadedMsg:
		pu := m.pageByFeed(msg.feed)
		if pu == nil || pu.histMode {
			return m, nil
		}
		m.applyOutcome(pu, msg.region, section.Outcome{
			Seq: msg.seq, Rows: msg.rows, Summary: msg.sum, Err: msg.err,
		})
		if msg.err != nil {
			m.logger.Warn("fetch failed", "feed", msg.feed, "region", msg.region, "error", msg.err)
		}
		m.refreshView()
		return m, nil

	case histLoadedMsg:
		pu := m.pageByFeed(msg.feed)
		if pu == nil || !pu.histMode {
			return m, nil
		}
		// One snapshot load feeds both regions.
		m.applyOutcome(pu, "grid", section.Outcome{Seq: msg.seq, Rows: msg.rows, Summary: msg.sum, Err: msg.err})
		m.applyOutcome(pu, "stats", section.Outcome{Seq: msg.statsSeq, Rows: msg.rows, Summary: msg.sum, Err: msg.err})
		if msg.err != nil {
			m.logger.Warn("history load failed", "feed", msg.feed, "date", msg.date.Format("2006-01-02"), "error", msg.err)
		}
		m.refreshView()
		return m, nil

	case pinsLoadedMsg:
		pu := m.pageByFeed(msg.feed)
		if pu == nil {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("loading pins", "feed", msg.feed, "error", msg.err)
			return m, nil
		}
		pu.pinned = make(map[string]bool, len(msg.tickers))
		for _, t := range msg.tickers {
			pu.pinned[t] = true
		}
		m.applyMarks(pu)
		m.refreshView()
		return m, nil

	case pinToggledMsg:
		if msg.err != nil {
			m.logger.Warn("pin toggle failed", "feed", msg.feed, "ticker", msg.ticker, "error", msg.err)
			// Revert the optimistic update.
			if pu := m.pageByFeed(msg.feed); pu != nil {
				if msg.pinned {
					delete(pu.pinned, msg.ticker)
				} else {
					pu.pinned[msg.ticker] = true
				}
				m.applyMarks(pu)
				m.refreshView()
			}
		}
		return m, nil

	case logoResolvedMsg:
		m.logoBusy = false
		if msg.url != "" {
			m.logoURLs[msg.ticker] = msg.url
		}
		m.refreshView()
		return m, m.resolveLogos(m.current())

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = "re-analysis failed: " + msg.err.Error()
			m.logger.Warn("action failed", "feed", msg.feed, "error", msg.err)
			m.refreshView()
			return m, nil
		}
		m.notice = msg.message
		// The refreshed response replaces rows wholesale.
		if pu := m.pageByFeed(msg.feed); pu != nil {
			m.refreshView()
			return m, m.refreshCmd(pu)
		}
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pu := m.current()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.active = (m.active + 1) % len(m.pages)
		m.notice = ""
		m.refreshView()
		m.viewport.GotoTop()
		return m, nil

	case "shift+tab":
		m.active = (m.active - 1 + len(m.pages)) % len(m.pages)
		m.notice = ""
		m.refreshView()
		m.viewport.GotoTop()
		return m, nil

	case "r":
		if pu.histMode {
			return m, nil
		}
		m.notice = ""
		return m, m.refreshCmd(pu)

	case "up":
		pu.grid.MoveCursor(-1)
		m.refreshView()
		return m, nil

	case "down":
		pu.grid.MoveCursor(1)
		m.refreshView()
		return m, nil

	case " ":
		pu.grid.ToggleSelect()
		m.refreshView()
		return m, m.resolveLogos(pu)

	case "esc":
		pu.grid.ClearSelection()
		m.refreshView()
		return m, nil

	case "enter":
		pu.grid.ClickCell(pu.page.TickerField)
		if pu.navTicker != "" && pu.navTicker != schema.StringNA {
			m.notice = fmt.Sprintf("%s → https://app.deskfeed.io/ticker/%s", pu.navTicker, pu.navTicker)
			pu.navTicker = ""
		}
		m.refreshView()
		return m, nil

	case "p":
		return m, m.togglePin(pu)

	case "a":
		return m, m.reanalyze(pu)

	case "left":
		return m, m.navigateHistory(pu, -1)

	case "right":
		return m, m.navigateHistory(pu, 1)

	case "home":
		if pu.histMode {
			pu.histMode = false
			m.refreshView()
			m.viewport.GotoTop()
			return m, m.refreshCmd(pu)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// resolveLogos kicks off a lookup for the first selected ticker without a
// known logo URL. Rows carrying a _logo_url passthrough skip the resolver.
func (m *model) resolveLogos(pu *pageUI) tea.Cmd {
	if m.logoBusy {
		return nil
	}
	for _, r := range pu.selected {
		ticker := r.Str(pu.page.TickerField)
		if ticker == schema.StringNA || m.logoURLs[ticker] != "" || m.logos.Failed(ticker) {
			continue
		}
		if url := r.Extra("_logo_url"); url != "" {
			m.logoURLs[ticker] = url
			continue
		}
		m.logoBusy = true
		resolver := m.logos
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return logoResolvedMsg{ticker: ticker, url: resolver.Resolve(ctx, ticker)}
		}
	}
	return nil
}

// togglePin flips the pin on the cursor row, optimistically, and persists it
// in the background.
func (m *model) togglePin(pu *pageUI) tea.Cmd {
	row, ok := pu.grid.Cursor()
	if !ok {
		return nil
	}
	ticker := row.Str(pu.page.TickerField)
	if ticker == schema.StringNA {
		return nil
	}

	feedName := pu.page.Feed
	pins := m.pins
	nowPinned := !pu.pinned[ticker]
	if nowPinned {
		pu.pinned[ticker] = true
	} else {
		delete(pu.pinned, ticker)
	}
	m.applyMarks(pu)
	m.refreshView()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		if nowPinned {
			err = pins.Pin(ctx, feedName, ticker)
		} else {
			err = pins.Unpin(ctx, feedName, ticker)
		}
		return pinToggledMsg{feed: feedName, ticker: ticker, pinned: nowPinned, err: err}
	}
}

// reanalyze POSTs the re-analysis action for the cursor row's ticker.
func (m *model) reanalyze(pu *pageUI) tea.Cmd {
	if !pu.page.Reanalyze || pu.histMode {
		return nil
	}
	row, ok := pu.grid.Cursor()
	if !ok {
		return nil
	}
	ticker := row.Str(pu.page.TickerField)
	if ticker == schema.StringNA {
		return nil
	}

	m.notice = "re-analyzing " + ticker + "..."
	m.refreshView()

	client := m.client
	feedName := pu.page.Feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := client.Post(ctx, feedName+"/reanalyze", map[string]string{"ticker": ticker})
		if err != nil {
			return actionDoneMsg{feed: feedName, err: err}
		}
		msg := res.Message
		if msg == "" {
			msg = "re-analysis requested for " + ticker
		}
		return actionDoneMsg{feed: feedName, message: msg}
	}
}

func (m *model) navigateHistory(pu *pageUI, delta int) tea.Cmd {
	if !pu.histMode {
		if delta > 0 || len(pu.histDates) == 0 {
			return nil
		}
		pu.histMode = true
		pu.histIdx = len(pu.histDates) - 1
	} else {
		newIdx := pu.histIdx + delta
		if newIdx >= len(pu.histDates) {
			// Back to live.
			pu.histMode = false
			m.refreshView()
			m.viewport.GotoTop()
			return m.refreshCmd(pu)
		}
		if newIdx < 0 {
			return nil
		}
		pu.histIdx = newIdx
	}

	date, _ := pu.histDate()
	return m.histCmd(pu, date)
}

// applyOutcome installs a fetch outcome into a page region and syncs the
// grid widget when the grid region changed.
func (m *model) applyOutcome(pu *pageUI, region string, out section.Outcome) {
	sec := pu.gridSec
	if region == "stats" {
		sec = pu.statsSec
	}
	if !sec.Apply(out) {
		m.logger.Debug("stale response discarded", "feed", pu.page.Feed, "region", region, "seq", out.Seq)
		return
	}
	if region != "grid" {
		return
	}

	rows := sec.Rows()
	if !pu.rendered {
		pu.grid.Render(rows, pu.page.Columns)
		pu.rendered = true
	} else {
		pu.grid.Update(rows)
	}
	m.applyMarks(pu)
}

// applyMarks projects the pinned ticker set onto grid identity keys.
func (m *model) applyMarks(pu *pageUI) {
	marks := make(map[string]bool)
	for _, r := range pu.gridSec.Rows() {
		if pu.pinned[r.Str(pu.page.TickerField)] {
			marks[r.Key()] = true
		}
	}
	pu.grid.SetMarked(marks)
}

func (m *model) refreshView() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	pu := m.current()

	var tabs []string
	for i, p := range m.pages {
		if i == m.active {
			tabs = append(tabs, "["+p.page.Name+"]")
		} else {
			tabs = append(tabs, " "+p.page.Name+" ")
		}
	}

	var headerBar string
	if date, ok := pu.histDate(); ok {
		headerText := fmt.Sprintf(" deskfeed  %s  HISTORY %s  [%d/%d] ",
			strings.Join(tabs, " "), date.Format("2006-01-02"), pu.histIdx+1, len(pu.histDates))
		headerBar = historyBarStyle.Render(padOrTrunc(headerText, m.width))
	} else {
		headerText := fmt.Sprintf(" deskfeed  %s  %s ", strings.Join(tabs, " "), time.Now().Format("2006-01-02 15:04"))
		headerBar = headerBarStyle.Render(padOrTrunc(headerText, m.width))
	}

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := " q quit  tab page  r refresh  up/dn select  space mark  p pin  enter open  left/right history  home live"
	if pu.page.Reanalyze {
		footerLeft += "  a reanalyze"
	}
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerBar := footerBarStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent() string {
	pu := m.current()
	var b strings.Builder

	if m.notice != "" {
		b.WriteString(noticeStyle.Render("  " + m.notice))
		b.WriteString("\n\n")
	}

	// Stats region.
	b.WriteString(sectionHdrStyle.Render("  Stats"))
	b.WriteString("\n")
	switch pu.statsSec.State() {
	case section.StateErrored:
		b.WriteString(errStyle.Render("  " + pu.statsSec.ErrorMessage()))
		b.WriteString("\n")
	case section.StateIdle, section.StateLoading:
		b.WriteString(dimStyle.Render("  Loading..."))
		b.WriteString("\n")
	default:
		sum := pu.statsSec.Summary()
		for _, line := range stats.Project(sum, pu.page.Stats) {
			b.WriteString("  ")
			b.WriteString(statLabelStyle.Render(padOrTrunc(line.Label, 18)))
			b.WriteString(statValueStyle.Render(line.Value))
			b.WriteString("\n")
		}
		if pu.page.Chart != nil {
			chart := stats.BarChart(pu.page.Chart(sum), m.width-4)
			b.WriteString("\n")
			for _, line := range strings.Split(chart, "\n") {
				b.WriteString("  " + line + "\n")
			}
		}
	}
	b.WriteString("\n")

	// Grid region.
	b.WriteString(sectionHdrStyle.Render("  " + pu.page.Name))
	b.WriteString("\n")
	switch pu.gridSec.State() {
	case section.StateErrored:
		b.WriteString(errStyle.Render("  " + pu.gridSec.ErrorMessage()))
		b.WriteString("\n")
	case section.StateEmpty:
		b.WriteString(dimStyle.Render("  (no rows)"))
		b.WriteString("\n")
	case section.StateIdle, section.StateLoading:
		b.WriteString(dimStyle.Render("  Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(pu.grid.View())
	}

	// Detail panel: hidden when nothing is selected.
	if len(pu.selected) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHdrStyle.Render(fmt.Sprintf("  Selected (%d)", len(pu.selected))))
		b.WriteString("\n")
		for _, r := range pu.selected {
			b.WriteString(detailStyle.Render("  " + detailLine(r, pu.page)))
			b.WriteString("\n")
			if reasoning := r.Extra("_reasoning"); reasoning != "" {
				b.WriteString(dimStyle.Render("    " + reasoning))
				b.WriteString("\n")
			}
			if url := m.logoURLs[r.Str(pu.page.TickerField)]; url != "" {
				b.WriteString(dimStyle.Render("    logo: " + url))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// detailLine summarizes a selected row from its column specs.
func detailLine(r schema.Row, p pages.Page) string {
	parts := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		parts = append(parts, c.Label+": "+c.CellText(r))
	}
	return strings.Join(parts, "  ")
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.API.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "api.base_url not configured (set DESKFEED_API_URL or pass -config)")
		os.Exit(1)
	}

	// The terminal owns stdout; logs go to a dated file.
	logPath := fmt.Sprintf("/tmp/deskfeed-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: logLevel(cfg.Logging.Level)}))

	client := feed.NewClient(cfg.API, logger)

	pinStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening pin store: %v\n", err)
		os.Exit(1)
	}
	defer pinStore.Close()

	arc := archive.New(cfg.Storage.DataDir)

	var pageUIs []*pageUI
	for _, p := range pages.All(cfg.Dashboard.WindowDays, cfg.Dashboard.TopK) {
		pu := newPageUI(p)
		dates, err := arc.ListDates(p.Feed)
		if err != nil {
			logger.Warn("listing archive dates", "feed", p.Feed, "error", err)
		}
		pu.histDates = dates
		pageUIs = append(pageUIs, pu)
	}
	logger.Info("starting dashboard", "pages", len(pageUIs), "base_url", cfg.API.BaseURL)

	p := tea.NewProgram(
		model{
			cfg: cfg, client: client, pins: pinStore, arc: arc, logger: logger,
			pages:    pageUIs,
			logos:    logo.NewResolver(nil, 256),
			logoURLs: make(map[string]string),
		},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
