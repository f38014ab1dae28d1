// Package ui is the terminal dashboard: a record table and inspector side by
// side, with the weight-category, height-ranking and type charts below.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// DatasetLoader reads the collection once.
type DatasetLoader interface {
	Load(ctx context.Context, source string) ([]creature.Record, error)
}

// Options configure the Shell.
type Options struct {
	Source       string
	PageSize     int
	ViewSplit    int
	TopN         int
	TopTypes     int
	LogScale     bool
	StatsEnabled bool
	StatsWindow  int
	LoadTimeout  time.Duration
	Logger       *zap.Logger
	Context      context.Context
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PageSize:    DefaultPageSize,
		ViewSplit:   60,
		TopN:        15,
		TopTypes:    10,
		StatsWindow: 64,
	}
}

type datasetLoadedMsg struct {
	records []creature.Record
	err     error
	elapsed time.Duration
}

// Shell is the root model. It owns the loaded snapshot and the selection;
// the panels render from them and hold no state of their own.
type Shell struct {
	opts   Options
	loader DatasetLoader
	logger *zap.Logger
	ctx    context.Context

	width, height  int
	leftPaneWidth  int
	rightPaneWidth int

	loaded   bool
	loadErr  error
	snapshot *Snapshot
	selected *creature.Record

	table   RecordTable
	ranking rankingChart
	help    help.Model
	metrics *dashboardMetrics
}

// NewShell creates the dashboard. Nothing is read until Init runs.
func NewShell(loader DatasetLoader, opts Options) *Shell {
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.TopTypes <= 0 {
		opts.TopTypes = def.TopTypes
	}
	if opts.ViewSplit == 0 {
		opts.ViewSplit = def.ViewSplit
	}
	opts.ViewSplit = clampSplit(opts.ViewSplit)
	if opts.StatsWindow <= 0 {
		opts.StatsWindow = def.StatsWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Shell{
		opts:     opts,
		loader:   loader,
		logger:   logger,
		ctx:      ctx,
		snapshot: NewSnapshot(nil, opts.TopN, opts.TopTypes),
		table:    NewRecordTable(opts.PageSize),
		ranking:  rankingChart{logScale: opts.LogScale},
		help:     help.New(),
		metrics:  newDashboardMetrics(opts.StatsEnabled, opts.StatsWindow),
	}
	s.resize(defaultWidth, defaultHeight)
	return s
}

// Snapshot is the current collection and its derived data.
func (s *Shell) Snapshot() *Snapshot { return s.snapshot }

// Selected is the record shown in the inspector, or nil.
func (s *Shell) Selected() *creature.Record { return s.selected }

// Table exposes the record table state.
func (s *Shell) Table() RecordTable { return s.table }

// Loaded reports whether the load has completed, successfully or not.
func (s *Shell) Loaded() bool { return s.loaded }

// LoadErr is the load failure, if any.
func (s *Shell) LoadErr() error { return s.loadErr }

func (s *Shell) Init() tui.Cmd {
	return s.loadDataset()
}

func (s *Shell) loadDataset() tui.Cmd {
	return func() tui.Msg {
		ctx := s.ctx
		if s.opts.LoadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
			defer cancel()
		}
		start := time.Now()
		records, err := s.loader.Load(ctx, s.opts.Source)
		return datasetLoadedMsg{records: records, err: err, elapsed: time.Since(start)}
	}
}

func (s *Shell) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case datasetLoadedMsg:
		s.applyLoad(msg)
		return s, nil
	case RecordActivatedMsg:
		s.selectRecord(msg.ID)
		return s, nil
	case tui.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil
	case tui.MouseMsg:
		// The table panel sits at the top left, inside its border and padding.
		if msg.X >= s.leftPaneWidth {
			return s, nil
		}
		msg.X -= panelStyle.GetBorderLeftSize() + panelStyle.GetPaddingLeft()
		msg.Y -= panelStyle.GetBorderTopSize() + panelStyle.GetPaddingTop()
		var cmd tui.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return s, tui.Quit
		case key.Matches(msg, keys.Help):
			s.help.ShowAll = !s.help.ShowAll
			return s, nil
		case key.Matches(msg, keys.Chart):
			s.ranking.toggleMode()
			return s, nil
		case key.Matches(msg, keys.Scale):
			s.ranking.toggleScale()
			return s, nil
		}
	}
	var cmd tui.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

// applyLoad swaps in the loaded collection. A failed load leaves an empty
// collection and every panel in its empty form.
func (s *Shell) applyLoad(msg datasetLoadedMsg) {
	records := msg.records
	if msg.err != nil {
		s.logger.Error("loading dataset failed, showing empty collection",
			zap.String("source", s.opts.Source), zap.Error(msg.err))
		records = nil
	}

	start := time.Now()
	snapshot := NewSnapshot(records, s.opts.TopN, s.opts.TopTypes)
	s.metrics.observeDerive(time.Since(start))
	s.metrics.observeLoad(msg.elapsed, len(records))

	s.snapshot = snapshot
	s.selected = nil
	s.loaded = true
	s.loadErr = msg.err
	s.table.SetRecords(snapshot.Records)
	s.logger.Info("dataset ready",
		zap.Int("records", len(records)),
		zap.Duration("load", msg.elapsed),
		zap.Duration("derive", time.Since(start)))
}

func (s *Shell) selectRecord(id int) {
	r := s.snapshot.Lookup(id)
	if r == nil {
		s.logger.Warn("activated id not in collection", zap.Int("id", id))
		return
	}
	s.selected = r
	s.logger.Debug("record selected", zap.Int("id", id), zap.String("name", r.Name))
}

func (s *Shell) resize(width, height int) {
	s.width, s.height = width, height
	s.leftPaneWidth, s.rightPaneWidth = computePaneWidths(width, s.opts.ViewSplit)
	s.help.Width = width
}

func (s *Shell) View() string {
	start := time.Now()
	defer func() { s.metrics.observeRender(time.Since(start)) }()

	// The table keeps its column widths and is cut at the pane edge rather
	// than wrapped.
	left := panelStyle.Render(s.table.View())
	right := renderInspector(s.selected, s.rightPaneWidth)
	top := styles.JoinHorizontal(styles.Top, fit(left, s.leftPaneWidth), fit(right, s.rightPaneWidth))

	pieW, rankW, typesW := computeChartWidths(s.width)
	chartHeight := min(s.opts.TopN+1, max(6, s.height-styles.Height(top)-3))
	charts := styles.JoinHorizontal(styles.Top,
		fit(renderProportionChart(s.snapshot.Buckets, pieW), pieW),
		fit(s.ranking.view(s.snapshot.Tallest, s.selected, rankW, chartHeight), rankW),
		fit(renderTypeLeaderboard(s.snapshot.Types, typesW), typesW),
	)

	blocks := []string{top, charts}
	if status := s.statusLine(); status != "" {
		blocks = append(blocks, status)
	}
	if stats := s.metrics.lines(); len(stats) != 0 {
		blocks = append(blocks, borderFg.Render(strings.Join(stats, "\n")))
	}
	blocks = append(blocks, s.help.View(keys))
	return styles.JoinVertical(styles.Left, blocks...)
}

func (s *Shell) statusLine() string {
	switch {
	case s.loadErr != nil:
		return errorFg.Render("ERROR: " + s.loadErr.Error())
	case !s.loaded:
		return borderFg.Render(fmt.Sprintf("loading %s …", s.opts.Source))
	}
	return ""
}

// fit cuts block to width and pads shorter lines, so panes line up.
func fit(block string, width int) string {
	clipped := styles.NewStyle().MaxWidth(width).Render(block)
	return styles.NewStyle().Width(width).Render(clipped)
}
