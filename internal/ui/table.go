package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	tui "github.com/charmbracelet/bubbletea"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// PageSizes are the page size presets the table cycles through.
var PageSizes = []int{5, 10, 25}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, p := range PageSizes {
		if p == n {
			return true
		}
	}
	return false
}

// SortColumn selects the table ordering. SortNone keeps dataset order.
type SortColumn int

const (
	SortNone SortColumn = iota
	SortID
	SortName
	SortType
	SortHeight
	SortWeight
	SortBMI
	SortBaseExperience
	SortOrder

	numSortColumns
)

type column struct {
	title string
	width int
	sort  SortColumn
	cell  func(r *creature.Record) string
	less  func(a, b *creature.Record) bool
}

var columns = []column{
	{"ID", 5, SortID,
		func(r *creature.Record) string { return strconv.Itoa(r.ID) },
		func(a, b *creature.Record) bool { return a.ID < b.ID }},
	{"Name", 14, SortName,
		func(r *creature.Record) string { return r.Name },
		func(a, b *creature.Record) bool { return a.Name < b.Name }},
	{"Type", 16, SortType,
		func(r *creature.Record) string { return r.Types() },
		func(a, b *creature.Record) bool { return a.Types() < b.Types() }},
	{"Height (dm)", 11, SortHeight,
		func(r *creature.Record) string { return formatNumber(r.Height) },
		func(a, b *creature.Record) bool { return a.Height < b.Height }},
	{"Weight (hg)", 11, SortWeight,
		func(r *creature.Record) string { return formatNumber(r.Weight) },
		func(a, b *creature.Record) bool { return a.Weight < b.Weight }},
	{"BMI", 7, SortBMI,
		func(r *creature.Record) string { return formatNumber(r.BMI) },
		func(a, b *creature.Record) bool { return a.BMI < b.BMI }},
	{"Base Exp", 8, SortBaseExperience,
		func(r *creature.Record) string { return strconv.Itoa(r.BaseExperience) },
		func(a, b *creature.Record) bool { return a.BaseExperience < b.BaseExperience }},
	{"Order", 6, SortOrder,
		func(r *creature.Record) string { return strconv.Itoa(r.Order) },
		func(a, b *creature.Record) bool { return a.Order < b.Order }},
}

func (c SortColumn) String() string {
	if c == SortNone {
		return "dataset order"
	}
	for _, col := range columns {
		if col.sort == c {
			return col.title
		}
	}
	return "unknown"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RecordActivatedMsg is emitted when a table row is activated.
type RecordActivatedMsg struct {
	ID int
}

// RecordTable is a client-side paginated, sortable view over the shared
// collection. It only ever reads the records.
type RecordTable struct {
	records []creature.Record
	order   []int // indices into records, in display order
	sortBy  SortColumn
	desc    bool

	pager paginator.Model
	table table.Model
}

// NewRecordTable creates an empty table with the given page size. Sizes
// outside PageSizes fall back to DefaultPageSize.
func NewRecordTable(pageSize int) RecordTable {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = pageSize

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(pageSize+2),
	)
	rt := RecordTable{pager: p, table: t}
	rt.refreshColumns()
	return rt
}

// SetRecords replaces the collection and resets paging and sort.
func (t *RecordTable) SetRecords(records []creature.Record) {
	t.records = records
	t.order = make([]int, len(records))
	for i := range t.order {
		t.order[i] = i
	}
	t.pager.Page = 0
	t.applySort()
}

// TotalRows is the number of rows across all pages.
func (t RecordTable) TotalRows() int { return len(t.order) }

// PageSize is the current number of rows per page.
func (t RecordTable) PageSize() int { return t.pager.PerPage }

// Page is the zero-based current page.
func (t RecordTable) Page() int { return t.pager.Page }

// TotalPages is the number of pages; an empty table has one empty page.
func (t RecordTable) TotalPages() int { return t.pager.TotalPages }

// SortBy reports the sort column and direction.
func (t RecordTable) SortBy() (SortColumn, bool) { return t.sortBy, t.desc }

// SetPageSize changes the page size while keeping the first visible row on screen.
func (t *RecordTable) SetPageSize(n int) {
	if !ValidPageSize(n) {
		return
	}
	first := t.pager.Page * t.pager.PerPage
	t.pager.PerPage = n
	t.syncPages()
	t.pager.Page = min(first/n, max(0, t.pager.TotalPages-1))
	t.table.SetHeight(n + 2)
	t.refreshRows()
}

// CyclePageSize moves to the next preset.
func (t *RecordTable) CyclePageSize() {
	next := PageSizes[0]
	for i, p := range PageSizes {
		if p == t.pager.PerPage {
			next = PageSizes[(i+1)%len(PageSizes)]
			break
		}
	}
	t.SetPageSize(next)
}

// SetSort orders the rows by col. Equal keys keep dataset order.
func (t *RecordTable) SetSort(col SortColumn, desc bool) {
	if col < SortNone || col >= numSortColumns {
		col = SortNone
	}
	t.sortBy, t.desc = col, desc
	t.pager.Page = 0
	t.applySort()
}

// CycleSort moves to the next sort column, ascending.
func (t *RecordTable) CycleSort() {
	t.SetSort((t.sortBy+1)%numSortColumns, false)
}

// ReverseSort flips the sort direction.
func (t *RecordTable) ReverseSort() {
	t.SetSort(t.sortBy, !t.desc)
}

// NextPage moves one page forward if there is one.
func (t *RecordTable) NextPage() {
	if t.pager.OnLastPage() {
		return
	}
	t.pager.NextPage()
	t.refreshRows()
}

// PrevPage moves one page back if there is one.
func (t *RecordTable) PrevPage() {
	if t.pager.OnFirstPage() {
		return
	}
	t.pager.PrevPage()
	t.refreshRows()
}

// PageRecords returns the records on the current page, in display order.
func (t RecordTable) PageRecords() []*creature.Record {
	start, end := t.pager.GetSliceBounds(len(t.order))
	out := make([]*creature.Record, 0, end-start)
	for _, idx := range t.order[start:end] {
		out = append(out, &t.records[idx])
	}
	return out
}

// Cursor is the highlighted row within the current page.
func (t RecordTable) Cursor() int { return t.table.Cursor() }

// SetCursor highlights row i of the current page.
func (t *RecordTable) SetCursor(i int) { t.table.SetCursor(i) }

// HighlightedID returns the id of the highlighted row.
func (t RecordTable) HighlightedID() (int, bool) {
	page := t.PageRecords()
	c := t.table.Cursor()
	if c < 0 || c >= len(page) {
		return 0, false
	}
	return page[c].ID, true
}

// Update handles paging, sorting and activation keys; everything else moves
// the cursor. Mouse coordinates are relative to the table's own view.
func (t RecordTable) Update(msg tui.Msg) (RecordTable, tui.Cmd) {
	switch msg := msg.(type) {
	case tui.MouseMsg:
		return t.click(msg)
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Select):
			id, ok := t.HighlightedID()
			if !ok {
				return t, nil
			}
			return t, func() tui.Msg { return RecordActivatedMsg{ID: id} }
		case key.Matches(msg, keys.NextPage):
			t.NextPage()
			return t, nil
		case key.Matches(msg, keys.PrevPage):
			t.PrevPage()
			return t, nil
		case key.Matches(msg, keys.Sort):
			t.CycleSort()
			return t, nil
		case key.Matches(msg, keys.Reverse):
			t.ReverseSort()
			return t, nil
		case key.Matches(msg, keys.PageSize):
			t.CyclePageSize()
			return t, nil
		}
	}
	var cmd tui.Cmd
	t.table, cmd = t.table.Update(msg)
	return t, cmd
}

// click activates the row under a left-button release. The header takes the
// first line of the view.
func (t RecordTable) click(msg tui.MouseMsg) (RecordTable, tui.Cmd) {
	if msg.Button != tui.MouseButtonLeft || msg.Action != tui.MouseActionRelease {
		return t, nil
	}
	row := msg.Y - 1
	page := t.PageRecords()
	if msg.X < 0 || row < 0 || row >= len(page) {
		return t, nil
	}
	t.table.SetCursor(row)
	id := page[row].ID
	return t, func() tui.Msg { return RecordActivatedMsg{ID: id} }
}

func (t *RecordTable) applySort() {
	if t.sortBy == SortNone {
		sort.Ints(t.order)
		if t.desc {
			for i, j := 0, len(t.order)-1; i < j; i, j = i+1, j-1 {
				t.order[i], t.order[j] = t.order[j], t.order[i]
			}
		}
	} else {
		less := columns[int(t.sortBy)-1].less
		sort.Ints(t.order)
		sort.SliceStable(t.order, func(i, j int) bool {
			a, b := &t.records[t.order[i]], &t.records[t.order[j]]
			if t.desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}
	t.syncPages()
	t.refreshColumns()
	t.refreshRows()
}

// syncPages recomputes the page count. The paginator ignores a zero item
// count, so an empty collection is pinned to one empty page here.
func (t *RecordTable) syncPages() {
	if len(t.order) == 0 {
		t.pager.TotalPages = 1
		t.pager.Page = 0
		return
	}
	t.pager.SetTotalPages(len(t.order))
}

func (t *RecordTable) refreshColumns() {
	cols := make([]table.Column, len(columns))
	total := 0
	for i, c := range columns {
		title := c.title
		if c.sort == t.sortBy {
			if t.desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols[i] = table.Column{Title: title, Width: max(c.width, len([]rune(title)))}
		// default cell style pads one column on each side
		total += cols[i].Width + 2
	}
	t.table.SetColumns(cols)
	t.table.SetWidth(total)
}

func (t *RecordTable) refreshRows() {
	page := t.PageRecords()
	rows := make([]table.Row, len(page))
	for i, r := range page {
		row := make(table.Row, len(columns))
		for j, c := range columns {
			row[j] = c.cell(r)
		}
		rows[i] = row
	}
	t.table.SetRows(rows)
	t.table.SetCursor(0)
}

// View renders the table, a footer with page and sort state, or an empty
// notice when there are no records.
func (t RecordTable) View() string {
	var sb strings.Builder
	sb.WriteString(t.table.View())
	sb.WriteString("\n")
	if len(t.order) == 0 {
		sb.WriteString(borderFg.Render("no data"))
		return sb.String()
	}
	dir := "asc"
	if t.desc {
		dir = "desc"
	}
	sb.WriteString(borderFg.Render(fmt.Sprintf("page %s · %d rows · %d per page · sort: %s %s",
		t.pager.View(), len(t.order), t.pager.PerPage, t.sortBy, dir)))
	return sb.String()
}
