package ui

import (
	"testing"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

func collectAllIDs(t *testing.T, rt RecordTable) []int {
	t.Helper()
	var ids []int
	for {
		for _, r := range rt.PageRecords() {
			ids = append(ids, r.ID)
		}
		if rt.Page() >= rt.TotalPages()-1 {
			return ids
		}
		rt.NextPage()
	}
}

func TestRecordTableRowCountIndependentOfPageSize(t *testing.T) {
	records := manyRecords(37)
	for _, size := range PageSizes {
		rt := NewRecordTable(size)
		rt.SetRecords(records)

		assert.Equal(t, len(records), rt.TotalRows(), "page size %d", size)
		assert.Equal(t, (len(records)+size-1)/size, rt.TotalPages(), "page size %d", size)

		ids := collectAllIDs(t, rt)
		require.Len(t, ids, len(records), "page size %d", size)
		for i, id := range ids {
			assert.Equal(t, i+1, id)
		}
	}
}

func TestRecordTablePageBounds(t *testing.T) {
	rt := NewRecordTable(5)
	rt.SetRecords(manyRecords(12))

	assert.Len(t, rt.PageRecords(), 5)
	rt.PrevPage()
	assert.Equal(t, 0, rt.Page())

	rt.NextPage()
	rt.NextPage()
	assert.Equal(t, 2, rt.Page())
	assert.Len(t, rt.PageRecords(), 2)

	rt.NextPage()
	assert.Equal(t, 2, rt.Page(), "stays on the last page")
}

func TestRecordTableEmpty(t *testing.T) {
	rt := NewRecordTable(DefaultPageSize)
	rt.SetRecords(nil)

	assert.Equal(t, 0, rt.TotalRows())
	assert.Equal(t, 1, rt.TotalPages())
	assert.Empty(t, rt.PageRecords())
	_, ok := rt.HighlightedID()
	assert.False(t, ok)
	assert.Contains(t, rt.View(), noData)
	assert.Contains(t, rt.View(), "Base Exp")
}

func TestRecordTableInvalidPageSizeFallsBack(t *testing.T) {
	rt := NewRecordTable(7)
	assert.Equal(t, DefaultPageSize, rt.PageSize())

	rt.SetPageSize(3)
	assert.Equal(t, DefaultPageSize, rt.PageSize())
}

func TestRecordTablePageSizeKeepsFirstRowVisible(t *testing.T) {
	rt := NewRecordTable(5)
	rt.SetRecords(manyRecords(60))
	for i := 0; i < 4; i++ {
		rt.NextPage()
	}
	require.Equal(t, 21, rt.PageRecords()[0].ID)

	rt.CyclePageSize() // 5 -> 10
	assert.Equal(t, 10, rt.PageSize())
	assert.Equal(t, 2, rt.Page())
	assert.Equal(t, 21, rt.PageRecords()[0].ID)

	rt.CyclePageSize() // 10 -> 25
	assert.Equal(t, 0, rt.Page())
	assert.Contains(t, pageIDs(rt), 21)

	rt.CyclePageSize() // 25 -> 5
	assert.Equal(t, 5, rt.PageSize())
}

func pageIDs(rt RecordTable) []int {
	var ids []int
	for _, r := range rt.PageRecords() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRecordTableSortStable(t *testing.T) {
	records := []creature.Record{
		{ID: 1, Name: "a", Height: 5, Weight: 1},
		{ID: 2, Name: "b", Height: 9, Weight: 1},
		{ID: 3, Name: "c", Height: 5, Weight: 1},
		{ID: 4, Name: "d", Height: 9, Weight: 1},
		{ID: 5, Name: "e", Height: 1, Weight: 1},
	}
	rt := NewRecordTable(10)
	rt.SetRecords(records)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageIDs(rt))

	rt.SetSort(SortHeight, true)
	assert.Equal(t, []int{2, 4, 1, 3, 5}, pageIDs(rt))

	rt.SetSort(SortHeight, false)
	assert.Equal(t, []int{5, 1, 3, 2, 4}, pageIDs(rt))

	rt.SetSort(SortName, true)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, pageIDs(rt))

	rt.SetSort(SortNone, false)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageIDs(rt))

	// the collection itself is never reordered
	for i, r := range records {
		assert.Equal(t, i+1, r.ID)
	}
}

func TestRecordTableCycleSortWraps(t *testing.T) {
	rt := NewRecordTable(10)
	rt.SetRecords(manyRecords(3))
	for i := 0; i < int(numSortColumns); i++ {
		rt.CycleSort()
	}
	col, desc := rt.SortBy()
	assert.Equal(t, SortNone, col)
	assert.False(t, desc)
}

func TestRecordTableViewShowsSortAndPage(t *testing.T) {
	rt := NewRecordTable(5)
	rt.SetRecords(manyRecords(12))
	rt.SetSort(SortBMI, true)

	view := rt.View()
	assert.Contains(t, view, "BMI ▼")
	assert.Contains(t, view, "1/3")
	assert.Contains(t, view, "12 rows")
	assert.Contains(t, view, "sort: BMI desc")
}

func TestSortColumnString(t *testing.T) {
	assert.Equal(t, "dataset order", SortNone.String())
	assert.Equal(t, "Height (dm)", SortHeight.String())
	assert.Equal(t, "Order", SortOrder.String())
	assert.Equal(t, "unknown", SortColumn(99).String())
}

func TestRecordTableClickActivatesRow(t *testing.T) {
	rt := NewRecordTable(5)
	rt.SetRecords(manyRecords(8))

	rt, cmd := rt.Update(tui.MouseMsg{X: 3, Y: 4, Button: tui.MouseButtonLeft, Action: tui.MouseActionRelease})
	require.NotNil(t, cmd)
	assert.Equal(t, RecordActivatedMsg{ID: 4}, cmd())
	assert.Equal(t, 3, rt.Cursor())

	_, cmd = rt.Update(tui.MouseMsg{X: 3, Y: 0, Button: tui.MouseButtonLeft, Action: tui.MouseActionRelease})
	assert.Nil(t, cmd, "header row")
	_, cmd = rt.Update(tui.MouseMsg{X: 3, Y: 6, Button: tui.MouseButtonLeft, Action: tui.MouseActionRelease})
	assert.Nil(t, cmd, "below the last row")
	_, cmd = rt.Update(tui.MouseMsg{X: 3, Y: 2, Button: tui.MouseButtonRight, Action: tui.MouseActionRelease})
	assert.Nil(t, cmd)
}
