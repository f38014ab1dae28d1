package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/creature-dash/internal/aggregate"
	"github.com/keilerkonzept/creature-dash/internal/creature"
)

func TestProportionChartLegend(t *testing.T) {
	buckets := aggregate.BucketizeByWeightRatio(withBMIs(17, 20, 26, 31))
	view := renderProportionChart(buckets, 60)

	for _, label := range []string{"Underweight", "Healthy", "Overweight", "Obese"} {
		assert.Contains(t, view, label)
	}
	assert.Equal(t, 4, strings.Count(view, "25%"))
	assert.Contains(t, view, "█")
}

func TestProportionChartEmpty(t *testing.T) {
	view := renderProportionChart(aggregate.BucketizeByWeightRatio(nil), 60)
	assert.Contains(t, view, noData)
	assert.NotContains(t, view, "█")
	assert.NotContains(t, view, "%")
}

func TestPieSegmentsFollowBucketOrder(t *testing.T) {
	bounds := []float64{0.25, 0.25, 0.75, 1}
	assert.Equal(t, 0, segmentAt(bounds, 0))
	assert.Equal(t, 0, segmentAt(bounds, 0.2))
	assert.Equal(t, 2, segmentAt(bounds, 0.25), "empty bucket takes no angle")
	assert.Equal(t, 3, segmentAt(bounds, 0.9))
	assert.Equal(t, 3, segmentAt(bounds, 1))
}

func TestPieRowsShape(t *testing.T) {
	buckets := []aggregate.Bucket{{Label: aggregate.Healthy, Count: 1}}
	rows := pieRows(buckets, 3)
	require.Len(t, rows, 7)
	assert.Contains(t, rows[3], "█")
}

func TestRankingBars(t *testing.T) {
	ranked := aggregate.TopNByHeight(testRecords(), 15)
	c := rankingChart{}
	view := c.view(ranked, nil, 80, 16)

	assert.Contains(t, view, "Top 6 by height")
	lines := strings.Split(view, "\n")
	var onix, pikachu string
	for _, l := range lines {
		if strings.Contains(l, "onix") {
			onix = l
		}
		if strings.Contains(l, "pikachu") {
			pikachu = l
		}
	}
	require.NotEmpty(t, onix)
	require.NotEmpty(t, pikachu)
	assert.Greater(t, strings.Count(onix, "█"), strings.Count(pikachu, "█"))
	assert.Contains(t, onix, "88")
}

func TestRankingBarsLogScaleKeepsOrder(t *testing.T) {
	c := rankingChart{logScale: true}
	rows := c.barRows(aggregate.TopNByHeight(testRecords(), 15), nil, 60)
	require.Len(t, rows, 6)
	prev := -1
	for i := len(rows) - 1; i >= 0; i-- {
		n := strings.Count(rows[i], "█")
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestRankingEmpty(t *testing.T) {
	c := rankingChart{mode: rankingPlot}
	view := c.view(nil, nil, 60, 10)
	assert.Contains(t, view, noData)
}

func TestRankingPlot(t *testing.T) {
	ranked := aggregate.TopNByHeight(testRecords(), 15)
	c := rankingChart{mode: rankingPlot}
	view := c.view(ranked, &ranked[1], 80, 12)
	assert.Contains(t, view, "onix (88)")
	assert.Contains(t, view, "pikachu (4)")
}

func TestTypeLeaderboardPanel(t *testing.T) {
	view := renderTypeLeaderboard(aggregate.TypeLeaderboard(testRecords(), 3), 40)
	assert.Contains(t, view, "Top types")
	assert.Contains(t, view, "#1")
	assert.NotContains(t, view, "#4")

	assert.Contains(t, renderTypeLeaderboard(nil, 40), noData)
}

func TestInspector(t *testing.T) {
	assert.Contains(t, renderInspector(nil, 60), inspectorPrompt)

	r := testRecords()[4]
	view := renderInspector(&r, 60)
	assert.NotContains(t, view, inspectorPrompt)
	assert.Contains(t, view, "onix")
	assert.Contains(t, view, "rock, ground")
	assert.Contains(t, view, r.SpriteURL)
	for _, s := range inspectorStats(&r) {
		assert.Contains(t, view, s.icon+" "+s.name+":")
	}
	assert.Contains(t, view, "2100")
	assert.Contains(t, view, "2.71")
	assert.Contains(t, view, "144")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "a", truncate("abcd", 1))
}

func withBMIs(values ...float64) []creature.Record {
	out := make([]creature.Record, len(values))
	for i, v := range values {
		out[i] = creature.Record{ID: i + 1, Name: "c", Height: 1, Weight: 1, BMI: v}
	}
	return out
}
