package ui

import (
	"fmt"
	"math"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/creature-dash/internal/aggregate"
	"github.com/keilerkonzept/creature-dash/internal/creature"
)

const noData = "no data"

// renderProportionChart draws the weight categories as a pie with a legend.
// An empty collection draws no segments.
func renderProportionChart(buckets []aggregate.Bucket, width int) string {
	inner := panelContentWidth(width)
	lines := []string{titleStyle.Render("Weight categories")}

	pct := aggregate.Percentages(buckets)
	if pct == nil {
		lines = append(lines, borderFg.Render(noData))
		return renderPanel(strings.Join(lines, "\n"), width)
	}

	// Terminal cells are about twice as tall as wide, so the pie spans 4r
	// columns for 2r+1 rows.
	radius := min(6, max(2, (inner-2)/4))
	lines = append(lines, pieRows(buckets, radius)...)
	lines = append(lines, "")
	for i, b := range buckets {
		swatch := styles.NewStyle().Foreground(paletteColor(i)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %-11s %4d %3d%%", swatch, b.Label, b.Count, pct[i]))
	}
	return renderPanel(strings.Join(lines, "\n"), width)
}

// pieRows rasterises the pie. Segments run clockwise from twelve o'clock in
// bucket order; empty buckets take no angle.
func pieRows(buckets []aggregate.Bucket, radius int) []string {
	total := aggregate.Total(buckets)
	bounds := make([]float64, len(buckets))
	acc := 0
	for i, b := range buckets {
		acc += b.Count
		bounds[i] = float64(acc) / float64(total)
	}

	cells := make([]styles.Style, len(buckets))
	for i := range cells {
		cells[i] = styles.NewStyle().Foreground(paletteColor(i))
	}

	r := float64(radius) + 0.5
	rows := make([]string, 0, 2*radius+1)
	for y := -radius; y <= radius; y++ {
		var sb strings.Builder
		for x := -2 * radius; x <= 2*radius; x++ {
			dx, dy := float64(x)/2, float64(y)
			if dx*dx+dy*dy > r*r {
				sb.WriteByte(' ')
				continue
			}
			frac := math.Atan2(dx, -dy) / (2 * math.Pi)
			if frac < 0 {
				frac++
			}
			sb.WriteString(cells[segmentAt(bounds, frac)].Render("█"))
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
	}
	return rows
}

func segmentAt(bounds []float64, frac float64) int {
	for i, b := range bounds {
		if frac < b {
			return i
		}
	}
	return len(bounds) - 1
}

type rankingMode int

const (
	rankingBars rankingMode = iota
	rankingPlot
)

// rankingChart draws the tallest records as bars, or as a braille step plot.
type rankingChart struct {
	mode     rankingMode
	logScale bool
}

func (c *rankingChart) toggleMode() {
	if c.mode == rankingBars {
		c.mode = rankingPlot
		return
	}
	c.mode = rankingBars
}

func (c *rankingChart) toggleScale() { c.logScale = !c.logScale }

func (c rankingChart) scaled(v float64) float64 {
	if c.logScale {
		return math.Log1p(max(0, v))
	}
	return v
}

func (c rankingChart) scaleLabel() string {
	lin, log := borderFg, borderFg
	if c.logScale {
		log = selectedFg
	} else {
		lin = selectedFg
	}
	return lin.Render("LIN") + " " + log.Render("LOG")
}

func (c rankingChart) view(ranked []creature.Record, selected *creature.Record, width, height int) string {
	inner := panelContentWidth(width)
	header := titleStyle.Render(fmt.Sprintf("Top %d by height", len(ranked)))
	gap := max(1, inner-styles.Width(header)-len("LIN LOG"))
	lines := []string{header + strings.Repeat(" ", gap) + c.scaleLabel()}

	if len(ranked) == 0 {
		lines = append(lines, borderFg.Render(noData))
		return renderPanel(strings.Join(lines, "\n"), width)
	}
	if c.mode == rankingPlot {
		lines = append(lines, c.plotView(ranked, selected, inner, max(2, height-1)))
	} else {
		lines = append(lines, c.barRows(ranked, selected, inner)...)
	}
	return renderPanel(strings.Join(lines, "\n"), width)
}

func (c rankingChart) barRows(ranked []creature.Record, selected *creature.Record, width int) []string {
	labelW := 0
	valueW := 0
	top := 0.0
	for _, r := range ranked {
		labelW = max(labelW, styles.Width(r.Name))
		valueW = max(valueW, len(formatNumber(r.Height)))
		top = max(top, c.scaled(r.Height))
	}
	labelW = min(labelW, max(4, width/3))
	barW := max(1, width-labelW-valueW-2)

	rows := make([]string, 0, len(ranked))
	for _, r := range ranked {
		n := 0
		if top > 0 {
			n = int(math.Round(c.scaled(r.Height) / top * float64(barW)))
		}
		n = max(1, n)
		label := fmt.Sprintf("%-*s", labelW, truncate(r.Name, labelW))
		if selected != nil && selected.ID == r.ID {
			label = selectedFg.Render(label)
		}
		rows = append(rows, fmt.Sprintf("%s %s%s %*s",
			label, barFg.Render(strings.Repeat("█", n)), strings.Repeat(" ", barW-n), valueW, formatNumber(r.Height)))
	}
	return rows
}

// plotView draws one flat step per record; the selected record, when
// ranked, is redrawn in the highlight colour.
func (c rankingChart) plotView(ranked []creature.Record, selected *creature.Record, width, height int) string {
	const pointsPerRecord = 4
	n := len(ranked) * pointsPerRecord
	series := make([]float64, n)
	marked := make([]float64, n)
	for i, r := range ranked {
		v := c.scaled(r.Height)
		for j := 0; j < pointsPerRecord; j++ {
			series[i*pointsPerRecord+j] = v
			if selected != nil && selected.ID == r.ID {
				marked[i*pointsPerRecord+j] = v
			}
		}
	}

	highlight, dim := plotColors()
	p := plot.NewCanvas(max(1, width), max(1, height-1))
	p.NumDataPoints = n
	p.ShowAxis = false
	p.LineColors = []plot.Color{dim, highlight}
	p.Fill([][]float64{series, marked})

	first, last := ranked[0], ranked[len(ranked)-1]
	left := fmt.Sprintf("%s (%s)", first.Name, formatNumber(first.Height))
	right := fmt.Sprintf("%s (%s)", last.Name, formatNumber(last.Height))
	labels := left
	if gap := width - len(left) - len(right); gap >= 1 {
		labels = left + strings.Repeat(" ", gap) + right
	}
	return styles.JoinVertical(styles.Left, p.String(), borderFg.Render(labels))
}

func renderTypeLeaderboard(types []aggregate.TypeCount, width int) string {
	inner := panelContentWidth(width)
	lines := []string{titleStyle.Render("Top types")}
	if len(types) == 0 {
		lines = append(lines, borderFg.Render(noData))
		return renderPanel(strings.Join(lines, "\n"), width)
	}
	numWidth := len(fmt.Sprint(len(types)))
	for i, t := range types {
		rank := fmt.Sprintf("#%-*d", numWidth, i+1)
		count := fmt.Sprint(t.Count)
		label := truncate(t.Label, max(1, inner-len(rank)-len(count)-2))
		gap := max(1, inner-len(rank)-1-styles.Width(label)-len(count))
		lines = append(lines, borderFg.Render(rank)+" "+label+strings.Repeat(" ", gap)+count)
	}
	return renderPanel(strings.Join(lines, "\n"), width)
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) <= l {
		return s
	}
	if l <= 1 {
		return string(r[:l])
	}
	return string(r[:l-1]) + "…"
}
