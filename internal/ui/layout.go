package ui

const (
	defaultWidth  = 120
	defaultHeight = 40

	// MinViewSplit and MaxViewSplit bound the table pane share, in percent.
	MinViewSplit = 20
	MaxViewSplit = 80
)

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	if left < 1 {
		left = 1
	}
	if left > totalWidth-1 {
		left = totalWidth - 1
	}
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 24
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	return max(1, left), max(1, right)
}

// computeChartWidths splits the bottom row into the proportion chart, the
// ranking chart and the type leaderboard.
func computeChartWidths(totalWidth int) (pie, ranking, types int) {
	if totalWidth < 3 {
		return 1, 1, 1
	}
	pie = totalWidth * 30 / 100
	types = totalWidth * 22 / 100
	ranking = totalWidth - pie - types
	return max(1, pie), max(1, ranking), max(1, types)
}

func clampSplit(split int) int {
	return min(MaxViewSplit, max(MinViewSplit, split))
}
