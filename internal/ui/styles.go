package ui

import (
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	errorColor    = styles.AdaptiveColor{Light: "1", Dark: "9"}
	barColor      = styles.AdaptiveColor{Light: "#1565c0", Dark: "#64b5f6"}

	selectedFg = styles.NewStyle().Foreground(selectedColor)
	borderFg   = styles.NewStyle().Foreground(borderColor)
	errorFg    = styles.NewStyle().Foreground(errorColor)
	barFg      = styles.NewStyle().Foreground(barColor)
	titleStyle = styles.NewStyle().Bold(true)

	panelStyle = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// bucketPalette is index-matched to the weight category order.
var bucketPalette = []styles.Color{
	styles.Color("#4fc3f7"), // Underweight
	styles.Color("#8bc34a"), // Healthy
	styles.Color("#ffc107"), // Overweight
	styles.Color("#e53935"), // Obese
}

func paletteColor(i int) styles.Color {
	return bucketPalette[i%len(bucketPalette)]
}

// plotColors picks the highlight and dim line colours for the ranking plot.
func plotColors() (highlight, dim plot.Color) {
	if styles.DefaultRenderer().HasDarkBackground() {
		return plot.Red, plot.DimGray
	}
	return plot.Black, plot.LightGray
}

// renderPanel draws content in a bordered panel exactly width cells wide.
func renderPanel(content string, width int) string {
	return panelStyle.Width(max(1, width-panelStyle.GetHorizontalBorderSize())).Render(content)
}

// panelContentWidth is the text width left inside a panel of the given width.
func panelContentWidth(width int) int {
	return max(1, width-panelStyle.GetHorizontalFrameSize())
}
