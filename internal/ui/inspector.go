package ui

import (
	"strconv"
	"strings"

	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

const inspectorPrompt = "Select a creature to inspect it"

type statItem struct {
	icon  string
	name  string
	value string
}

func inspectorStats(r *creature.Record) []statItem {
	return []statItem{
		{icon: "↕", name: "Height (dm)", value: formatNumber(r.Height)},
		{icon: "⚖", name: "Weight (hg)", value: formatNumber(r.Weight)},
		{icon: "◎", name: "BMI", value: formatNumber(r.BMI)},
		{icon: "★", name: "Base experience", value: strconv.Itoa(r.BaseExperience)},
		{icon: "#", name: "Order", value: strconv.Itoa(r.Order)},
	}
}

// renderInspector shows the selected record, or the prompt when nothing is
// selected. It keeps no state of its own.
func renderInspector(r *creature.Record, width int) string {
	if r == nil {
		return renderPanel(titleStyle.Render(inspectorPrompt), width)
	}

	lines := []string{
		borderFg.Render("sprite: " + r.SpriteURL),
		"",
		titleStyle.Render(r.Name),
		selectedFg.Render(r.Types()),
		"",
	}
	inner := panelContentWidth(width)
	for _, s := range inspectorStats(r) {
		lines = append(lines, renderStatItem(s, inner))
	}
	return renderPanel(strings.Join(lines, "\n"), width)
}

func renderStatItem(s statItem, width int) string {
	label := selectedFg.Render(s.icon) + " " + s.name + ":"
	gap := max(1, width-styles.Width(label)-styles.Width(s.value))
	return label + strings.Repeat(" ", gap) + s.value
}
