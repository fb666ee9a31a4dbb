package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/parser"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// ListComponent shows every plant, one per line.
type ListComponent struct {
	Plants   []model.Plant
	Selected int
	Width    int
	Now      time.Time
}

// View renders the list.
func (lc *ListComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Plants"))
	content.WriteString("\n")

	if len(lc.Plants) == 0 {
		content.WriteString(StyleSubtitle.Render("No plants yet. Add one with 'plantcare add <name>'."))
		return StyleListBox.Width(max(lc.Width-4, 20)).Render(content.String())
	}

	for i, p := range lc.Plants {
		content.WriteString("\n")
		content.WriteString(lc.renderRow(p, i == lc.Selected))
	}
	return StyleListBox.Width(max(lc.Width-4, 20)).Render(content.String())
}

func (lc *ListComponent) renderRow(p model.Plant, selected bool) string {
	health := p.CurrentHealthAt(lc.Now)

	marker := "  "
	nameStyle := lipgloss.NewStyle().Width(24)
	if selected {
		marker = "▸ "
		nameStyle = StyleSelected.Width(24)
	}
	name := nameStyle.Render(validate.TruncateString(p.Emoji+" "+p.Name, 22))

	due := ""
	if p.IsDue(lc.Now) {
		due = StyleWarning.Render(" 💧")
	}

	return fmt.Sprintf("%s%s %s %s%s",
		marker, name, HealthBar(health, 10), output.FormatHealth(health), due)
}

// DetailComponent shows the selected plant.
type DetailComponent struct {
	Plant *model.Plant
	Width int
	Now   time.Time
}

// View renders the detail box, or nothing without a selection.
func (dc *DetailComponent) View() string {
	if dc.Plant == nil {
		return ""
	}
	p := *dc.Plant
	health := p.CurrentHealthAt(dc.Now)

	var content strings.Builder
	content.WriteString(StyleTitle.Render(p.Emoji + " " + p.Name))
	if p.Species != "" {
		content.WriteString("\n")
		content.WriteString(StyleSpecies.Render(p.Species))
	}
	content.WriteString("\n\n")
	content.WriteString(HealthBar(health, output.HealthBarWidth))
	content.WriteString(" " + output.FormatHealth(health) + "\n")
	content.WriteString(output.StatusText(health) + "\n\n")
	content.WriteString(StyleStreak.Render(fmt.Sprintf("🔥 %d", p.WateringStreak)))
	content.WriteString(StyleSubtitle.Render(" streak · " + parser.FormatFrequency(p.EffectiveFrequency())))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render("Watered " + output.FormatRelative(p.LastWatered, dc.Now)))
	content.WriteString("\n")

	box := StyleDetailBox
	if p.IsDue(dc.Now) {
		content.WriteString(StyleWarning.Render("Thirsty! Press w to water."))
		box = StyleThirstyBox
	} else {
		content.WriteString(StyleSubtitle.Render("Next watering " + output.FormatRelative(p.NextWatering(), dc.Now)))
	}
	return box.Width(max(dc.Width-4, 20)).Render(content.String())
}

// StatsLine summarises the garden in one line.
func StatsLine(s model.Stats) string {
	return StyleSubtitle.Render(fmt.Sprintf("🌱 %d plants  🔥 %d streak  💚 %d%% avg  ✨ %d healthy",
		s.TotalPlants, s.TotalStreak, s.AverageHealth, s.HealthyPlants))
}

// HelpBar renders the key help at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "select"},
		{"w", "water"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}
	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
