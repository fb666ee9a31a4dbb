package output

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/parser"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// Card geometry.
const (
	CardWidth      = 34
	HealthBarWidth = 20
)

var (
	colorPrimary = lipgloss.Color("#15803D") // Leaf green
	colorMuted   = lipgloss.Color("#6B7280")
	colorGood    = lipgloss.Color("#22C55E")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorBad     = lipgloss.Color("#EF4444")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGood)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleError   = lipgloss.NewStyle().Foreground(colorBad)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleSpecies = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1).
			Width(CardWidth)
)

// BandColor returns the colour of a health band.
func BandColor(band model.HealthBand) lipgloss.Color {
	switch band {
	case model.BandGood:
		return colorGood
	case model.BandWarn:
		return colorWarn
	default:
		return colorBad
	}
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// HealthBar draws a bar of width cells filled in proportion to health.
func HealthBar(health float64, width int) string {
	if health > 100 {
		health = 100
	}
	if health < 0 || math.IsNaN(health) {
		health = 0
	}

	filled := int(float64(width) * health / 100)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// HealthBar renders a coloured health bar followed by the score.
func (c *CLIFormatter) HealthBar(health float64) string {
	bar := HealthBar(health, HealthBarWidth)
	style := lipgloss.NewStyle().Foreground(BandColor(model.HealthBandOf(health)))
	return c.render(style, bar) + " " + FormatHealth(health)
}

// StatusText renders a status label with its face.
func StatusText(health float64) string {
	label := model.StatusLabel(health)
	return label + " " + model.StatusFace(label)
}

// dueText describes the watering window.
func dueText(p model.Plant, now time.Time) string {
	next := p.NextWatering()
	if p.IsDue(now) {
		return "Water now (due " + FormatRelative(next, now) + ")"
	}
	return "Next watering " + FormatRelative(next, now)
}

// PlantCard renders one plant as a bordered card.
func (c *CLIFormatter) PlantCard(p model.Plant, now time.Time) string {
	health := p.CurrentHealthAt(now)

	lines := []string{
		c.render(styleBold, validate.TruncateString(p.Emoji+" "+p.Name, CardWidth-4)),
	}
	if p.Species != "" {
		lines = append(lines, c.render(styleSpecies, validate.TruncateString(p.Species, CardWidth-4)))
	}
	lines = append(lines,
		"",
		c.HealthBar(health),
		StatusText(health),
		fmt.Sprintf("🔥 %d streak · %s", p.WateringStreak, parser.FormatFrequency(p.EffectiveFrequency())),
		c.render(styleMuted, "Watered "+FormatRelative(p.LastWatered, now)),
		c.render(styleMuted, dueText(p, now)),
		c.render(styleMuted, "id "+p.ShortID()),
	)

	body := strings.Join(lines, "\n")
	if !c.IsColorEnabled() {
		return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(CardWidth).Render(body)
	}
	return styleCard.Render(body)
}

// PrintPlantCards prints cards in as many columns as the terminal fits.
func (c *CLIFormatter) PrintPlantCards(plants []model.Plant, now time.Time) {
	if len(plants) == 0 {
		c.Muted("No plants yet. Add one with 'plantcare add <name>'.")
		return
	}

	perRow := c.Width() / (CardWidth + 3)
	if perRow < 1 {
		perRow = 1
	}

	for start := 0; start < len(plants); start += perRow {
		end := min(start+perRow, len(plants))
		cards := make([]string, 0, end-start)
		for _, p := range plants[start:end] {
			cards = append(cards, c.PlantCard(p, now))
		}
		c.Println(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
}

// PrintPlantDetail prints every field of a plant.
func (c *CLIFormatter) PrintPlantDetail(p model.Plant, now time.Time) {
	health := p.CurrentHealthAt(now)
	c.Title(p.Emoji + " " + p.Name)
	if p.Species != "" {
		c.Printf("  Species:     %s\n", c.render(styleSpecies, p.Species))
	}
	c.Printf("  ID:          %s\n", p.ID)
	c.Printf("  Health:      %s\n", c.HealthBar(health))
	c.Printf("  Status:      %s\n", StatusText(health))
	c.Printf("  Stored:      %s\n", FormatHealth(p.HealthScore))
	c.Printf("  Streak:      %d\n", p.WateringStreak)
	c.Printf("  Frequency:   %s\n", parser.FormatFrequency(p.EffectiveFrequency()))
	c.Printf("  Watered:     %s (%s)\n", FormatTime(p.LastWatered), FormatRelative(p.LastWatered, now))
	c.Printf("  Next:        %s (%s)\n", FormatTime(p.NextWatering()), dueText(p, now))
}

// PrintWatered prints the result of a watering.
func (c *CLIFormatter) PrintWatered(before, after model.Plant, now time.Time) {
	c.Success(fmt.Sprintf("Watered %s %s", after.Emoji, after.Name))
	c.Printf("  Health: %s → %s\n", FormatHealth(before.CurrentHealthAt(now)), FormatHealth(after.CurrentHealthAt(now)))
	if after.WateringStreak > before.WateringStreak {
		c.Printf("  Streak: %d 🔥\n", after.WateringStreak)
	} else {
		c.Printf("  Streak: reset to %d (last watering was %s)\n", after.WateringStreak, FormatRelative(before.LastWatered, now))
	}
}

// PrintStats prints the garden summary.
func (c *CLIFormatter) PrintStats(s model.Stats) {
	c.Title("Garden")
	c.Printf("  🌱 Plants:         %d\n", s.TotalPlants)
	c.Printf("  🔥 Total streak:   %d\n", s.TotalStreak)
	c.Printf("  💚 Average health: %d%%\n", s.AverageHealth)
	c.Printf("  ✨ Healthy plants: %d\n", s.HealthyPlants)
}

// TableRow holds the cells of one table line.
type TableRow struct {
	Columns []string
}

// PrintPlantTable prints plants as a compact table.
func (c *CLIFormatter) PrintPlantTable(plants []model.Plant, now time.Time) {
	rows := make([]TableRow, 0, len(plants))
	for _, p := range plants {
		health := p.CurrentHealthAt(now)
		rows = append(rows, TableRow{Columns: []string{
			p.ShortID(),
			p.Emoji + " " + validate.TruncateString(p.Name, 24),
			FormatHealth(health),
			model.StatusLabel(health),
			fmt.Sprintf("%d", p.WateringStreak),
			FormatRelative(p.LastWatered, now),
		}})
	}
	c.PrintTable([]string{"ID", "PLANT", "HEALTH", "STATUS", "STREAK", "WATERED"}, rows)
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(col))
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s)) + "  "
	}

	var header, sep strings.Builder
	for i, h := range headers {
		header.WriteString(pad(h, widths[i]))
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	c.Println(c.render(styleBold, strings.TrimRight(header.String(), " ")))
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}
