package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
)

// Store is where the dashboard reads and waters plants.
type Store interface {
	List() ([]model.Plant, error)
	Water(id string, now time.Time) (before, after model.Plant, err error)
}

// tickMsg re-renders so decayed health stays current.
type tickMsg time.Time

// loadedMsg carries a fresh garden.
type loadedMsg struct {
	garden model.Garden
}

// wateredMsg reports a watering that reached the store.
type wateredMsg struct {
	before model.Plant
	after  model.Plant
}

type errMsg struct {
	err error
}

// DashboardModel is the bubbletea model for the garden dashboard.
type DashboardModel struct {
	store  Store
	now    func() time.Time
	garden model.Garden

	selected   int
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Store           Store
	RefreshInterval time.Duration
	Now             func() time.Time
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Minute
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &DashboardModel{
		store:           config.Store,
		now:             config.Now,
		refreshInterval: config.RefreshInterval,
	}
}

// Init loads the garden and starts the clock.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.loadCmd())
}

// Update handles messages.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case loadedMsg:
		m.garden = msg.garden
		m.err = nil
		m.clampSelection()
		return m, nil

	case wateredMsg:
		garden, err := m.garden.Replace(msg.after)
		if err != nil {
			// The plant vanished from the store view; reload everything.
			return m, m.loadCmd()
		}
		m.garden = garden
		m.err = nil
		m.setMessage(wateredText(msg.before, msg.after), 3*time.Second)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "j", "down":
		if m.selected < m.garden.Len()-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "w", "enter":
		p := m.Selected()
		if p == nil {
			m.setMessage("Nothing to water", 2*time.Second)
			return m, nil
		}
		return m, m.waterCmd(p.ID)

	case "r":
		m.setMessage("Refreshed", time.Second)
		return m, m.loadCmd()
	}

	return m, nil
}

// Selected returns the highlighted plant, or nil for an empty garden.
func (m *DashboardModel) Selected() *model.Plant {
	plants := m.garden.Plants()
	if m.selected < 0 || m.selected >= len(plants) {
		return nil
	}
	p := plants[m.selected]
	return &p
}

// Garden returns the dashboard's current garden.
func (m *DashboardModel) Garden() model.Garden {
	return m.garden
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	now := m.now()
	plants := m.garden.Plants()
	sections := []string{m.renderHeader(now, plants)}

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleSuccess.Render(m.message))
	}

	listWidth := m.width
	detailWidth := m.width
	sideBySide := m.width >= 90
	if sideBySide {
		listWidth = m.width / 2
		detailWidth = m.width - listWidth
	}

	list := (&ListComponent{Plants: plants, Selected: m.selected, Width: listWidth, Now: now}).View()
	detail := (&DetailComponent{Plant: m.Selected(), Width: detailWidth, Now: now}).View()
	if sideBySide {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	} else {
		sections = append(sections, list, detail)
	}

	sections = append(sections, HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderHeader(now time.Time, plants []model.Plant) string {
	title := StyleTitle.Render("🪴 plantcare")
	clock := StyleSubtitle.Render(now.Local().Format("Mon Jan 2, 15:04"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", clock) + "\n" +
		StatsLine(model.ComputeStats(plants, now)) + "\n"
}

func (m *DashboardModel) clampSelection() {
	if m.selected >= m.garden.Len() {
		m.selected = m.garden.Len() - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

func wateredText(before, after model.Plant) string {
	if after.WateringStreak > before.WateringStreak {
		return fmt.Sprintf("Watered %s %s · streak %d 🔥", after.Emoji, after.Name, after.WateringStreak)
	}
	return fmt.Sprintf("Watered %s %s · streak restarted", after.Emoji, after.Name)
}

func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		plants, err := m.store.List()
		if err != nil {
			return errMsg{err}
		}
		for _, p := range plants {
			if !p.HasValidHealth() {
				logging.MalformedPlant(context.Background(), p.ID, "dashboard")
			}
		}
		return loadedMsg{garden: model.NewGarden(plants)}
	}
}

func (m *DashboardModel) waterCmd(id string) tea.Cmd {
	now := m.now()
	return func() tea.Msg {
		before, after, err := m.store.Water(id, now)
		if err != nil {
			return errMsg{err}
		}
		return wateredMsg{before: before, after: after}
	}
}

// Run starts the dashboard.
func Run(config DashboardConfig) error {
	p := tea.NewProgram(NewDashboardModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
