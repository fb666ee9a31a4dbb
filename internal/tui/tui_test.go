package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/plantcare/internal/model"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu      sync.Mutex
	plants  []model.Plant
	listErr error
	watered []string
}

func (f *fakeStore) List() ([]model.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Plant(nil), f.plants...), nil
}

func (f *fakeStore) Water(id string, at time.Time) (model.Plant, model.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.plants {
		if p.ID == id {
			f.plants[i] = p.WaterAt(at)
			f.watered = append(f.watered, id)
			return p, f.plants[i], nil
		}
	}
	return model.Plant{}, model.Plant{}, errors.New("plant not found")
}

func newStore() *fakeStore {
	return &fakeStore{plants: []model.Plant{
		model.NewPlantAt("Aloe", "Aloe vera", "🌵", 14, now.Add(-24*time.Hour)),
		model.NewPlantAt("Monty", "Monstera", "🪴", 3, now.Add(-5*24*time.Hour)),
		model.NewPlantAt("Fern", "", "", 2, now),
	}}
}

// loaded returns a dashboard that has processed its first load.
func loaded(t *testing.T, store Store) *DashboardModel {
	m := NewDashboardModel(DashboardConfig{Store: store, Now: func() time.Time { return now }})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := m.loadCmd()()
	m.Update(msg)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// Dashboard Tests
// =============================================================================

func TestNewDashboardModelDefaults(t *testing.T) {
	m := NewDashboardModel(DashboardConfig{Store: newStore()})
	assert.Equal(t, time.Minute, m.refreshInterval)
	assert.NotNil(t, m.now)
	assert.NotNil(t, m.Init())
}

func TestDashboardLoading(t *testing.T) {
	m := NewDashboardModel(DashboardConfig{Store: newStore()})
	assert.Equal(t, "Loading...", m.View())
}

func TestDashboardLoad(t *testing.T) {
	m := loaded(t, newStore())
	assert.Equal(t, 3, m.Garden().Len())
	require.NotNil(t, m.Selected())
	assert.Equal(t, "Aloe", m.Selected().Name)
}

func TestDashboardNavigation(t *testing.T) {
	m := loaded(t, newStore())

	m.Update(key("j"))
	assert.Equal(t, "Monty", m.Selected().Name)
	m.Update(key("down"))
	assert.Equal(t, "Fern", m.Selected().Name)
	m.Update(key("j"))
	assert.Equal(t, "Fern", m.Selected().Name, "selection stops at the last plant")

	m.Update(key("k"))
	assert.Equal(t, "Monty", m.Selected().Name)
	m.Update(key("up"))
	m.Update(key("up"))
	assert.Equal(t, "Aloe", m.Selected().Name, "selection stops at the first plant")
}

func TestDashboardWater(t *testing.T) {
	store := newStore()
	m := loaded(t, store)
	m.Update(key("j"))

	_, cmd := m.Update(key("w"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, []string{store.plants[1].ID}, store.watered)
	monty := m.Selected()
	require.NotNil(t, monty)
	assert.Equal(t, "Monty", monty.Name)
	assert.Equal(t, 1, monty.WateringStreak)
	assert.Equal(t, 100.0, monty.CurrentHealthAt(now))
	assert.Contains(t, m.message, "Watered")
}

func TestDashboardWaterError(t *testing.T) {
	store := newStore()
	m := loaded(t, store)
	store.plants = nil

	_, cmd := m.Update(key("w"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}

func TestDashboardWaterEmptyGarden(t *testing.T) {
	m := loaded(t, &fakeStore{})
	_, cmd := m.Update(key("w"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to water", m.message)
}

func TestDashboardRefreshClampsSelection(t *testing.T) {
	store := newStore()
	m := loaded(t, store)
	m.Update(key("j"))
	m.Update(key("j"))

	store.plants = store.plants[:1]
	_, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, 1, m.Garden().Len())
	assert.Equal(t, "Aloe", m.Selected().Name)
}

func TestDashboardListError(t *testing.T) {
	m := loaded(t, &fakeStore{listErr: errors.New("db closed")})
	assert.EqualError(t, m.err, "db closed")
}

func TestDashboardQuit(t *testing.T) {
	m := loaded(t, newStore())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestDashboardMessageExpires(t *testing.T) {
	clock := now
	m := NewDashboardModel(DashboardConfig{Store: newStore(), Now: func() time.Time { return clock }})
	m.setMessage("hello", time.Second)

	m.Update(tickMsg(clock))
	assert.Equal(t, "hello", m.message)

	clock = clock.Add(2 * time.Second)
	m.Update(tickMsg(clock))
	assert.Empty(t, m.message)
}

func TestDashboardView(t *testing.T) {
	m := loaded(t, newStore())
	m.Update(key("j"))

	view := m.View()
	assert.Contains(t, view, "plantcare")
	assert.Contains(t, view, "Aloe")
	assert.Contains(t, view, "Monty")
	assert.Contains(t, view, "Monstera")
	assert.Contains(t, view, "Thirsty!")
	assert.Contains(t, view, "3 plants")
	assert.Contains(t, view, "quit")
}

func TestDashboardNarrowView(t *testing.T) {
	m := loaded(t, newStore())
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	assert.Contains(t, m.View(), "Aloe")
}

// =============================================================================
// Component Tests
// =============================================================================

func TestListComponentEmpty(t *testing.T) {
	view := (&ListComponent{Width: 60, Now: now}).View()
	assert.Contains(t, view, "No plants yet")
}

func TestDetailComponentNil(t *testing.T) {
	assert.Empty(t, (&DetailComponent{Width: 60, Now: now}).View())
}

func TestStatsLine(t *testing.T) {
	line := StatsLine(model.Stats{TotalPlants: 2, TotalStreak: 5, AverageHealth: 70, HealthyPlants: 1})
	assert.Contains(t, line, "2 plants")
	assert.Contains(t, line, "70% avg")
}

func TestHealthBar(t *testing.T) {
	bar := HealthBar(50, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))
}

func TestHelpBar(t *testing.T) {
	help := HelpBar()
	for _, k := range []string{"select", "water", "refresh", "quit"} {
		assert.Contains(t, help, k)
	}
}
