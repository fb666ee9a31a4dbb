package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/plantcare/internal/errors"
)

var refNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(days float64) time.Time {
	return refNow.Add(-time.Duration(days * float64(24*time.Hour)))
}

func testPlant(freq, health float64, lastWatered time.Time) Plant {
	p := NewPlantAt("Fern", "Nephrolepis", "", freq, lastWatered)
	p.HealthScore = health
	return p
}

// =============================================================================
// Construct Tests
// =============================================================================

func TestNewPlantAt(t *testing.T) {
	p := NewPlantAt("Monty", "Monstera deliciosa", "🪴", 7, refNow)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Monty", p.Name)
	assert.Equal(t, "Monstera deliciosa", p.Species)
	assert.Equal(t, "🪴", p.Emoji)
	assert.Equal(t, refNow, p.LastWatered)
	assert.Equal(t, 7.0, p.WateringFrequencyDays)
	assert.Equal(t, 0, p.WateringStreak)
	assert.Equal(t, 100.0, p.HealthScore)
	assert.Equal(t, 100.0, p.MaxHealthScore)
}

func TestNewPlantDefaults(t *testing.T) {
	p := NewPlant("Basil", "Ocimum basilicum", "", 0)

	assert.Equal(t, DefaultEmoji, p.Emoji)
	assert.Equal(t, DefaultWateringFrequencyDays, p.WateringFrequencyDays)
	assert.WithinDuration(t, time.Now(), p.LastWatered, 5*time.Second)
}

func TestNewPlantUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		p := NewPlant("p", "", "", 3)
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestPlantSetGetKey(t *testing.T) {
	p := &Plant{}
	p.SetKey("plant:abc123")
	assert.Equal(t, "abc123", p.ID)
	assert.Equal(t, "plant:abc123", p.GetKey())
}

func TestPlantShortID(t *testing.T) {
	assert.Equal(t, "abcdefgh", Plant{ID: "abcdefghijk"}.ShortID())
	assert.Equal(t, "abc", Plant{ID: "abc"}.ShortID())
}

// =============================================================================
// Current Health Tests
// =============================================================================

func TestCurrentHealthScenarios(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  float64
		expected float64
	}{
		{"scenario_a_five_days", 5, 90},
		{"scenario_b_ten_days", 10, 65},
		{"inside_window", 2.9, 100},
		{"exactly_at_window", 3, 100},
		{"just_under_one_overdue_day", 3.99, 100},
		{"one_overdue_day", 4, 95},
		{"floors_at_zero", 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlant(3, 100, daysAgo(tt.daysAgo))
			assert.Equal(t, tt.expected, p.CurrentHealthAt(refNow))
		})
	}
}

func TestCurrentHealthNoDecayInsideWindow(t *testing.T) {
	for _, health := range []float64{0, 17.5, 42, 100} {
		p := testPlant(5, health, daysAgo(4.5))
		assert.Equal(t, health, p.CurrentHealthAt(refNow))
	}
}

func TestCurrentHealthNeverExceedsStored(t *testing.T) {
	for _, freq := range []float64{0.5, 1, 3, 7, 14} {
		for _, health := range []float64{0, 12, 55, 100} {
			for d := 0.0; d < 40; d += 0.7 {
				p := testPlant(freq, health, daysAgo(d))
				assert.LessOrEqual(t, p.CurrentHealthAt(refNow), p.HealthScore)
			}
		}
	}
}

func TestCurrentHealthMonotonicDecay(t *testing.T) {
	p := testPlant(3, 100, refNow)

	prev := p.CurrentHealthAt(refNow)
	for h := 1; h <= 24*40; h++ {
		cur := p.CurrentHealthAt(refNow.Add(time.Duration(h) * time.Hour))
		require.LessOrEqual(t, cur, prev)
		require.GreaterOrEqual(t, cur, 0.0)
		prev = cur
	}
	assert.Equal(t, 0.0, prev)
}

func TestCurrentHealthDoesNotMutate(t *testing.T) {
	p := testPlant(3, 100, daysAgo(10))
	_ = p.CurrentHealthAt(refNow)
	assert.Equal(t, 100.0, p.HealthScore)
}

func TestCurrentHealthMalformed(t *testing.T) {
	t.Run("nan", func(t *testing.T) {
		p := testPlant(3, math.NaN(), daysAgo(1))
		assert.False(t, p.HasValidHealth())
		assert.Equal(t, 0.0, p.CurrentHealthAt(refNow))
	})

	t.Run("inf", func(t *testing.T) {
		p := testPlant(3, math.Inf(1), daysAgo(1))
		assert.Equal(t, 0.0, p.CurrentHealthAt(refNow))
	})

	t.Run("zero_frequency_uses_default", func(t *testing.T) {
		p := testPlant(3, 100, daysAgo(5))
		p.WateringFrequencyDays = 0
		assert.Equal(t, 90.0, p.CurrentHealthAt(refNow))
	})
}

// =============================================================================
// Water Tests
// =============================================================================

func TestWaterStreakScenarios(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  float64
		streak   int
		expected int
	}{
		{"scenario_c_within_grace", 4, 4, 5},
		{"scenario_d_past_grace", 6, 4, 1},
		{"exactly_at_grace", 5, 4, 5},
		{"on_time", 1, 0, 1},
		{"fresh_plant_late", 30, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlant(3, 80, daysAgo(tt.daysAgo))
			p.WateringStreak = tt.streak
			assert.Equal(t, tt.expected, p.WaterAt(refNow).WateringStreak)
		})
	}
}

func TestWaterHealthBoost(t *testing.T) {
	tests := []struct {
		name     string
		stored   float64
		expected float64
	}{
		{"adds_twenty", 50, 70},
		{"caps_at_max", 95, 100},
		{"already_full", 100, 100},
		{"from_zero", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlant(3, tt.stored, daysAgo(1))
			assert.Equal(t, tt.expected, p.WaterAt(refNow).HealthScore)
		})
	}
}

func TestWaterUsesStoredNotDisplayedHealth(t *testing.T) {
	// Ten days neglected: displayed 5, stored 40. Watering boosts the
	// stored checkpoint, not the decayed value.
	p := testPlant(3, 40, daysAgo(10))
	require.Equal(t, 5.0, p.CurrentHealthAt(refNow))

	watered := p.WaterAt(refNow)
	assert.Equal(t, 60.0, watered.HealthScore)
	assert.Equal(t, 60.0, watered.CurrentHealthAt(refNow))
}

func TestWaterIsCopyOnWrite(t *testing.T) {
	p := testPlant(3, 50, daysAgo(2))
	p.WateringStreak = 3
	before := p

	watered := p.WaterAt(refNow)

	assert.Equal(t, before, p)
	assert.Equal(t, refNow, watered.LastWatered)
	assert.Equal(t, p.ID, watered.ID)
	assert.Equal(t, p.Name, watered.Name)
	assert.Equal(t, p.Species, watered.Species)
	assert.Equal(t, p.Emoji, watered.Emoji)
	assert.Equal(t, p.WateringFrequencyDays, watered.WateringFrequencyDays)
	assert.Equal(t, p.MaxHealthScore, watered.MaxHealthScore)
}

func TestWaterStreakNeverBelowOne(t *testing.T) {
	for d := 0.0; d < 30; d += 1.5 {
		p := testPlant(3, 50, daysAgo(d))
		assert.GreaterOrEqual(t, p.WaterAt(refNow).WateringStreak, 1)
	}
}

func TestWaterMalformedHealth(t *testing.T) {
	p := testPlant(3, math.NaN(), daysAgo(1))
	watered := p.WaterAt(refNow)
	assert.True(t, watered.HasValidHealth())
	assert.Equal(t, 20.0, watered.HealthScore)
}

// =============================================================================
// Status Tests
// =============================================================================

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		health   float64
		expected string
	}{
		{100, StatusExcellent},
		{80, StatusExcellent},
		{79, StatusGood},
		{79.99, StatusGood},
		{60, StatusGood},
		{59, StatusFair},
		{40, StatusFair},
		{39, StatusPoor},
		{20, StatusPoor},
		{19.5, StatusCritical},
		{0, StatusCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusLabel(tt.health), "health %v", tt.health)
	}
}

func TestStatusFace(t *testing.T) {
	assert.Equal(t, "😊", StatusFace(StatusExcellent))
	assert.Equal(t, "😰", StatusFace(StatusCritical))
}

func TestHealthBandOf(t *testing.T) {
	assert.Equal(t, BandGood, HealthBandOf(61))
	assert.Equal(t, BandWarn, HealthBandOf(60))
	assert.Equal(t, BandWarn, HealthBandOf(31))
	assert.Equal(t, BandBad, HealthBandOf(30))
}

func TestNextWateringAndDue(t *testing.T) {
	p := testPlant(3, 100, daysAgo(2))
	assert.Equal(t, daysAgo(-1), p.NextWatering())
	assert.False(t, p.IsDue(refNow))
	assert.True(t, p.IsDue(refNow.Add(24*time.Hour)))
}

// =============================================================================
// Update Tests
// =============================================================================

func TestPlantApply(t *testing.T) {
	p := testPlant(3, 42, daysAgo(1))
	p.WateringStreak = 7

	name := "Renamed"
	freq := 10.0
	edited := p.Apply(PlantUpdate{Name: &name, WateringFrequencyDays: &freq})

	assert.Equal(t, "Renamed", edited.Name)
	assert.Equal(t, 10.0, edited.WateringFrequencyDays)
	assert.Equal(t, p.Species, edited.Species)
	assert.Equal(t, 42.0, edited.HealthScore)
	assert.Equal(t, 7, edited.WateringStreak)
	assert.Equal(t, "Fern", p.Name)

	assert.True(t, PlantUpdate{}.IsEmpty())
	assert.False(t, PlantUpdate{Name: &name}.IsEmpty())
}

// =============================================================================
// JSON Tests
// =============================================================================

func TestPlantJSON(t *testing.T) {
	t.Run("keys_and_time", func(t *testing.T) {
		p := testPlant(3, 75, daysAgo(1))
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, 75.0, raw["health_score"])
		assert.Equal(t, 3.0, raw["watering_frequency_days"])
		assert.Contains(t, raw, "last_watered")

		var back Plant
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, p, back)
	})

	t.Run("nan_encodes_null", func(t *testing.T) {
		p := testPlant(3, math.NaN(), daysAgo(1))
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"health_score":null`)

		var back Plant
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, math.IsNaN(back.HealthScore))
	})

	t.Run("legacy_health_key", func(t *testing.T) {
		var p Plant
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","health":55}`), &p))
		assert.Equal(t, 55.0, p.HealthScore)
		assert.Equal(t, 100.0, p.MaxHealthScore)
	})

	t.Run("health_score_wins_over_legacy_key", func(t *testing.T) {
		var p Plant
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","health_score":80,"health":55}`), &p))
		assert.Equal(t, 80.0, p.HealthScore)
	})

	t.Run("missing_health", func(t *testing.T) {
		var p Plant
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","max_health_score":100}`), &p))
		assert.False(t, p.HasValidHealth())
		assert.Equal(t, 0.0, p.CurrentHealthAt(refNow))
	})
}

// =============================================================================
// Garden Tests
// =============================================================================

func TestGardenImmutability(t *testing.T) {
	a := testPlant(3, 100, daysAgo(1))
	b := testPlant(3, 100, daysAgo(1))
	b.Name = "Cactus"

	empty := NewGarden(nil)
	g1, err := empty.Add(a)
	require.NoError(t, err)
	g2, err := g1.Add(b)
	require.NoError(t, err)

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, g1.Len())
	assert.Equal(t, 2, g2.Len())

	g3, watered, err := g2.Water(a.ID, refNow)
	require.NoError(t, err)
	assert.Equal(t, 1, watered.WateringStreak)

	got, _ := g2.Get(a.ID)
	assert.Equal(t, 0, got.WateringStreak)
	got, _ = g3.Get(a.ID)
	assert.Equal(t, 1, got.WateringStreak)

	g4, err := g3.Remove(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g4.Len())
	assert.Equal(t, 2, g3.Len())

	snapshot := g4.Plants()
	snapshot[0].Name = "mutated"
	got, _ = g4.Get(a.ID)
	assert.Equal(t, "Fern", got.Name)
}

func TestGardenErrors(t *testing.T) {
	p := testPlant(3, 100, daysAgo(1))
	g, err := NewGarden(nil).Add(p)
	require.NoError(t, err)

	_, err = g.Add(p)
	assert.ErrorIs(t, err, errors.ErrDuplicatePlant)

	_, err = g.Remove("missing")
	assert.ErrorIs(t, err, errors.ErrPlantNotFound)

	_, err = g.Replace(Plant{ID: "missing"})
	assert.ErrorIs(t, err, errors.ErrPlantNotFound)

	_, _, err = g.Water("missing", refNow)
	assert.ErrorIs(t, err, errors.ErrPlantNotFound)
}

func TestGardenSearch(t *testing.T) {
	g := NewGarden([]Plant{
		{ID: "1", Name: "Monty", Species: "Monstera deliciosa"},
		{ID: "2", Name: "Spike", Species: "Cactaceae"},
		{ID: "3", Name: "Basil", Species: "Ocimum"},
	})

	assert.Len(t, g.Search(""), 3)
	assert.Len(t, g.Search("MON"), 1)
	assert.Len(t, g.Search("cact"), 1)
	assert.Len(t, g.Search("i"), 3)
	assert.Empty(t, g.Search("orchid"))
}

func TestGardenResolve(t *testing.T) {
	g := NewGarden([]Plant{
		{ID: "abc111", Name: "Monty"},
		{ID: "abc222", Name: "Spike"},
		{ID: "def333", Name: "Basil"},
	})

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{"exact_id", "abc111", "abc111", nil},
		{"unique_prefix", "def", "def333", nil},
		{"name_case_insensitive", "spike", "abc222", nil},
		{"ambiguous_prefix", "abc", "", errors.ErrAmbiguousPlant},
		{"not_found", "zzz", "", errors.ErrPlantNotFound},
		{"empty", "  ", "", errors.ErrPlantRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := g.Resolve(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

// =============================================================================
// Stats Tests
// =============================================================================

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil, refNow))
	})

	t.Run("mixed", func(t *testing.T) {
		healthy := testPlant(3, 100, daysAgo(1))
		healthy.WateringStreak = 4
		overdue := testPlant(3, 100, daysAgo(10))
		overdue.WateringStreak = 2
		malformed := testPlant(3, math.NaN(), daysAgo(1))

		s := ComputeStats([]Plant{healthy, overdue, malformed}, refNow)
		assert.Equal(t, 3, s.TotalPlants)
		assert.Equal(t, 6, s.TotalStreak)
		assert.Equal(t, 1, s.HealthyPlants)
		// (100 + 65 + 0) / 3 = 55
		assert.Equal(t, 55, s.AverageHealth)
	})

	t.Run("rounds_half_up", func(t *testing.T) {
		a := testPlant(3, 81, daysAgo(1))
		b := testPlant(3, 80, daysAgo(1))
		assert.Equal(t, 81, ComputeStats([]Plant{a, b}, refNow).AverageHealth)
	})
}

// =============================================================================
// Undo / Notification Tests
// =============================================================================

func TestNewUndoState(t *testing.T) {
	p := testPlant(3, 100, refNow)
	u := NewUndoState(UndoActionWater, p.ID, &p)
	assert.Equal(t, KeyUndo, u.GetKey())
	assert.Equal(t, UndoActionWater, u.Action)
	assert.Equal(t, p.ID, u.Snapshot.ID)
}

func TestNotification(t *testing.T) {
	n := NewNotification(NotifyThirsty, "Fern is thirsty", "water me").
		WithField("health", "65").
		WithPlant("abc")

	assert.Equal(t, "65", n.Fields["health"])
	assert.Equal(t, "abc", n.PlantID)
	assert.Equal(t, "💧", n.Icon())
	assert.Equal(t, "Watering Reminder", n.TypeLabel())
}
