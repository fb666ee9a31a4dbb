package model

import (
	"math"
	"time"
)

// Engine rules.
const (
	// HealthDecayPerDay is lost for every whole day past the watering window.
	HealthDecayPerDay = 5.0
	// WaterHealthBoost is added to the stored health on every watering.
	WaterHealthBoost = 20.0
	// StreakGraceDays extends the watering window when deciding whether a streak survives.
	StreakGraceDays = 2.0
)

// Status labels, lower bounds inclusive.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusPoor      = "Poor"
	StatusCritical  = "Critical"
)

// HealthBand is the colour band a card uses for its health bar.
type HealthBand string

// Health bands.
const (
	BandGood HealthBand = "good"
	BandWarn HealthBand = "warn"
	BandBad  HealthBand = "bad"
)

const day = 24 * time.Hour

// DaysSince returns the fractional number of 24h days between the last
// watering and now.
func (p Plant) DaysSince(now time.Time) float64 {
	return float64(now.Sub(p.LastWatered)) / float64(day)
}

// EffectiveFrequency returns the watering interval in days, falling back to
// the default for zero or unusable values.
func (p Plant) EffectiveFrequency() float64 {
	f := p.WateringFrequencyDays
	if !(f > 0) || math.IsInf(f, 0) {
		return DefaultWateringFrequencyDays
	}
	return f
}

// EffectiveMaxHealth returns the health ceiling, 100 when unset.
func (p Plant) EffectiveMaxHealth() float64 {
	m := p.MaxHealthScore
	if !(m > 0) || math.IsInf(m, 0) {
		return DefaultMaxHealthScore
	}
	return m
}

// CurrentHealth returns the displayed health at the current time.
func (p Plant) CurrentHealth() float64 {
	return p.CurrentHealthAt(time.Now())
}

// CurrentHealthAt returns the stored health decayed for the whole days the
// plant is overdue at now. The stored value is never changed.
//
// A plant whose stored health is missing or not a number reports 0 instead
// of failing. Callers that care should check HasValidHealth and log.
func (p Plant) CurrentHealthAt(now time.Time) float64 {
	if !p.HasValidHealth() {
		return 0
	}

	freq := p.EffectiveFrequency()
	daysSince := p.DaysSince(now)
	if daysSince < freq {
		return p.HealthScore
	}

	decay := math.Floor(daysSince-freq) * HealthDecayPerDay
	return math.Max(0, p.HealthScore-decay)
}

// Water returns a copy of the plant watered right now.
func (p Plant) Water() Plant {
	return p.WaterAt(time.Now())
}

// WaterAt returns a copy of the plant watered at now.
//
// The boost is applied to the stored health, not the decayed one, so a
// neglected plant recovers from its last checkpoint.
func (p Plant) WaterAt(now time.Time) Plant {
	freq := p.EffectiveFrequency()

	if p.DaysSince(now) <= freq+StreakGraceDays {
		p.WateringStreak++
	} else {
		p.WateringStreak = 1
	}

	stored := p.HealthScore
	if !p.HasValidHealth() {
		stored = 0
	}
	p.HealthScore = math.Min(p.EffectiveMaxHealth(), stored+WaterHealthBoost)
	p.LastWatered = now.UTC()
	return p
}

// StatusLabel classifies a health value.
func StatusLabel(health float64) string {
	switch {
	case health >= 80:
		return StatusExcellent
	case health >= 60:
		return StatusGood
	case health >= 40:
		return StatusFair
	case health >= 20:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// StatusFace returns the face shown next to a status label.
func StatusFace(label string) string {
	switch label {
	case StatusExcellent:
		return "😊"
	case StatusGood:
		return "🙂"
	case StatusFair:
		return "😐"
	case StatusPoor:
		return "😟"
	default:
		return "😰"
	}
}

// HealthBandOf returns the colour band for a health value.
func HealthBandOf(health float64) HealthBand {
	switch {
	case health > 60:
		return BandGood
	case health > 30:
		return BandWarn
	default:
		return BandBad
	}
}

// Status returns the plant's label at now.
func (p Plant) Status(now time.Time) string {
	return StatusLabel(p.CurrentHealthAt(now))
}

// NextWatering returns when the plant's watering window closes.
func (p Plant) NextWatering() time.Time {
	return p.LastWatered.Add(time.Duration(p.EffectiveFrequency() * float64(day)))
}

// IsDue reports whether the plant has reached the end of its watering window.
func (p Plant) IsDue(now time.Time) bool {
	return p.DaysSince(now) >= p.EffectiveFrequency()
}
