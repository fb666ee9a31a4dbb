package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Care defaults applied by NewPlant.
const (
	DefaultEmoji                 = "🌿"
	DefaultWateringFrequencyDays = 3.0
	DefaultMaxHealthScore        = 100.0
)

// Plant is the single tracked entity. It is a value type: engine operations
// return a modified copy and never touch the receiver.
type Plant struct {
	ID                    string    `json:"id"`
	Owner                 string    `json:"owner,omitempty"`
	Name                  string    `json:"name"`
	Species               string    `json:"species"`
	Emoji                 string    `json:"emoji"`
	LastWatered           time.Time `json:"last_watered"`
	WateringFrequencyDays float64   `json:"watering_frequency_days"`
	WateringStreak        int       `json:"watering_streak"`
	// HealthScore is the health stored at the last watering. NaN marks a
	// record whose health was missing when it was decoded.
	HealthScore    float64 `json:"health_score"`
	MaxHealthScore float64 `json:"max_health_score"`
}

// SetKey sets the database key for this plant.
func (p *Plant) SetKey(key string) {
	p.ID = strings.TrimPrefix(key, PrefixPlant+":")
}

// GetKey returns the database key for this plant.
func (p *Plant) GetKey() string {
	return GeneratePlantKey(p.ID)
}

// ShortID returns the first 8 characters of the ID for display.
func (p Plant) ShortID() string {
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}

// GeneratePlantKey generates a database key for a plant.
func GeneratePlantKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixPlant, id)
}

// NewPlantID returns a fresh random plant identifier.
// Version 4 keeps short ID prefixes well distributed.
func NewPlantID() string {
	return uuid.NewString()
}

// NewPlant creates a plant watered right now with full health.
func NewPlant(name, species, emoji string, wateringFrequencyDays float64) Plant {
	return NewPlantAt(name, species, emoji, wateringFrequencyDays, time.Now())
}

// NewPlantAt creates a plant whose creation (and first watering) happened at now.
// An empty emoji or a non-positive frequency falls back to the defaults.
func NewPlantAt(name, species, emoji string, wateringFrequencyDays float64, now time.Time) Plant {
	if emoji == "" {
		emoji = DefaultEmoji
	}
	if !(wateringFrequencyDays > 0) {
		wateringFrequencyDays = DefaultWateringFrequencyDays
	}
	return Plant{
		ID:                    NewPlantID(),
		Name:                  name,
		Species:               species,
		Emoji:                 emoji,
		LastWatered:           now.UTC(),
		WateringFrequencyDays: wateringFrequencyDays,
		WateringStreak:        0,
		HealthScore:           DefaultMaxHealthScore,
		MaxHealthScore:        DefaultMaxHealthScore,
	}
}

// HasValidHealth reports whether the stored health is a usable number.
func (p Plant) HasValidHealth() bool {
	return !math.IsNaN(p.HealthScore) && !math.IsInf(p.HealthScore, 0)
}

// PlantUpdate carries presentation-layer edits. Nil fields are left alone;
// health and streak are never editable.
type PlantUpdate struct {
	Name                  *string  `json:"name,omitempty"`
	Species               *string  `json:"species,omitempty"`
	Emoji                 *string  `json:"emoji,omitempty"`
	WateringFrequencyDays *float64 `json:"watering_frequency_days,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u PlantUpdate) IsEmpty() bool {
	return u.Name == nil && u.Species == nil && u.Emoji == nil && u.WateringFrequencyDays == nil
}

// Apply returns a copy of the plant with the update's fields set.
func (p Plant) Apply(u PlantUpdate) Plant {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Species != nil {
		p.Species = *u.Species
	}
	if u.Emoji != nil {
		p.Emoji = *u.Emoji
	}
	if u.WateringFrequencyDays != nil {
		p.WateringFrequencyDays = *u.WateringFrequencyDays
	}
	return p
}

// plantJSON is the wire shape. Health is a pointer so that an absent value
// survives as null; "health" is the key older backend records used.
type plantJSON struct {
	ID                    string    `json:"id"`
	Owner                 string    `json:"owner,omitempty"`
	Name                  string    `json:"name"`
	Species               string    `json:"species"`
	Emoji                 string    `json:"emoji"`
	LastWatered           time.Time `json:"last_watered"`
	WateringFrequencyDays float64   `json:"watering_frequency_days"`
	WateringStreak        int       `json:"watering_streak"`
	HealthScore           *float64  `json:"health_score"`
	LegacyHealth          *float64  `json:"health,omitempty"`
	MaxHealthScore        float64   `json:"max_health_score"`
}

// MarshalJSON encodes a missing health as null.
func (p Plant) MarshalJSON() ([]byte, error) {
	out := plantJSON{
		ID:                    p.ID,
		Owner:                 p.Owner,
		Name:                  p.Name,
		Species:               p.Species,
		Emoji:                 p.Emoji,
		LastWatered:           p.LastWatered,
		WateringFrequencyDays: p.WateringFrequencyDays,
		WateringStreak:        p.WateringStreak,
		MaxHealthScore:        p.MaxHealthScore,
	}
	if p.HasValidHealth() {
		health := p.HealthScore
		out.HealthScore = &health
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a plant, falling back to the legacy "health" key and
// marking a record with no health at all as NaN.
func (p *Plant) UnmarshalJSON(data []byte) error {
	var in plantJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*p = Plant{
		ID:                    in.ID,
		Owner:                 in.Owner,
		Name:                  in.Name,
		Species:               in.Species,
		Emoji:                 in.Emoji,
		LastWatered:           in.LastWatered,
		WateringFrequencyDays: in.WateringFrequencyDays,
		WateringStreak:        in.WateringStreak,
		MaxHealthScore:        in.MaxHealthScore,
	}

	// health_score is the key plantcare writes; health only appears in older records.
	switch {
	case in.HealthScore != nil:
		p.HealthScore = *in.HealthScore
	case in.LegacyHealth != nil:
		p.HealthScore = *in.LegacyHealth
	default:
		p.HealthScore = math.NaN()
	}

	if !(p.MaxHealthScore > 0) {
		p.MaxHealthScore = DefaultMaxHealthScore
	}
	return nil
}
