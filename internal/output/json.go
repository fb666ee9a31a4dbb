package output

import (
	"math"
	"time"

	"github.com/manav03panchal/plantcare/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// PlantOutput is a plant with its derived values at a point in time.
type PlantOutput struct {
	ID                    string   `json:"id"`
	Owner                 string   `json:"owner,omitempty"`
	Name                  string   `json:"name"`
	Species               string   `json:"species"`
	Emoji                 string   `json:"emoji"`
	LastWatered           string   `json:"last_watered"`
	WateringFrequencyDays float64  `json:"watering_frequency_days"`
	WateringStreak        int      `json:"watering_streak"`
	HealthScore           *float64 `json:"health_score"`
	MaxHealthScore        float64  `json:"max_health_score"`
	CurrentHealth         float64  `json:"current_health"`
	Status                string   `json:"status"`
	NextWatering          string   `json:"next_watering"`
	IsDue                 bool     `json:"is_due"`
}

// NewPlantOutput evaluates p at now.
func NewPlantOutput(p model.Plant, now time.Time) *PlantOutput {
	current := p.CurrentHealthAt(now)
	out := &PlantOutput{
		ID:                    p.ID,
		Owner:                 p.Owner,
		Name:                  p.Name,
		Species:               p.Species,
		Emoji:                 p.Emoji,
		LastWatered:           p.LastWatered.UTC().Format(time.RFC3339Nano),
		WateringFrequencyDays: p.WateringFrequencyDays,
		WateringStreak:        p.WateringStreak,
		MaxHealthScore:        p.EffectiveMaxHealth(),
		CurrentHealth:         math.Round(current*100) / 100,
		Status:                model.StatusLabel(current),
		NextWatering:          p.NextWatering().UTC().Format(time.RFC3339),
		IsDue:                 p.IsDue(now),
	}
	if p.HasValidHealth() {
		stored := p.HealthScore
		out.HealthScore = &stored
	}
	return out
}

// NewPlantOutputs evaluates every plant at now.
func NewPlantOutputs(plants []model.Plant, now time.Time) []*PlantOutput {
	outs := make([]*PlantOutput, 0, len(plants))
	for _, p := range plants {
		outs = append(outs, NewPlantOutput(p, now))
	}
	return outs
}

// PlantsResponse represents a plant listing.
type PlantsResponse struct {
	Plants []*PlantOutput `json:"plants"`
	Count  int            `json:"count"`
	Query  string         `json:"query,omitempty"`
}

// PlantResponse wraps a single plant.
type PlantResponse struct {
	Status string       `json:"status"`
	Plant  *PlantOutput `json:"plant"`
}

// WaterResponse reports a watering.
type WaterResponse struct {
	Status         string       `json:"status"`
	Plant          *PlantOutput `json:"plant"`
	PreviousStreak int          `json:"previous_streak"`
	PreviousHealth float64      `json:"previous_health"`
	StreakReset    bool         `json:"streak_reset"`
}

// NewWaterResponse builds a WaterResponse from the plant before and after.
func NewWaterResponse(before, after model.Plant, now time.Time) *WaterResponse {
	return &WaterResponse{
		Status:         "watered",
		Plant:          NewPlantOutput(after, now),
		PreviousStreak: before.WateringStreak,
		PreviousHealth: before.CurrentHealthAt(now),
		StreakReset:    after.WateringStreak <= before.WateringStreak,
	}
}

// StatsResponse represents garden statistics.
type StatsResponse struct {
	model.Stats
	GeneratedAt string `json:"generated_at"`
}

// DeleteResponse reports a deletion.
type DeleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// UndoResponse reports an undone action.
type UndoResponse struct {
	Status  string `json:"status"`
	Action  string `json:"action"`
	PlantID string `json:"plant_id"`
}

// TransferResponse reports an export or import.
type TransferResponse struct {
	Status  string `json:"status"`
	Adapter string `json:"adapter"`
	Path    string `json:"path"`
	Count   int    `json:"count"`
}

// RemindResponse reports one reminder check.
type RemindResponse struct {
	Checked  int            `json:"checked"`
	Thirsty  []*PlantOutput `json:"thirsty"`
	Notified int            `json:"notified"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintError writes an error object.
func (j *JSONFormatter) PrintError(err error, suggestion string) error {
	return j.JSON(ErrorResponse{Status: "error", Error: err.Error(), Message: suggestion})
}
