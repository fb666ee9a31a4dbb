package model

import (
	"math"
	"time"
)

// HealthyThreshold is the current health at which a plant counts as healthy.
const HealthyThreshold = 80.0

// Stats holds aggregate figures for a set of plants.
type Stats struct {
	TotalPlants   int `json:"total_plants"`
	TotalStreak   int `json:"total_streak"`
	AverageHealth int `json:"average_health"`
	HealthyPlants int `json:"healthy_plants"`
}

// ComputeStats aggregates plants at now. The average is rounded half away
// from zero and is 0 for an empty set.
func ComputeStats(plants []Plant, now time.Time) Stats {
	var s Stats
	if len(plants) == 0 {
		return s
	}

	var sum float64
	for _, p := range plants {
		health := p.CurrentHealthAt(now)
		sum += health
		s.TotalStreak += p.WateringStreak
		if health >= HealthyThreshold {
			s.HealthyPlants++
		}
	}
	s.TotalPlants = len(plants)
	s.AverageHealth = int(math.Round(sum / float64(len(plants))))
	return s
}
