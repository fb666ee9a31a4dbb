package scheduler

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/manav03panchal/plantcare/internal/model"
)

// CriticalHealth is the level below which a reminder is sent as critical.
const CriticalHealth = 20.0

// IsThirsty reports whether p needs water at now: it is due, or its current
// health is at or below threshold.
func IsThirsty(p model.Plant, now time.Time, threshold float64) bool {
	return p.IsDue(now) || p.CurrentHealthAt(now) <= threshold
}

// FindThirsty returns the plants that need water, most urgent first: lowest
// current health, then longest overdue, then name.
func FindThirsty(plants []model.Plant, now time.Time, threshold float64) []model.Plant {
	var thirsty []model.Plant
	for _, p := range plants {
		if IsThirsty(p, now, threshold) {
			thirsty = append(thirsty, p)
		}
	}

	slices.SortStableFunc(thirsty, func(a, b model.Plant) int {
		if c := cmp.Compare(a.CurrentHealthAt(now), b.CurrentHealthAt(now)); c != 0 {
			return c
		}
		if c := cmp.Compare(overdue(b, now), overdue(a, now)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return thirsty
}

// overdue is how far past its watering window p is, in days. Negative while
// still inside the window.
func overdue(p model.Plant, now time.Time) float64 {
	return p.DaysSince(now) - p.EffectiveFrequency()
}
