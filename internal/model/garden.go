package model

import (
	"strings"
	"time"

	"github.com/manav03panchal/plantcare/internal/errors"
)

// Garden is an owned, immutably updated sequence of plants. Every mutation
// returns a new Garden; the receiver and any plant slices handed out earlier
// are never modified.
type Garden struct {
	plants []Plant
}

// NewGarden returns a garden holding a copy of plants.
func NewGarden(plants []Plant) Garden {
	return Garden{plants: clonePlants(plants)}
}

func clonePlants(plants []Plant) []Plant {
	if len(plants) == 0 {
		return nil
	}
	out := make([]Plant, len(plants))
	copy(out, plants)
	return out
}

// Len returns the number of plants.
func (g Garden) Len() int {
	return len(g.plants)
}

// Plants returns a copy of the plants in order.
func (g Garden) Plants() []Plant {
	return clonePlants(g.plants)
}

func (g Garden) indexOf(id string) int {
	for i := range g.plants {
		if g.plants[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the plant with the given id.
func (g Garden) Get(id string) (Plant, bool) {
	if i := g.indexOf(id); i >= 0 {
		return g.plants[i], true
	}
	return Plant{}, false
}

// Add appends a plant. Identifiers must be unique.
func (g Garden) Add(p Plant) (Garden, error) {
	if g.indexOf(p.ID) >= 0 {
		return g, errors.Wrapf(errors.ErrDuplicatePlant, "plant %s", p.ID)
	}
	next := make([]Plant, len(g.plants), len(g.plants)+1)
	copy(next, g.plants)
	return Garden{plants: append(next, p)}, nil
}

// Replace swaps in p for the plant with the same id.
func (g Garden) Replace(p Plant) (Garden, error) {
	i := g.indexOf(p.ID)
	if i < 0 {
		return g, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", p.ID)
	}
	next := clonePlants(g.plants)
	next[i] = p
	return Garden{plants: next}, nil
}

// Remove drops the plant with the given id.
func (g Garden) Remove(id string) (Garden, error) {
	i := g.indexOf(id)
	if i < 0 {
		return g, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
	}
	next := make([]Plant, 0, len(g.plants)-1)
	next = append(next, g.plants[:i]...)
	next = append(next, g.plants[i+1:]...)
	return Garden{plants: next}, nil
}

// Water waters the plant with the given id at now and returns the new garden
// together with the watered plant.
func (g Garden) Water(id string, now time.Time) (Garden, Plant, error) {
	p, ok := g.Get(id)
	if !ok {
		return g, Plant{}, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
	}
	watered := p.WaterAt(now)
	next, err := g.Replace(watered)
	return next, watered, err
}

// Search returns plants whose name or species contains query, ignoring case.
// An empty query matches every plant.
func (g Garden) Search(query string) []Plant {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return g.Plants()
	}

	var out []Plant
	for _, p := range g.plants {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Species), query) {
			out = append(out, p)
		}
	}
	return out
}

// Resolve finds a plant by exact id, unique id prefix, or case-insensitive name.
func (g Garden) Resolve(ref string) (Plant, error) {
	return ResolvePlant(g.plants, ref)
}

// ResolvePlant finds a plant in plants by exact id, unique id prefix, or
// case-insensitive name.
func ResolvePlant(plants []Plant, ref string) (Plant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Plant{}, errors.ErrPlantRequired
	}

	for _, p := range plants {
		if p.ID == ref {
			return p, nil
		}
	}

	var matches []Plant
	for _, p := range plants {
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return Plant{}, errors.NewUserError(
			"No plant matches '"+ref+"'",
			errors.GetSuggestion(errors.ErrPlantNotFound),
		).WithCause(errors.ErrPlantNotFound)
	case 1:
		return matches[0], nil
	default:
		return Plant{}, errors.NewUserError(
			"'"+ref+"' matches more than one plant",
			errors.GetSuggestion(errors.ErrAmbiguousPlant),
		).WithCause(errors.ErrAmbiguousPlant)
	}
}
