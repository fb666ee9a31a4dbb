package storage

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
)

// PlantRepo provides operations for Plant entities.
type PlantRepo struct {
	db *DB
}

// NewPlantRepo creates a new plant repository.
func NewPlantRepo(db *DB) *PlantRepo {
	return &PlantRepo{db: db}
}

func newPlant() *model.Plant {
	return &model.Plant{}
}

// Create stores a new plant. Identifiers must be unique.
func (r *PlantRepo) Create(plant model.Plant) error {
	exists, err := r.db.Exists(plant.GetKey())
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicatePlant, "plant %s", plant.ID)
	}
	return r.db.Set(&plant)
}

// Get retrieves a plant by ID.
func (r *PlantRepo) Get(id string) (model.Plant, error) {
	plant := newPlant()
	if err := r.db.Get(model.GeneratePlantKey(id), plant); err != nil {
		if IsErrKeyNotFound(err) {
			return model.Plant{}, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
		}
		return model.Plant{}, err
	}
	return *plant, nil
}

// Resolve finds a plant by ID, unique ID prefix, or name.
func (r *PlantRepo) Resolve(ref string) (model.Plant, error) {
	p, err := r.Get(strings.TrimSpace(ref))
	if err == nil {
		return p, nil
	}
	if !stderrors.Is(err, errors.ErrPlantNotFound) {
		return model.Plant{}, err
	}
	plants, err := r.List()
	if err != nil {
		return model.Plant{}, err
	}
	return model.ResolvePlant(plants, ref)
}

// List retrieves all plants ordered by name.
func (r *PlantRepo) List() ([]model.Plant, error) {
	ptrs, err := GetAllByPrefix(r.db, model.PrefixPlant+":", newPlant)
	if err != nil {
		return nil, err
	}

	plants := make([]model.Plant, 0, len(ptrs))
	for _, p := range ptrs {
		plants = append(plants, *p)
	}
	sort.SliceStable(plants, func(i, j int) bool {
		a, b := strings.ToLower(plants[i].Name), strings.ToLower(plants[j].Name)
		if a != b {
			return a < b
		}
		return plants[i].ID < plants[j].ID
	})
	return plants, nil
}

// ListByOwner retrieves the plants belonging to owner.
func (r *PlantRepo) ListByOwner(owner string) ([]model.Plant, error) {
	plants, err := r.List()
	if err != nil {
		return nil, err
	}

	var owned []model.Plant
	for _, p := range plants {
		if p.Owner == owner {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// Update overwrites an existing plant.
func (r *PlantRepo) Update(plant model.Plant) error {
	exists, err := r.db.Exists(plant.GetKey())
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errors.ErrPlantNotFound, "plant %s", plant.ID)
	}
	return r.db.Set(&plant)
}

// mutate applies fn to the stored plant inside a single transaction.
func (r *PlantRepo) mutate(id string, fn func(model.Plant) (model.Plant, error)) (model.Plant, error) {
	updated, err := Mutate(r.db, model.GeneratePlantKey(id), newPlant, func(p *model.Plant) (*model.Plant, error) {
		next, err := fn(*p)
		if err != nil {
			return nil, err
		}
		return &next, nil
	})
	if err != nil {
		if IsErrKeyNotFound(err) {
			return model.Plant{}, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
		}
		return model.Plant{}, err
	}
	return *updated, nil
}

// Water waters the plant at now and returns the plant before and after.
// Concurrent waterings of the same plant are applied one after another.
func (r *PlantRepo) Water(id string, now time.Time) (before, after model.Plant, err error) {
	after, err = r.mutate(id, func(p model.Plant) (model.Plant, error) {
		before = p
		if now.Before(p.LastWatered) {
			return p, errors.NewUserErrorWithField("time", now.Format(time.RFC3339),
				fmt.Sprintf("%s was last watered at %s", p.Name, p.LastWatered.Format(time.RFC3339)),
				errors.GetSuggestion(errors.ErrWateredBeforeLast)).WithCause(errors.ErrWateredBeforeLast)
		}
		return p.WaterAt(now), nil
	})
	return before, after, err
}

// Edit applies field edits and returns the plant before and after.
func (r *PlantRepo) Edit(id string, update model.PlantUpdate) (before, after model.Plant, err error) {
	after, err = r.mutate(id, func(p model.Plant) (model.Plant, error) {
		before = p
		return p.Apply(update), nil
	})
	return before, after, err
}

// Delete removes a plant by ID.
func (r *PlantRepo) Delete(id string) error {
	key := model.GeneratePlantKey(id)
	exists, err := r.db.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
	}
	return r.db.Delete(key)
}

// ReplaceAll swaps the stored collection for plants.
func (r *PlantRepo) ReplaceAll(plants []model.Plant) error {
	keys, err := r.db.ListByPrefix(model.PrefixPlant + ":")
	if err != nil {
		return err
	}

	models := make([]model.Model, 0, len(plants))
	for i := range plants {
		p := plants[i]
		models = append(models, &p)
	}
	return r.db.Replace(keys, models)
}
