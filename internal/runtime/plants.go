package runtime

import (
	"context"
	"time"

	"github.com/manav03panchal/plantcare/internal/api"
	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// PlantService is what the commands need from wherever plants live.
// A zero watering time means now.
type PlantService interface {
	List(ctx context.Context) ([]model.Plant, error)
	Add(ctx context.Context, p model.Plant) (model.Plant, error)
	Water(ctx context.Context, id string, at time.Time) (before, after model.Plant, err error)
	Edit(ctx context.Context, id string, update model.PlantUpdate) (before, after model.Plant, err error)
	Delete(ctx context.Context, id string) (model.Plant, error)
}

// Resolve finds a plant by id, unique id prefix or name.
func Resolve(ctx context.Context, svc PlantService, ref string) (model.Plant, error) {
	plants, err := svc.List(ctx)
	if err != nil {
		return model.Plant{}, err
	}
	return model.ResolvePlant(plants, ref)
}

// ErrRemoteUnsupported is returned for operations only the local store offers.
var ErrRemoteUnsupported = errors.NewUserError(
	"This command is not available with --remote",
	"Run it against the local store, or on the server host",
)

// =============================================================================
// Local
// =============================================================================

// LocalPlants serves plants from the Badger store and records undo state.
type LocalPlants struct {
	repo *storage.PlantRepo
	undo *storage.UndoRepo
	now  func() time.Time
}

// NewLocalPlants creates a local plant service.
func NewLocalPlants(repo *storage.PlantRepo, undo *storage.UndoRepo, now func() time.Time) *LocalPlants {
	if now == nil {
		now = time.Now
	}
	return &LocalPlants{repo: repo, undo: undo, now: now}
}

func (l *LocalPlants) List(ctx context.Context) ([]model.Plant, error) {
	return l.repo.List()
}

func (l *LocalPlants) Add(ctx context.Context, p model.Plant) (model.Plant, error) {
	if err := l.repo.Create(p); err != nil {
		return model.Plant{}, err
	}
	if err := l.undo.SaveUndoAdd(p.ID); err != nil {
		return model.Plant{}, err
	}
	return p, nil
}

func (l *LocalPlants) Water(ctx context.Context, id string, at time.Time) (before, after model.Plant, err error) {
	if at.IsZero() {
		at = l.now()
	}
	before, after, err = l.repo.Water(id, at)
	if err != nil {
		return before, after, err
	}
	return before, after, l.undo.SaveUndoWater(before)
}

func (l *LocalPlants) Edit(ctx context.Context, id string, update model.PlantUpdate) (before, after model.Plant, err error) {
	before, after, err = l.repo.Edit(id, update)
	if err != nil {
		return before, after, err
	}
	return before, after, l.undo.SaveUndoEdit(before)
}

func (l *LocalPlants) Delete(ctx context.Context, id string) (model.Plant, error) {
	p, err := l.repo.Get(id)
	if err != nil {
		return model.Plant{}, err
	}
	if err := l.repo.Delete(id); err != nil {
		return model.Plant{}, err
	}
	return p, l.undo.SaveUndoDelete(p)
}

// Undo reverts the last add, water, edit or delete.
func (l *LocalPlants) Undo() (*model.UndoState, error) {
	return l.undo.Undo(l.repo)
}

// =============================================================================
// Remote
// =============================================================================

// RemotePlants serves one owner's plants from a plantcare server.
type RemotePlants struct {
	client *api.Client
	owner  string
}

// NewRemotePlants creates a remote plant service for owner.
func NewRemotePlants(client *api.Client, owner string) *RemotePlants {
	return &RemotePlants{client: client, owner: owner}
}

func (r *RemotePlants) List(ctx context.Context) ([]model.Plant, error) {
	return r.client.ListPlants(ctx, r.owner)
}

func (r *RemotePlants) Add(ctx context.Context, p model.Plant) (model.Plant, error) {
	lastWatered := p.LastWatered
	return r.client.CreatePlant(ctx, api.CreateRequest{
		Owner:                 r.owner,
		Name:                  p.Name,
		Species:               p.Species,
		Emoji:                 p.Emoji,
		WateringFrequencyDays: p.WateringFrequencyDays,
		LastWatered:           &lastWatered,
	})
}

// Water waters on the server. The server stamps the time, so only a zero
// at is accepted.
func (r *RemotePlants) Water(ctx context.Context, id string, at time.Time) (before, after model.Plant, err error) {
	if !at.IsZero() {
		return before, after, errors.NewUserError(
			"A watering time cannot be set with --remote",
			"Drop --at; the server records the time it receives the request",
		)
	}
	if before, err = r.get(ctx, id); err != nil {
		return before, after, err
	}
	after, err = r.client.WaterPlant(ctx, id)
	return before, after, err
}

func (r *RemotePlants) Edit(ctx context.Context, id string, update model.PlantUpdate) (before, after model.Plant, err error) {
	if before, err = r.get(ctx, id); err != nil {
		return before, after, err
	}
	after, err = r.client.UpdatePlant(ctx, id, update)
	return before, after, err
}

func (r *RemotePlants) Delete(ctx context.Context, id string) (model.Plant, error) {
	p, err := r.get(ctx, id)
	if err != nil {
		return model.Plant{}, err
	}
	return p, r.client.DeletePlant(ctx, id)
}

func (r *RemotePlants) get(ctx context.Context, id string) (model.Plant, error) {
	plants, err := r.List(ctx)
	if err != nil {
		return model.Plant{}, err
	}
	for _, p := range plants {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Plant{}, errors.Wrapf(errors.ErrPlantNotFound, "plant %s", id)
}

// =============================================================================
// Store adapter
// =============================================================================

// GardenStore adapts a PlantService to the context-free store used by the
// dashboard and the reminder checker.
type GardenStore struct {
	ctx context.Context
	svc PlantService
}

// NewGardenStore binds svc to ctx.
func NewGardenStore(ctx context.Context, svc PlantService) *GardenStore {
	return &GardenStore{ctx: ctx, svc: svc}
}

// List returns every plant.
func (g *GardenStore) List() ([]model.Plant, error) {
	return g.svc.List(g.ctx)
}

// Water waters the plant now. The dashboard's clock is only used for display.
func (g *GardenStore) Water(id string, _ time.Time) (before, after model.Plant, err error) {
	return g.svc.Water(g.ctx, id, time.Time{})
}
