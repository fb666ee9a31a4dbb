package storage

import (
	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
)

// UndoRepo provides operations for UndoState entities.
type UndoRepo struct {
	db *DB
}

// NewUndoRepo creates a new undo repository.
func NewUndoRepo(db *DB) *UndoRepo {
	return &UndoRepo{db: db}
}

// Get retrieves the current undo state.
func (r *UndoRepo) Get() (*model.UndoState, error) {
	state := &model.UndoState{}
	if err := r.db.Get(model.KeyUndo, state); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// Set saves the undo state.
func (r *UndoRepo) Set(state *model.UndoState) error {
	state.Key = model.KeyUndo
	return r.db.Set(state)
}

// Clear removes the undo state.
func (r *UndoRepo) Clear() error {
	return r.db.Delete(model.KeyUndo)
}

// SaveUndoAdd records that a plant was added.
func (r *UndoRepo) SaveUndoAdd(id string) error {
	return r.Set(model.NewUndoState(model.UndoActionAdd, id, nil))
}

// SaveUndoWater records the plant as it was before watering.
func (r *UndoRepo) SaveUndoWater(before model.Plant) error {
	return r.Set(model.NewUndoState(model.UndoActionWater, before.ID, &before))
}

// SaveUndoEdit records the plant as it was before an edit.
func (r *UndoRepo) SaveUndoEdit(before model.Plant) error {
	return r.Set(model.NewUndoState(model.UndoActionEdit, before.ID, &before))
}

// SaveUndoDelete records a deleted plant.
func (r *UndoRepo) SaveUndoDelete(deleted model.Plant) error {
	return r.Set(model.NewUndoState(model.UndoActionDelete, deleted.ID, &deleted))
}

// Undo reverts the last recorded action against plants and clears the slot.
// It returns the state that was undone.
func (r *UndoRepo) Undo(plants *PlantRepo) (*model.UndoState, error) {
	state, err := r.Get()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, errors.ErrNothingToUndo
	}

	switch state.Action {
	case model.UndoActionAdd:
		err = plants.Delete(state.PlantID)
	case model.UndoActionWater, model.UndoActionEdit:
		if state.Snapshot == nil {
			return nil, errors.ErrNothingToUndo
		}
		err = plants.Update(*state.Snapshot)
	case model.UndoActionDelete:
		if state.Snapshot == nil {
			return nil, errors.ErrNothingToUndo
		}
		err = plants.Create(*state.Snapshot)
	default:
		return nil, errors.ErrNothingToUndo
	}
	if err != nil {
		return nil, err
	}

	if err := r.Clear(); err != nil {
		return nil, err
	}
	return state, nil
}
