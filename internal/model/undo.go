package model

// UndoAction represents the type of action that can be undone.
type UndoAction string

const (
	UndoActionAdd    UndoAction = "add"
	UndoActionWater  UndoAction = "water"
	UndoActionEdit   UndoAction = "edit"
	UndoActionDelete UndoAction = "delete"
)

// UndoState stores the last action that can be undone. Only one slot is kept.
type UndoState struct {
	Key     string     `json:"key"`
	Action  UndoAction `json:"action"`
	PlantID string     `json:"plant_id"`
	// Snapshot is the plant as it was before the action. Nil for add.
	Snapshot *Plant `json:"snapshot,omitempty"`
}

// SetKey sets the database key for this undo state.
func (u *UndoState) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this undo state.
func (u *UndoState) GetKey() string {
	return u.Key
}

// NewUndoState creates a new undo state for the given action.
func NewUndoState(action UndoAction, plantID string, snapshot *Plant) *UndoState {
	return &UndoState{
		Key:      KeyUndo,
		Action:   action,
		PlantID:  plantID,
		Snapshot: snapshot,
	}
}
