package domain

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionAdded      Action = "added"
	ActionRemoved    Action = "removed"
	ActionAssigned   Action = "assigned"
	ActionDeassigned Action = "deassigned"
	ActionReordered  Action = "reordered"
	ActionCleared    Action = "cleared"
)

// KindCatalog is the event kind used when the whole catalog changes.
const KindCatalog Kind = "catalog"

// Event describes a change applied to the catalog.
//
// For associations Name is the category, allergen or menu and Target the
// dish. Menu events carry the resulting dish order.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Target    string    `json:"target,omitempty"`
	Order     []string  `json:"order,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(action Action, kind Kind, name string) Event {
	return Event{
		ID:        uuid.New(),
		Action:    action,
		Kind:      kind,
		Name:      name,
		Timestamp: time.Now().UTC(),
	}
}

// Type is the flat "<kind>_<action>" label used as the message type on the wire.
func (e Event) Type() string {
	return string(e.Kind) + "_" + string(e.Action)
}
