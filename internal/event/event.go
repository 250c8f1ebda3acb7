package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeRestaurantCreated  Type = "restaurant.created"
	TypeRestaurantUpdated  Type = "restaurant.updated"
	TypeRestaurantArchived Type = "restaurant.archived"
	TypeDishCreated        Type = "dish.created"
	TypeDishUpdated        Type = "dish.updated"
	TypeDishArchived       Type = "dish.archived"
	TypeUserArchived       Type = "user.archived"
	TypeArchivePurged      Type = "archive.purged"
)

// ArchivedType maps an archive table onto its archived event.
func ArchivedType(table string) Type {
	switch table {
	case "restaurants":
		return TypeRestaurantArchived
	case "dishes":
		return TypeDishArchived
	case "users":
		return TypeUserArchived
	default:
		return Type(table + ".archived")
	}
}

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

func New(typ Type, payload any, actorID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe(types ...Type) (<-chan Event, func())
}
