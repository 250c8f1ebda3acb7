package service

import (
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/repository"
)

// SessionFactory hands out one session per operation.
type SessionFactory interface {
	NewSession() *database.Session
}

// open binds a fresh session to every repository. The returned func closes
// the session, discarding anything left uncommitted.
func open(db SessionFactory) (*repository.Repositories, func()) {
	session := db.NewSession()
	return repository.New(session), func() { _ = session.Close() }
}

func publish(bus event.Bus, typ event.Type, payload any, actorID string) {
	if bus == nil {
		return
	}
	bus.Publish(event.New(typ, payload, actorID))
}

// optionalNote turns a blank note into nil.
func optionalNote(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}
