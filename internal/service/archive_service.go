package service

import (
	"context"
	"log/slog"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

// ArchiveService is the audit side of archive-first deletion: lookup and
// the admin-only purge.
type ArchiveService struct {
	db  SessionFactory
	bus event.Bus
}

func NewArchiveService(db SessionFactory, bus event.Bus) *ArchiveService {
	return &ArchiveService{db: db, bus: bus}
}

func validateTable(table string) error {
	switch table {
	case model.TableRestaurants, model.TableDishes, model.TableUsers:
		return nil
	default:
		return apierror.BadRequest("unknown archive table", table)
	}
}

func (s *ArchiveService) List(ctx context.Context, filter model.ArchiveFilter) ([]model.Archive, error) {
	if filter.OriginalTable != "" {
		if err := validateTable(filter.OriginalTable); err != nil {
			return nil, err
		}
	}

	repos, done := open(s.db)
	defer done()

	return repos.Archives.Find(ctx, filter)
}

// FindByOriginalID returns nil when nothing was archived under the key.
func (s *ArchiveService) FindByOriginalID(ctx context.Context, table, originalID string) (*model.Archive, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	repos, done := open(s.db)
	defer done()

	return repos.Archives.FindByOriginalID(ctx, table, originalID)
}

// HardDeleteByOriginalID permanently purges an archive. It reports false,
// without failing, when no archive exists under the key.
func (s *ArchiveService) HardDeleteByOriginalID(ctx context.Context, actor model.Actor, table, originalID string) (bool, error) {
	if !actor.IsAdmin() {
		return false, model.ErrForbidden
	}
	if err := validateTable(table); err != nil {
		return false, err
	}

	repos, done := open(s.db)
	defer done()

	removed, err := repos.Archives.HardDelete(ctx, table, originalID, true)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	slog.Info("archive_event",
		"action", "hard_delete",
		"table", table,
		"original_id", originalID,
		"deleted_by", actor.UserID,
	)
	publish(s.bus, event.TypeArchivePurged, map[string]string{
		"original_table": table,
		"original_id":    originalID,
	}, actor.UserID)
	return true, nil
}
