package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/util"
)

// EntityStore is the repository surface an archive-first delete needs.
type EntityStore[T model.Entity] interface {
	GetByID(ctx context.Context, id string) (T, error)
	Delete(ctx context.Context, id string, deletedBy *string, commit bool) (bool, error)
}

type ArchiveWriter interface {
	Create(ctx context.Context, data model.ArchiveData, deletedBy *string, commit bool) (model.Archive, error)
}

// ArchiveDeleter removes one entity and writes its archive snapshot in the
// same transaction. Both repositories must share the session behind tx.
type ArchiveDeleter[T model.Entity] struct {
	table    string
	notFound error
	entities EntityStore[T]
	archives ArchiveWriter
	tx       database.Transactor
}

func NewArchiveDeleter[T model.Entity](table string, notFound error, entities EntityStore[T], archives ArchiveWriter, tx database.Transactor) *ArchiveDeleter[T] {
	return &ArchiveDeleter[T]{
		table:    table,
		notFound: notFound,
		entities: entities,
		archives: archives,
		tx:       tx,
	}
}

// Execute archives and deletes the entity identified by id. A missing entity
// fails with the not-found error before anything is written. Otherwise the
// archive row and the delete land together or not at all.
func (d *ArchiveDeleter[T]) Execute(ctx context.Context, id string, deletedBy *string, note *string) (model.Archive, error) {
	entity, err := d.entities.GetByID(ctx, id)
	if err != nil {
		return model.Archive{}, err
	}

	uow := database.NewUnitOfWork(d.tx)
	var archive model.Archive
	err = uow.Within(ctx, func(ctx context.Context) error {
		var err error
		archive, err = ArchiveEntity(ctx, d.archives, d.table, entity, note, deletedBy, false)
		if err != nil {
			return err
		}

		deleted, err := d.entities.Delete(ctx, entity.EntityID(), deletedBy, false)
		if err != nil {
			return err
		}
		if !deleted {
			return d.notFound
		}

		return uow.Commit()
	})
	if err != nil {
		return model.Archive{}, d.lostRace(ctx, id, err)
	}

	slog.Info("archive_event",
		"action", "archive_delete",
		"table", d.table,
		"original_id", archive.OriginalID,
		"archive_id", archive.ID,
		"deleted_by", derefString(deletedBy),
		"note", util.TruncateRunes(derefString(note), 80),
	)
	return archive, nil
}

// lostRace turns a constraint violation into the not-found error when a
// concurrent delete already archived and removed the entity. The check runs
// after rollback, outside the failed transaction.
func (d *ArchiveDeleter[T]) lostRace(ctx context.Context, id string, err error) error {
	if !errors.Is(err, model.ErrConstraintViolation) {
		return err
	}
	if _, getErr := d.entities.GetByID(ctx, id); errors.Is(getErr, d.notFound) {
		return d.notFound
	}
	return err
}

// ArchiveEntity snapshots an arbitrary entity into the archive without
// deleting anything. With commit=false the write stays staged on the
// caller's session.
func ArchiveEntity(ctx context.Context, archives ArchiveWriter, table string, entity model.Entity, note *string, deletedBy *string, commit bool) (model.Archive, error) {
	snapshot, err := model.Snapshot(entity)
	if err != nil {
		return model.Archive{}, err
	}

	archive, err := archives.Create(ctx, model.ArchiveData{
		OriginalTable: table,
		OriginalID:    entity.EntityID(),
		Data:          snapshot,
		Note:          note,
	}, deletedBy, commit)
	if err != nil {
		return model.Archive{}, fmt.Errorf("archive %s %s: %w", table, entity.EntityID(), err)
	}
	return archive, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
