package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

const (
	MaxArchiveNoteLength = 1000
	MaxArchiveDataBytes  = 1 << 20
	DefaultArchiveLimit  = 100
)

const archiveColumns = `id, original_table, original_id, data, note, deleted_by, deleted_at`

// ArchiveRepository is an append-only store: rows are created once and only
// ever leave through HardDelete.
type ArchiveRepository struct {
	session *database.Session
}

func NewArchiveRepository(session *database.Session) *ArchiveRepository {
	return &ArchiveRepository{session: session}
}

// Create stages an archive row. The generated id and timestamp are returned
// before commit; with commit=false the caller's unit of work finalises it.
func (r *ArchiveRepository) Create(ctx context.Context, data model.ArchiveData, deletedBy *string, commit bool) (model.Archive, error) {
	if strings.TrimSpace(data.OriginalTable) == "" || strings.TrimSpace(data.OriginalID) == "" {
		return model.Archive{}, fmt.Errorf("%w: archive requires original table and id", model.ErrInvalidInput)
	}
	if data.Note != nil && utf8.RuneCountInString(*data.Note) > MaxArchiveNoteLength {
		return model.Archive{}, fmt.Errorf("%w: archive note exceeds %d characters", model.ErrConstraintViolation, MaxArchiveNoteLength)
	}

	snapshot := data.Data
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return model.Archive{}, fmt.Errorf("encode archive data: %w", err)
	}
	if len(payload) > MaxArchiveDataBytes {
		return model.Archive{}, fmt.Errorf("%w: archive data is %d bytes, limit %d", model.ErrConstraintViolation, len(payload), MaxArchiveDataBytes)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Archive{}, fmt.Errorf("generate archive id: %w", err)
	}

	archive := model.Archive{
		ID:            id.String(),
		OriginalTable: data.OriginalTable,
		OriginalID:    data.OriginalID,
		Data:          snapshot,
		Note:          data.Note,
		DeletedBy:     deletedBy,
		DeletedAt:     time.Now().UTC(),
	}

	_, err = r.session.ExecContext(ctx,
		`INSERT INTO archives (`+archiveColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		archive.ID, archive.OriginalTable, archive.OriginalID, string(payload),
		archive.Note, archive.DeletedBy, r.session.Timestamp(archive.DeletedAt))
	if err != nil {
		return model.Archive{}, fmt.Errorf("create archive: %w", err)
	}

	if err := finish(r.session, commit); err != nil {
		return model.Archive{}, err
	}
	return archive, nil
}

// Find returns archives matching every non-empty filter field, newest first.
func (r *ArchiveRepository) Find(ctx context.Context, filter model.ArchiveFilter) ([]model.Archive, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.OriginalTable != "" {
		where = append(where, "original_table = ?")
		args = append(args, filter.OriginalTable)
	}
	if filter.OriginalID != "" {
		where = append(where, "original_id = ?")
		args = append(args, filter.OriginalID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultArchiveLimit {
		limit = DefaultArchiveLimit
	}

	query := `SELECT ` + archiveColumns + ` FROM archives`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.session.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find archives: %w", err)
	}
	defer rows.Close()

	items := make([]model.Archive, 0)
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// FindByOriginalID returns nil when nothing was archived under the key.
func (r *ArchiveRepository) FindByOriginalID(ctx context.Context, table, originalID string) (*model.Archive, error) {
	if table == "" || originalID == "" {
		return nil, nil
	}

	items, err := r.Find(ctx, model.ArchiveFilter{OriginalTable: table, OriginalID: originalID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// HardDelete permanently removes the archive stored under the key and
// reports whether one existed.
func (r *ArchiveRepository) HardDelete(ctx context.Context, table, originalID string, commit bool) (bool, error) {
	result, err := r.session.ExecContext(ctx,
		`DELETE FROM archives WHERE original_table = ? AND original_id = ?`, table, originalID)
	if err != nil {
		return false, fmt.Errorf("hard delete archive: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	return n > 0, finish(r.session, commit)
}

func scanArchive(row rowScanner) (model.Archive, error) {
	var a model.Archive
	var payload []byte
	err := row.Scan(&a.ID, &a.OriginalTable, &a.OriginalID, &payload, &a.Note, &a.DeletedBy,
		database.TimeScanner(&a.DeletedAt))
	if err != nil {
		return model.Archive{}, err
	}
	if err := json.Unmarshal(payload, &a.Data); err != nil {
		return model.Archive{}, fmt.Errorf("decode archive data: %w", err)
	}
	return a, nil
}
