package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tables that feed the archive. The value is stored in archives.original_table.
const (
	TableRestaurants = "restaurants"
	TableDishes      = "dishes"
	TableUsers       = "users"
)

// Archive is the permanently retained snapshot of a deleted entity.
// Rows are never updated; the only removal path is an admin hard delete.
type Archive struct {
	ID            string         `json:"id"`
	OriginalTable string         `json:"original_table"`
	OriginalID    string         `json:"original_id"`
	Data          map[string]any `json:"data"`
	Note          *string        `json:"note,omitempty"`
	DeletedBy     *string        `json:"deleted_by,omitempty"`
	DeletedAt     time.Time      `json:"deleted_at"`
}

// ArchiveData is the creation request for an Archive.
type ArchiveData struct {
	OriginalTable string
	OriginalID    string
	Data          map[string]any
	Note          *string
}

type ArchiveFilter struct {
	OriginalTable string
	OriginalID    string
	Limit         int
}

type ArchiveListData struct {
	Items []Archive `json:"items"`
}

// Snapshot dumps v field-for-field into a JSON-compatible map. Nested value
// objects end up as maps of primitives.
func Snapshot(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: snapshot of %T is not an object", ErrInvalidInput, v)
	}

	return out, nil
}

// Restore decodes an archived snapshot back into dst.
func (a Archive) Restore(dst any) error {
	raw, err := json.Marshal(a.Data)
	if err != nil {
		return fmt.Errorf("marshal archive data: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

func StringPtr(s string) *string {
	return &s
}
