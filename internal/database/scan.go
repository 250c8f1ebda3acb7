package database

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeScanner reads a timestamp column regardless of the engine: PostgreSQL
// hands back time.Time, SQLite hands back RFC3339 text.
func TimeScanner(dst *time.Time) sql.Scanner {
	return &timeScanner{dst: dst}
}

type timeScanner struct {
	dst *time.Time
}

func (s *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
		return nil
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s *timeScanner) parse(raw string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}
