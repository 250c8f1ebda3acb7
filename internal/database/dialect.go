package database

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect isolates the few places where PostgreSQL and SQLite differ.
// Repositories write queries with '?' placeholders and never branch on the engine.
type Dialect interface {
	Name() string
	Rebind(query string) string
	Timestamp(t time.Time) any
	IsConstraintViolation(err error) bool
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Rebind(query string) string {
	return rebindNumbered(query)
}

func (postgresDialect) Timestamp(t time.Time) any {
	return t.UTC()
}

func (postgresDialect) IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// Class 23: integrity constraint violation.
	return strings.HasPrefix(pgErr.Code, "23")
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) Rebind(query string) string { return query }

// sqliteTimeLayout is fixed width so that stored text compares in time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func (sqliteDialect) Timestamp(t time.Time) any {
	return t.UTC().Format(sqliteTimeLayout)
}

func (sqliteDialect) IsConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// rebindNumbered turns '?' placeholders into $1..$n, skipping quoted literals.
func rebindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
