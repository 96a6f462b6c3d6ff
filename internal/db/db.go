// Package db wraps database/sql with the driver differences this service
// has to bridge: placeholder syntax, generated-id retrieval, and the types
// drivers hand back for timestamps and computed columns.
package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DB is a *sql.DB plus the driver name it was opened with. Queries are
// written with `?` placeholders; they are rewritten to $N for postgres.
type DB struct {
	*sql.DB
	driver string
}

func Init(driver, dsn string) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	d := &DB{DB: conn, driver: driver}
	if err := d.createTables(); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

func (d *DB) Driver() string { return d.driver }

// Exec, Query and QueryRow shadow the embedded *sql.DB methods to apply
// placeholder rewriting before the statement reaches the driver.

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(d.Rebind(query), args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(d.Rebind(query), args...)
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(d.Rebind(query), args...)
}

// Rebind rewrites `?` placeholders to the driver's syntax. sqlite3 and
// mysql take `?` as-is; postgres needs ordinal $N markers.
func (d *DB) Rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

// InsertID runs an INSERT and returns the generated row id. Postgres does
// not support LastInsertId, so the statement is extended with RETURNING id
// and read back through QueryRow.
func (d *DB) InsertID(query string, args ...any) (int64, error) {
	if d.driver == "postgres" {
		var id int64
		err := d.DB.QueryRow(d.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := d.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// TimeValue normalizes a scanned timestamp. Columns read through a view
// lose their declared type on sqlite, and mysql returns raw bytes unless
// parseTime is set, so values arrive as time.Time, string or []byte.
func TimeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case []byte:
		return parseTime(string(t))
	case string:
		return parseTime(t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// FloatValue normalizes a scanned numeric value; mysql hands back computed
// decimal columns as []byte.
func FloatValue(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case []byte:
		return strconv.ParseFloat(string(t), 64)
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
