package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/soql/internal/naming"
)

// Entry is one cached object description.
type Entry struct {
	Name     string   // Object name as first described
	Fields   []string // Field names in describe order
	Revision int64    // Incremented on every PutFields for the object
}

// PutFields stores the field list for an object, replacing any previous
// entry. Object names are case-folded for the key; the supplied spelling
// is kept as the display name.
func (s *Store) PutFields(ctx context.Context, object string, fields []string) error {
	data, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("put fields %s: %w", object, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO object_fields (object, name, fields, revision)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(object) DO UPDATE SET
			name = excluded.name,
			fields = excluded.fields,
			revision = object_fields.revision + 1
	`, naming.Fold(object), object, data)
	if err != nil {
		return fmt.Errorf("put fields %s: %w", object, err)
	}

	return nil
}

// GetFields returns the cached field list for an object.
// The boolean is false when the object has not been cached.
func (s *Store) GetFields(ctx context.Context, object string) ([]string, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT fields FROM object_fields WHERE object = ?
	`, naming.Fold(object)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get fields %s: %w", object, err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return nil, false, fmt.Errorf("get fields %s: %w", object, err)
	}
	return fields, true, nil
}

// Objects returns every cached entry ordered by folded object name.
// Returns an empty slice (not nil) when the cache is empty.
func (s *Store) Objects(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, fields, revision
		FROM object_fields
		ORDER BY object COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e    Entry
			data []byte
		)
		if err := rows.Scan(&e.Name, &data, &e.Revision); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		if e.Fields, err = decodeFields(data); err != nil {
			return nil, fmt.Errorf("object %s: %w", e.Name, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}

	return entries, nil
}

// Invalidate removes an object from the cache. Removing an object that is
// not cached is not an error; the boolean reports whether a row was removed.
func (s *Store) Invalidate(ctx context.Context, object string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM object_fields WHERE object = ?
	`, naming.Fold(object))
	if err != nil {
		return false, fmt.Errorf("invalidate %s: %w", object, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("invalidate %s: %w", object, err)
	}
	return n > 0, nil
}
