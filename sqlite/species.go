package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/vogel"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ vogel.SpeciesService = (*SpeciesService)(nil)

// SpeciesService implements vogel.SpeciesService using SQLite.
// Records are keyed by their display name, see vogel.Species.Name.
type SpeciesService struct {
	db *DB

	// Now returns the time recorded in created_at and updated_at.
	Now func() time.Time
}

// NewSpeciesService creates a new SpeciesService.
func NewSpeciesService(db *DB) *SpeciesService {
	return &SpeciesService{db: db, Now: time.Now}
}

// WriteSpecies inserts the record or updates the stored record of the same
// name. updated_at only changes when the content does.
func (s *SpeciesService) WriteSpecies(ctx context.Context, key string, sp *vogel.Species) error {
	name := sp.Name(key)
	if name == "" {
		return vogel.Errorf(vogel.EINVALID, "species name required")
	}

	now := s.Now().UTC().Format(time.RFC3339)
	args := []any{uuid.New().String(), name}
	for _, f := range sp.Fields() {
		args = append(args, f.Value)
	}
	args = append(args, hashSpecies(sp), now, now)

	placeholders := strings.Repeat(", ?", len(vogel.FieldNames))
	var updates strings.Builder
	for _, col := range vogel.FieldNames {
		updates.WriteString(col + " = excluded." + col + ", ")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO species (id, name, `+speciesColumns+`, content_hash, created_at, updated_at)
		VALUES (?, ?`+placeholders+`, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET `+updates.String()+`
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at
		WHERE content_hash != excluded.content_hash
	`, args...)
	return err
}

// FindSpeciesByName retrieves a record by its display name.
func (s *SpeciesService) FindSpeciesByName(ctx context.Context, name string) (*vogel.Species, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+speciesColumns+` FROM species WHERE name = ?`, name)

	sp, err := scanSpecies(row)
	if err == sql.ErrNoRows {
		return nil, vogel.Errorf(vogel.ENOTFOUND, "species %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// FindSpecies retrieves records matching the filter, ordered by name.
// The name filter matches case-sensitively anywhere in the name.
func (s *SpeciesService) FindSpecies(ctx context.Context, filter vogel.SpeciesFilter) ([]*vogel.SpeciesEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT name, " + speciesColumns + " FROM species WHERE 1=1")

	if filter.Name != nil {
		query.WriteString(" AND instr(name, ?) > 0")
		args = append(args, *filter.Name)
	}
	if filter.Endangerment != nil {
		query.WriteString(" AND endangerment = ?")
		args = append(args, *filter.Endangerment)
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*vogel.SpeciesEntry
	for rows.Next() {
		var name string
		sp, err := scanSpecies(rows, &name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &vogel.SpeciesEntry{Name: name, Species: sp})
	}

	return entries, rows.Err()
}

// DeleteSpecies permanently removes a record.
func (s *SpeciesService) DeleteSpecies(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM species WHERE name = ?", name)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return vogel.Errorf(vogel.ENOTFOUND, "species %q not found", name)
	}
	return nil
}

// UpdatedAt returns when the record of the given name last changed.
func (s *SpeciesService) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var updatedAt string
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM species WHERE name = ?", name).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, vogel.Errorf(vogel.ENOTFOUND, "species %q not found", name)
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseRFC3339(updatedAt, "updated_at")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSpecies scans the species columns, preceded by any leading columns
// the query selects.
func scanSpecies(row scanner, leading ...any) (*vogel.Species, error) {
	sp := &vogel.Species{}
	values := make([]string, len(vogel.FieldNames))
	dest := leading
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	for i, name := range vogel.FieldNames {
		sp.Set(name, values[i])
	}
	return sp, nil
}
