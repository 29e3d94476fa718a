package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tOgg1/emitline/internal/models"
)

// Set repository errors.
var (
	ErrSetNotFound = errors.New("emission set not found")
	ErrSetExists   = errors.New("emission set already exists")
)

// SetRepository handles emission set persistence.
type SetRepository struct {
	db *DB
}

// NewSetRepository creates a new SetRepository.
func NewSetRepository(db *DB) *SetRepository {
	return &SetRepository{db: db}
}

// SetSummary is a list row: a set without its emissions.
type SetSummary struct {
	ID          string
	Name        string
	Emissions   int
	MaxOffsetMs int64
	UpdatedAt   time.Time
}

// Create inserts a new set together with its emissions.
func (r *SetRepository) Create(ctx context.Context, set *models.EmissionSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if set.ID == "" {
		set.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO emission_sets (id, name, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`,
			set.ID,
			set.Name,
			set.CreatedAt.Format(timeFormat),
			set.UpdatedAt.Format(timeFormat),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSetExists
			}
			return fmt.Errorf("failed to insert set: %w", err)
		}
		return insertEmissions(ctx, tx, set)
	})
}

// Save replaces the stored state of set: its name and every emission.
func (r *SetRepository) Save(ctx context.Context, set *models.EmissionSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	set.UpdatedAt = time.Now().UTC()

	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE emission_sets SET name = ?, updated_at = ? WHERE id = ?
		`, set.Name, set.UpdatedAt.Format(timeFormat), set.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSetExists
			}
			return fmt.Errorf("failed to update set: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return ErrSetNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM emissions WHERE set_id = ?`, set.ID); err != nil {
			return fmt.Errorf("failed to clear emissions: %w", err)
		}
		return insertEmissions(ctx, tx, set)
	})
}

func insertEmissions(ctx context.Context, tx *sql.Tx, set *models.EmissionSet) error {
	set.Renumber()
	for _, e := range set.Emissions {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO emissions (id, set_id, name, start_offset_ms, position)
			VALUES (?, ?, ?, ?, ?)
		`, e.ID, set.ID, e.Name, e.StartOffsetMs, e.Position)
		if err != nil {
			return fmt.Errorf("failed to insert emission %q: %w", e.Name, err)
		}
	}
	return nil
}

// Get retrieves a set and its emissions by ID.
func (r *SetRepository) Get(ctx context.Context, id string) (*models.EmissionSet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM emission_sets WHERE id = ?
	`, id)
	return r.load(ctx, row)
}

// GetByName retrieves a set and its emissions by name.
func (r *SetRepository) GetByName(ctx context.Context, name string) (*models.EmissionSet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM emission_sets WHERE name = ?
	`, strings.TrimSpace(name))
	return r.load(ctx, row)
}

// Resolve looks a set up by ID, then by name.
func (r *SetRepository) Resolve(ctx context.Context, key string) (*models.EmissionSet, error) {
	set, err := r.Get(ctx, key)
	if errors.Is(err, ErrSetNotFound) {
		return r.GetByName(ctx, key)
	}
	return set, err
}

func (r *SetRepository) load(ctx context.Context, row *sql.Row) (*models.EmissionSet, error) {
	var set models.EmissionSet
	var createdAt, updatedAt string
	if err := row.Scan(&set.ID, &set.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("failed to scan set: %w", err)
	}
	set.CreatedAt = parseTime(createdAt)
	set.UpdatedAt = parseTime(updatedAt)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, start_offset_ms, position
		FROM emissions
		WHERE set_id = ?
		ORDER BY position
	`, set.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e := &models.Emission{SetID: set.ID}
		if err := rows.Scan(&e.ID, &e.Name, &e.StartOffsetMs, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan emission: %w", err)
		}
		set.Emissions = append(set.Emissions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emissions: %w", err)
	}

	return &set, nil
}

// List returns every set ordered by name.
func (r *SetRepository) List(ctx context.Context) ([]*SetSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.updated_at, COUNT(e.id), COALESCE(MAX(e.start_offset_ms), 0)
		FROM emission_sets s
		LEFT JOIN emissions e ON e.set_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets: %w", err)
	}
	defer rows.Close()

	var sets []*SetSummary
	for rows.Next() {
		var summary SetSummary
		var updatedAt string
		if err := rows.Scan(&summary.ID, &summary.Name, &updatedAt, &summary.Emissions, &summary.MaxOffsetMs); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		summary.UpdatedAt = parseTime(updatedAt)
		sets = append(sets, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sets: %w", err)
	}

	return sets, nil
}

// Delete removes a set and, by cascade, its emissions.
func (r *SetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM emission_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrSetNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
