package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Compile-time interface verification.
var _ newsgrab.SelectorSnapshotStore = (*SelectorStore)(nil)

// SelectorStore persists selector cache snapshots using SQLite.
type SelectorStore struct {
	db *DB
}

// NewSelectorStore creates a new SelectorStore.
func NewSelectorStore(db *DB) *SelectorStore {
	return &SelectorStore{db: db}
}

// LoadSelectors returns all persisted selectors.
func (s *SelectorStore) LoadSelectors(ctx context.Context) ([]newsgrab.CachedSelector, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, expression, created_at, last_validated_at, hit_count, consecutive_failures
		FROM selectors
		ORDER BY domain
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selectors []newsgrab.CachedSelector
	for rows.Next() {
		var sel newsgrab.CachedSelector
		var createdAt, validatedAt string

		if err := rows.Scan(&sel.Domain, &sel.Expression, &createdAt, &validatedAt,
			&sel.HitCount, &sel.ConsecutiveFailures); err != nil {
			return nil, err
		}

		if sel.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if sel.LastValidatedAt, err = parseRFC3339(validatedAt, "last_validated_at"); err != nil {
			return nil, err
		}

		selectors = append(selectors, sel)
	}
	return selectors, rows.Err()
}

// SaveSelectors replaces the persisted snapshot with the given entries.
// The replacement is transactional so a failed flush never leaves a
// partial snapshot.
func (s *SelectorStore) SaveSelectors(ctx context.Context, selectors []newsgrab.CachedSelector) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selectors`); err != nil {
		return err
	}

	for _, sel := range selectors {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO selectors (domain, expression, created_at, last_validated_at, hit_count, consecutive_failures)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sel.Domain, sel.Expression,
			sel.CreatedAt.UTC().Format(time.RFC3339),
			sel.LastValidatedAt.UTC().Format(time.RFC3339),
			sel.HitCount, sel.ConsecutiveFailures)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
