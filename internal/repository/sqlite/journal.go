package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

// compile-time check that *DB implements repository.JournalRepository
var _ repository.JournalRepository = (*DB)(nil)

const journalSelect = `
	SELECT cr.id, cr.user_id, cr.route_id, cr.date, cr.flash, cr.image_url,
	       r.type, d.grade
	FROM completed_routes cr
	JOIN routes r ON r.id = cr.route_id
	JOIN difficulty_levels d ON d.id = r.difficulty_id`

// CreateEntry inserts a journal entry and its own route row in one transaction:
// find-or-create the difficulty level by grade, insert a brand-new route,
// insert the completed_route referencing it. Routes are never shared across
// entries.
func (db *DB) CreateEntry(ctx context.Context, entry *model.JournalEntry) error {
	entry.ID = xid.New().String()
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		difficultyID, err := findOrCreateDifficulty(ctx, tx, entry.Difficulty)
		if err != nil {
			return err
		}

		entry.RouteID = xid.New().String()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO routes (id, difficulty_id, type) VALUES (?, ?, ?)`,
			entry.RouteID, difficultyID, entry.RouteType,
		); err != nil {
			return fmt.Errorf("sqlite: inserting route: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO completed_routes (id, user_id, route_id, date, flash, image_url)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.RouteID, entry.Date, entry.Flash,
			nullString(entry.ImageURL),
		); err != nil {
			return fmt.Errorf("sqlite: inserting journal entry: %w", err)
		}
		return nil
	})
}

// GetEntryByID retrieves one journal entry joined with its route and grade.
func (db *DB) GetEntryByID(ctx context.Context, id string) (*model.JournalEntry, error) {
	row := db.conn.QueryRowContext(ctx, journalSelect+` WHERE cr.id = ?`, id)

	entry, err := scanJournalEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("journal entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting journal entry %s: %w", id, err)
	}
	return entry, nil
}

// ListEntriesByUser returns all journal entries for a user, newest first.
func (db *DB) ListEntriesByUser(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		journalSelect+` WHERE cr.user_id = ? ORDER BY cr.date DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing journal entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := []model.JournalEntry{}
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// UpdateEntry persists the entry's own fields and, because routes are per-entry,
// the referenced route's type and grade in the same transaction. A novel
// grade string creates a new difficulty level on the fly.
func (db *DB) UpdateEntry(ctx context.Context, entry *model.JournalEntry) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		difficultyID, err := findOrCreateDifficulty(ctx, tx, entry.Difficulty)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE routes SET difficulty_id = ?, type = ? WHERE id = ?`,
			difficultyID, entry.RouteType, entry.RouteID,
		); err != nil {
			return fmt.Errorf("sqlite: updating route %s: %w", entry.RouteID, err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE completed_routes SET date = ?, flash = ?, image_url = ? WHERE id = ?`,
			entry.Date, entry.Flash, nullString(entry.ImageURL), entry.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating journal entry %s: %w", entry.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("journal entry", entry.ID)
		}
		return nil
	})
}

// DeleteEntry removes an entry and its per-entry route row.
func (db *DB) DeleteEntry(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var routeID string
		err := tx.QueryRowContext(ctx,
			`SELECT route_id FROM completed_routes WHERE id = ?`, id,
		).Scan(&routeID)
		if err != nil {
			if err == sql.ErrNoRows {
				return apperror.NotFound("journal entry", id)
			}
			return fmt.Errorf("sqlite: looking up journal entry %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM completed_routes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting journal entry %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM routes WHERE id = ?`, routeID); err != nil {
			return fmt.Errorf("sqlite: deleting route %s: %w", routeID, err)
		}
		return nil
	})
}

// SetEntryImageURL attaches a hosted image URL to an entry.
func (db *DB) SetEntryImageURL(ctx context.Context, id, imageURL string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE completed_routes SET image_url = ? WHERE id = ?`, imageURL, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting image on journal entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("journal entry", id)
	}
	return nil
}

// findOrCreateDifficulty looks up a difficulty level by exact grade string,
// creating it if it does not exist. The grade column is UNIQUE, so string
// equality is the uniqueness key — "7a" and "7A" are distinct grades.
func findOrCreateDifficulty(ctx context.Context, tx *sql.Tx, grade string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM difficulty_levels WHERE grade = ?`, grade,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("sqlite: looking up grade %q: %w", grade, err)
	}

	id = xid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO difficulty_levels (id, grade) VALUES (?, ?)`, id, grade,
	); err != nil {
		return "", fmt.Errorf("sqlite: inserting grade %q: %w", grade, err)
	}
	return id, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJournalEntry(s scanner) (*model.JournalEntry, error) {
	var (
		entry    model.JournalEntry
		imageURL sql.NullString
	)
	err := s.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.RouteID,
		&entry.Date,
		&entry.Flash,
		&imageURL,
		&entry.RouteType,
		&entry.Difficulty,
	)
	if err != nil {
		return nil, err
	}
	entry.ImageURL = imageURL.String
	return &entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
