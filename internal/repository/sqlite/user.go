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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user, rejecting duplicate usernames and emails with
// distinct conflict messages. The existence checks and the insert share one
// transaction so a concurrent registration cannot slip between them.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE username = ?`, user.Username,
		).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: checking username %q: %w", user.Username, err)
		}
		if count > 0 {
			return apperror.Conflict("username already exists")
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
		).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: checking email %q: %w", user.Email, err)
		}
		if count > 0 {
			return apperror.Conflict("email already exists")
		}

		var birthdate sql.NullTime
		if user.Birthdate != nil {
			birthdate = sql.NullTime{Time: *user.Birthdate, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash, profile_image_url, birthdate, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.ProfileImageURL,
			birthdate,
			user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
		}
		return nil
	})
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUsername retrieves a user by exact username match.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u         model.User
		birthdate sql.NullTime
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, profile_image_url, birthdate, created_at
		 FROM users `+where, arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.ProfileImageURL,
		&birthdate,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	if birthdate.Valid {
		u.Birthdate = &birthdate.Time
	}

	return &u, nil
}

// UpdateProfileImage sets the user's profile image URL.
func (db *DB) UpdateProfileImage(ctx context.Context, id, imageURL string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET profile_image_url = ? WHERE id = ?`, imageURL, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile image for user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// DeleteUser removes a user and everything they own in a single transaction:
// goals, achievements, journal entries, and the entries' per-entry route
// rows. The ON DELETE CASCADE constraints would catch the owned rows, but
// route rows are only reachable through the entries, so they are removed
// explicitly first.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE id = ?`, id,
		).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: checking user %s: %w", id, err)
		}
		if count == 0 {
			return apperror.NotFound("user", id)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM goals WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting goals for user %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM achievements WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting achievements for user %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM completed_routes WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting journal entries for user %s: %w", id, err)
		}
		// Route rows are per-entry; drop any no longer referenced.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM routes WHERE id NOT IN (SELECT route_id FROM completed_routes)`); err != nil {
			return fmt.Errorf("sqlite: deleting orphaned routes: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
		}
		return nil
	})
}
