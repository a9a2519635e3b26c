package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nvoronin/golab/internal/metrics"
	"github.com/nvoronin/golab/internal/store"
)

// Repository is the SQLite-backed store.Repository.
type Repository struct {
	db *sql.DB
}

var _ store.Repository = (*Repository)(nil)

// NewRepository opens the database at path, applies the schema and returns
// the repository.
func NewRepository(path string, cfg Config) (*Repository, error) {
	db, err := Open(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// DB exposes the underlying handle for health checks.
func (r *Repository) DB() *sql.DB { return r.db }

// Close releases the connection pool.
func (r *Repository) Close() error { return r.db.Close() }

// Create inserts a user and reads the stored row back.
func (r *Repository) Create(ctx context.Context, username, email string) (u *store.User, err error) {
	defer func() { metrics.StoreOp("create", err) }()

	id, err := insertUser(ctx, r.db, store.UserInput{Username: username, Email: email})
	if err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

// GetByID returns the user with the given ID or store.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (u *store.User, err error) {
	defer func() { metrics.StoreOp("get", err) }()
	return r.get(ctx, id)
}

func (r *Repository) get(ctx context.Context, id int64) (*store.User, error) {
	var (
		u         store.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user %d: %w", id, err)
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// Update replaces username and email for an existing user.
func (r *Repository) Update(ctx context.Context, id int64, username, email string) (u *store.User, err error) {
	defer func() { metrics.StoreOp("update", err) }()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ? WHERE id = ?`, username, email, id)
	if err != nil {
		return nil, mapErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return r.get(ctx, id)
}

// Delete removes the user or returns store.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.StoreOp("delete", err) }()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List returns all users ordered by ID.
func (r *Repository) List(ctx context.Context) (users []store.User, err error) {
	defer func() { metrics.StoreOp("list", err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			u         store.User
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan user: %w", err)
		}
		u.CreatedAt = parseTime(createdAt)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list users: %w", err)
	}
	return users, nil
}

// CreatePair inserts two users atomically: both rows commit or neither does.
func (r *Repository) CreatePair(ctx context.Context, a, b store.UserInput) (ua, ub *store.User, err error) {
	defer func() { metrics.StoreOp("pair", err) }()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ida, err := insertUser(ctx, tx, a)
	if err != nil {
		return nil, nil, err
	}
	idb, err := insertUser(ctx, tx, b)
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("sqlite: commit: %w", err)
	}

	if ua, err = r.get(ctx, ida); err != nil {
		return nil, nil, err
	}
	if ub, err = r.get(ctx, idb); err != nil {
		return nil, nil, err
	}
	return ua, ub, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertUser(ctx context.Context, db execer, in store.UserInput) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		in.Username, in.Email, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: last insert id: %w", err)
	}
	return id, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Count returns the number of stored users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count users: %w", err)
	}
	return n, nil
}

// mapErr translates driver errors into store sentinels where possible.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrDuplicate
	}
	return fmt.Errorf("sqlite: %w", err)
}
