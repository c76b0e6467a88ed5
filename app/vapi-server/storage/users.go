package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when the requested user does not exist
var ErrNotFound = errors.New("user not found")

// User is a row of the users table
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStore persists users in PostgreSQL
type UserStore struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL at the given connection string and prepares the users table
func Open(ctx context.Context, connString string) (*UserStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("cannot create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}
	const ddl = `CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot create users table: %w", err)
	}
	return &UserStore{pool: pool}, nil
}

// Close releases the underlying connection pool
func (s *UserStore) Close() {
	s.pool.Close()
}

// List returns all the users ordered by id
func (s *UserStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("cannot list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("cannot scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get returns the user with the given id
func (s *UserStore) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `SELECT id, name, email, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get user %d: %w", id, err)
	}
	return &u, nil
}

// Create inserts a new user and returns it with the generated id
func (s *UserStore) Create(ctx context.Context, name, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, name, email, created_at`,
		name, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("cannot create user: %w", err)
	}
	return &u, nil
}

// Update replaces name and email of the user with the given id
func (s *UserStore) Update(ctx context.Context, id int64, name, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3 WHERE id = $1 RETURNING id, name, email, created_at`,
		id, name, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot update user %d: %w", id, err)
	}
	return &u, nil
}

// Delete removes the user with the given id
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cannot delete user %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
