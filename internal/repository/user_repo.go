package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rockettalk/internal/model"
	"rockettalk/pkg/metrics"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "users", time.Since(start)) }()

	query := `
        INSERT INTO users (username, password_hash, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, u.Username, u.PasswordHash).Scan(&u.ID)
}

// FindByUsername returns a user by their lowercase username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "users", time.Since(start)) }()

	query := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsernames returns every roster username in alphabetical order.
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "users", time.Since(start)) }()

	rows, err := r.db.Query(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of roster users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
