package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Staff is a registered staff account.
type Staff struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository looks up and creates staff accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail returns the staff row for an email, or nil when none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM staff WHERE email = $1
	`, email)
	var st Staff
	if err := row.Scan(&st.ID, &st.Email, &st.Name, &st.PasswordHash, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Upsert creates a staff account or replaces the name and password hash of
// an existing one.
func (r *Repository) Upsert(ctx context.Context, email, name, passwordHash string) error {
	if email == "" {
		return errors.New("email required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff (email, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash
	`, email, name, passwordHash)
	return err
}
