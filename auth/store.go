package auth

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the user store needs. Declared as
// an interface so tests can substitute a mock pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserStore is the credential store: persisted user records looked up by
// exact match. Implementations surface pgx.ErrNoRows for missing rows and
// pass driver errors through unchanged so callers can classify them.
type UserStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	UpdateEmail(ctx context.Context, id int, email string) (*User, error)
	Delete(ctx context.Context, id int) error
}

// PostgresUserStore implements UserStore on top of a pgx pool.
type PostgresUserStore struct {
	db Querier
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(db Querier) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Create inserts a new user and returns it with its generated id and
// creation timestamp. Inserting is a single statement, so a failure leaves
// no partial record behind.
func (s *PostgresUserStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, email, hashed_password)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, user.Username, strings.ToLower(user.Email), user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Email = strings.ToLower(user.Email)
	return user, nil
}

// GetByUsername fetches a user by exact username match.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, email, hashed_password, created_at FROM users WHERE username = $1`
	var user User
	err := s.db.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by exact email match. Emails are stored
// lowercased, so the argument is lowercased before comparison.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, username, email, hashed_password, created_at FROM users WHERE email = $1`
	var user User
	err := s.db.QueryRow(ctx, query, strings.ToLower(email)).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT id, username, email, hashed_password, created_at FROM users WHERE id = $1`
	var user User
	err := s.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEmail changes a user's email and returns the updated record.
func (s *PostgresUserStore) UpdateEmail(ctx context.Context, id int, email string) (*User, error) {
	query := `UPDATE users SET email = $1 WHERE id = $2
	          RETURNING id, username, email, hashed_password, created_at`
	var user User
	err := s.db.QueryRow(ctx, query, strings.ToLower(email), id).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. Owned tasks are removed by the schema's
// ON DELETE CASCADE.
func (s *PostgresUserStore) Delete(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
