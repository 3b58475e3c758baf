package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `id, username, password_hash, role, is_active, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

// FindActiveByUsername is the login lookup: inactive accounts are invisible.
func (r *Repo) FindActiveByUsername(ctx context.Context, username string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE username=$1 AND is_active`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) Create(ctx context.Context, username, passwordHash string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING `+userCols,
		uuid.NewString(), username, passwordHash, RoleUser))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return u, nil
}
