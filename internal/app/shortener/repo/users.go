package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkcut.local/internal/app/shortener"
)

const emailConstraint = "users_email_key"

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u *shortener.User) error {
	dbctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(dbctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id::text, created_at, updated_at",
		u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// 并发注册同一邮箱时，先查后插挡不住，靠唯一约束兜底
		if isUniqueViolation(err, emailConstraint) {
			return shortener.ErrAlreadyExists
		}
		slog.Error(err.Error())
		return err
	}
	return nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (shortener.User, error) {
	dbctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u shortener.User
	err := r.db.QueryRow(dbctx,
		"SELECT id::text, email, password_hash, created_at, updated_at FROM users WHERE email=$1 LIMIT 1", email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shortener.User{}, shortener.ErrNotFound
		}
		slog.Error(err.Error())
		return shortener.User{}, err
	}
	return u, nil
}

var _ shortener.UserStore = (*UsersRepo)(nil)
