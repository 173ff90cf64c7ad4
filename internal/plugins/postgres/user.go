package postgres

import (
	"context"
	"database/sql"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

/*
	-- Users
	CREATE TABLE users (
		id          UUID PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
*/

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	user := &domain.User{Email: email}
	query := `SELECT id, password, created_at FROM users WHERE email = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password, created_at)
		VALUES ($1, $2, $3, $4)
	`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}
