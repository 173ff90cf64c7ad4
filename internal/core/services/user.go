package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserService struct {
	log       *slog.Logger
	repo      domain.UserRepository
	txManager TxRunner
}

func NewUserService(log *slog.Logger, repo domain.UserRepository, txManager TxRunner) *UserService {
	return &UserService{
		log:       log,
		repo:      repo,
		txManager: txManager,
	}
}

// Signup registers a new account and returns it. The duplicate check and the
// insert run in one transaction so concurrent signups for the same email
// cannot both succeed.
func (s *UserService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(email, string(hash))
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		_, err := s.repo.GetUserByEmail(txCtx, email)
		if err == nil {
			return domain.ErrEmailTaken
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return s.repo.CreateUser(txCtx, user)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "user - signup failed", "email", email, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "user - signup success", "email", email, "user_id", user.ID)
	return user, nil
}

// Signin checks the credentials and returns the matching account.
func (s *UserService) Signin(ctx context.Context, email, password string) (*domain.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.ErrorContext(ctx, "user - signin lookup failed", "email", email, "err", err)
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.ErrorContext(ctx, "user - signin wrong password", "email", email)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func validatePassword(password string) error {
	if len(password) < 5 || len(password) > 100 {
		return domain.ErrInvalidPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ErrInvalidPassword
	}
	return nil
}
