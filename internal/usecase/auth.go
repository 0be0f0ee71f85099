package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/metrics"
	"github.com/ErlanBelekov/taskboard/internal/repository"
)

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type tokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenIssuer
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, hasher: hasher, tokens: tokens}
}

// Session is a user together with a freshly issued token for it.
type Session struct {
	User  *domain.User
	Token string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *AuthUsecase) Register(ctx context.Context, email, password string) (*Session, error) {
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, NormalizeEmail(email), hash)
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("register", "failure").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := u.newSession(user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEventsTotal.WithLabelValues("register", "success").Inc()
	return sess, nil
}

// Login answers domain.ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthEventsTotal.WithLabelValues("login", "failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthEventsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := u.newSession(user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	return sess, nil
}

// Me resolves the identity of a verified token back to a stored user.
func (u *AuthUsecase) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (u *AuthUsecase) newSession(user *domain.User) (*Session, error) {
	token, err := u.tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
