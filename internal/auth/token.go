package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256 session tokens. Tokens are not
// stored anywhere: validity is signature plus expiry.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{key: key, ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) Issue(id domain.Identity) (string, error) {
	now := s.now()
	c := claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify returns domain.ErrTokenInvalid for every kind of bad token.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	if c.Subject == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{UserID: c.Subject, Email: c.Email}, nil
}
