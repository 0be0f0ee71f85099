package auth

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/taskboard/internal/domain"
)

// CookieName is the cookie the browser flow carries the session token in.
const CookieName = "token"

type verifier interface {
	Verify(raw string) (domain.Identity, error)
}

// Authenticator resolves the caller of a request. It holds no per-request
// state, so one instance serves every request.
type Authenticator struct {
	tokens verifier
}

func NewAuthenticator(tokens verifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate returns domain.ErrUnauthenticated when the request carries no
// credential and domain.ErrTokenInvalid when the credential does not verify.
func (a *Authenticator) Authenticate(r *http.Request) (domain.Identity, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	id, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return id, nil
}

// TokenFromRequest prefers an "Authorization: Bearer" header over the cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); raw != "" {
			return raw
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
