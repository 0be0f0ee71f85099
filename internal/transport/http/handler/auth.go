package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/taskboard/internal/auth"
	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, password string) (*usecase.Session, error)
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	Me(ctx context.Context, id domain.Identity) (*domain.User, error)
}

// CookieOptions controls the session cookie written on register and login.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authUsecase authUsecaser
	authn       authenticator
	cookie      CookieOptions
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, authn authenticator, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		authn:       authn,
		cookie:      cookie,
		logger:      logger.With("component", "auth_handler"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCredentialsBody})
		return
	}

	sess, err := h.authUsecase.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.setSessionCookie(c, sess.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    toUserResponse(sess.User),
		"token":   sess.Token,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCredentialsBody})
		return
	}

	sess, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.setSessionCookie(c, sess.Token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    toUserResponse(sess.User),
		"token":   sess.Token,
	})
}

// GET /auth/me
// 404 when the token is valid but its user has since been removed.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := requireIdentity(c, h.authn)
	if !ok {
		return
	}

	user, err := h.authUsecase.Me(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// POST /auth/logout
// Only clears the cookie; an already issued token stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}
