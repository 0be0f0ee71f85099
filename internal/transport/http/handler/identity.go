package handler

import (
	"errors"
	"net/http"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/metrics"
	"github.com/ErlanBelekov/taskboard/internal/reqctx"
	"github.com/gin-gonic/gin"
)

type authenticator interface {
	Authenticate(r *http.Request) (domain.Identity, error)
}

// requireIdentity runs the authenticator before anything else a protected
// handler does. On failure it has already written the 401 and the handler
// must return.
func requireIdentity(c *gin.Context, authn authenticator) (domain.Identity, bool) {
	id, err := authn.Authenticate(c.Request)
	if err != nil {
		msg, reason := errInvalidToken, "invalid"
		if errors.Is(err, domain.ErrUnauthenticated) {
			msg, reason = errAuthRequired, "missing"
		}
		metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
		c.Header("WWW-Authenticate", `Bearer realm="taskboard"`)
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return domain.Identity{}, false
	}

	c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), id.UserID))
	return id, true
}
