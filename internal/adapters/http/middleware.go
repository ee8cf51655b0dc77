package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// authedHandler receives the caller's identity as an argument; nothing is
// stashed on the gin context.
type authedHandler func(c *gin.Context, ident domain.Identity)

// authed runs the bearer-token guard before fn.
func (h *handlers) authed(fn authedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, err)
			return
		}
		ident, err := h.deps.Tokens.Validate(token)
		if err != nil {
			writeError(c, err)
			return
		}
		fn(c, ident)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthenticationMissing), errors.Is(err, domain.ErrAuthenticationInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[int]string{
	http.StatusUnauthorized: "Token is missing!",
	http.StatusBadRequest:   "Missing required fields",
	http.StatusNotFound:     "Not found",
	http.StatusConflict:     "User with that username or email already exists",
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg, ok := messages[status]
	if !ok {
		msg = "Internal server error"
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	if errors.Is(err, domain.ErrAuthenticationInvalid) {
		msg = "Token is invalid or expired!"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg, "error": domain.Reason(err)})
}
