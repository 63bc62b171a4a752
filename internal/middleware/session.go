package middleware

import (
	"errors"
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// SessionKey carries the resolved session data in the gin context.
	SessionKey = "session"
	// SIDKey carries the raw session id (used by the cart and logout).
	SIDKey = "sid"
)

// Session resolves the session cookie against the store and stashes the
// result in the context. It never rejects: anonymous requests pass through
// and the Require* middlewares decide.
func Session(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(session.CookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		c.Set(SIDKey, sid)

		data, err := store.Get(c.Request.Context(), sid)
		if errors.Is(err, session.ErrNotFound) {
			c.Next()
			return
		}
		if err != nil {
			// Store trouble: treat as anonymous rather than failing the request.
			log.Warn().Str("request_id", c.GetString(RequestIDKey)).Err(err).Msg("session lookup failed")
			c.Next()
			return
		}
		c.Set(SessionKey, data)
		c.Next()
	}
}

// GetSession returns the session data of the current request, if any.
func GetSession(c *gin.Context) (*session.Data, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	data, ok := v.(*session.Data)
	return data, ok
}

// RequireAuth rejects requests without a live session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Debes iniciar sesión"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects sessions whose account is not an administrator.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := GetSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Debes iniciar sesión"))
			return
		}
		if !data.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acceso denegado: se requiere rol de administrador"))
			return
		}
		c.Next()
	}
}
