package responses

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/infrastructure/logger"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// HandleError writes err as a JSON error response.
func HandleError(c *gin.Context, err error) {
	log := logger.GetLogger().With().Str("path", c.Request.URL.Path).Logger()
	platformerrors.WriteError(c, err, log)
}

// HandleNewError writes a typed route-level error such as a malformed body.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string, err error, code string) {
	HandleError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, err, code))
}

// SetSessionCookie stores token in the session cookie.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an expired one.
func ClearSessionCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
