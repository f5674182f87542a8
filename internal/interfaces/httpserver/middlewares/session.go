package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// PrincipalKey is the gin context key holding the authenticated user id.
const PrincipalKey = "principal"

// SessionGate rejects requests without a resolvable session cookie and
// attaches the principal to the request context otherwise.
func SessionGate(codec session.Codec, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolve(c, codec)
		if !ok {
			err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeUnauthorized,
				"unauthorized: no valid session token", nil, "8a41d2c7-session-missing")
			platformerrors.WriteError(c, err, log)
			return
		}
		attach(c, userID)
		c.Next()
	}
}

// OptionalSession attaches the principal when a valid cookie is present and
// lets every request through.
func OptionalSession(codec session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolve(c, codec); ok {
			attach(c, userID)
		}
		c.Next()
	}
}

func resolve(c *gin.Context, codec session.Codec) (string, bool) {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		return "", false
	}
	userID, err := codec.Resolve(token)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

func attach(c *gin.Context, userID string) {
	c.Set(PrincipalKey, userID)
	c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), session.Principal{UserID: userID}))
}
