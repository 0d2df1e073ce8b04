package middleware

import (
	"net/http"
	"strings"

	"storefront-service/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	GuestModeSession = "session"
	GuestModeShared  = "shared"

	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"

	sessionCookieMaxAge = 30 * 24 * 60 * 60

	guestModeKey = "guest_mode"
	userIDKey    = "user_id"
)

// Identity records how anonymous callers are identified for the request.
// The user ID itself is resolved lazily by ResolveUserID, since only the
// handler knows where an explicit userId would come from.
func Identity(mode string) gin.HandlerFunc {
	if mode != GuestModeSession {
		mode = GuestModeShared
	}
	return func(c *gin.Context) {
		c.Set(guestModeKey, mode)
		c.Next()
	}
}

// ResolveUserID picks the cart owner for this request: an explicit userId,
// then the X-Session-ID header, then the sid cookie. With no identity at all
// shared mode (the default) falls back to the common guest cart, while
// session mode mints a new session ID and hands it back to the client.
func ResolveUserID(c *gin.Context, explicit string) string {
	if id := c.GetString(userIDKey); id != "" {
		return id
	}

	id := strings.TrimSpace(explicit)
	if id == "" {
		id = strings.TrimSpace(c.GetHeader(SessionHeader))
	}
	if id == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			id = strings.TrimSpace(cookie)
		}
	}
	if id == "" {
		if c.GetString(guestModeKey) == GuestModeShared {
			id = models.GuestUserID
		} else {
			id = uuid.NewString()
			c.Header(SessionHeader, id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
		}
	}

	c.Set(userIDKey, id)
	return id
}
