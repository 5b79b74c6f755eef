// Package authcookie centralizes the auth-token cookie so the gateway
// and the auth handlers cannot disagree on its attributes.
package authcookie

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Name is the auth cookie name.
const Name = "auth-token"

// MaxAge matches the token validity: 30 days, in seconds.
const MaxAge = 30 * 24 * 60 * 60

// Set writes the auth cookie: http-only, SameSite=Lax, secure when
// requested, 30-day max-age.
func Set(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(Name, token, MaxAge, "/", "", secure, true)
}

// SetSession writes the auth cookie without a max-age, so it expires
// with the browser session. Used by the development query-token
// fallback.
func SetSession(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(Name, token, 0, "/", "", secure, true)
}

// Clear expires the auth cookie immediately.
func Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(Name, "", -1, "/", "", false, true)
}

// Token returns the cookie value, or empty when absent.
func Token(c *gin.Context) string {
	token, err := c.Cookie(Name)
	if err != nil {
		return ""
	}
	return token
}
