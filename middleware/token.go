// Package middleware contains any custom middleware used in the app
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// tokenFromRequest pulls a credential from the named cookie or, failing
// that, from a bearer Authorization header. Returns "" when neither is
// present.
func tokenFromRequest(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err == nil && token != "" {
		return token
	}

	auth := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}

	return ""
}
