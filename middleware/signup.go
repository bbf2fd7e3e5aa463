package middleware

import (
	"net/http"

	"campusmarket/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// NewSignupAuthMiddleware guards the verify and complete steps of the
// signup flow behind a valid signup token. Nothing server-side records
// the token, possession + signature + expiry is the whole check. On
// success the pending email is available as "signupEmail".
func NewSignupAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr := tokenFromRequest(c, "signup_token")
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized, please verify your email first",
				"requestID": requestID,
			})
			return
		}

		claims, err := security.ParseToken(tokenStr, viper.GetString("jwt.signup_secret"), security.PurposeSignup)
		if err != nil || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid or expired token",
				"requestID": requestID,
			})
			return
		}

		c.Set("signupEmail", claims.Email)
		c.Next()
	}
}
