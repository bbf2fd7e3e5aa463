package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// UserLogout drops the session cookies. Tokens aren't tracked server
// side, so this only instructs the client to forget its credential.
func (a *API) UserLogout(c *gin.Context) {
	ssl := viper.GetBool("host.ssl.enabled")

	c.SetCookie("auth_token", "", -1, "/", "", ssl, true)
	c.SetCookie("logged_in", "", -1, "/", "", ssl, false)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
