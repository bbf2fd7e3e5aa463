package api

import (
	"errors"
	"net/http"

	"campusmarket/account-api/model"
	"campusmarket/account-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type completeSignupBody struct {
	Password string `json:"password"`
	Name     string `json:"name"`
	College  string `json:"college"`
	Branch   string `json:"branch"`
	Year     int    `json:"year"`
	Phone    string `json:"phone"`
}

// SignupComplete creates the account for a pending signup. The unique
// index on users.email is what actually prevents a double create, the
// duplicate-key error from it maps to a conflict response.
func (a *API) SignupComplete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	email := c.MustGet("signupEmail").(string)

	var data completeSignupBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.ProfileValidator(validators.Profile{
		Name:    data.Name,
		College: data.College,
		Branch:  data.Branch,
		Year:    data.Year,
		Phone:   data.Phone,
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(userIDCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.Store.CreateUser(c.Request.Context(), &model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Name:         data.Name,
		College:      data.College,
		Branch:       data.Branch,
		Year:         data.Year,
		Phone:        data.Phone,
		Verified:     true,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This email is already registered. Please login or use a different email",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The signup token itself stays valid until its expiry, there's no
	// revocation list. Dropping the cookie is all we can do
	c.SetCookie("signup_token", "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"userID":  userID,
	})
}
