package api

import (
	"errors"
	"net/http"
	"time"

	"campusmarket/account-api/model"
	"campusmarket/account-api/pkg/security"
	"campusmarket/account-api/util"
	"campusmarket/account-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type signupEmailBody struct {
	Email string `json:"email"`
}

// SignupEmail starts a signup: it mails a one-time code to the address
// and hands back a short-lived signup token that gates the next two
// steps. No password is collected yet.
func (a *API) SignupEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signupEmailBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()
	cooldown := viper.GetDuration("otp.resend_cooldown")

	_, err := a.Store.FindLatestCodeByEmail(ctx, data.Email, time.Now().Add(-cooldown))
	if err == nil {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "A code was sent recently. Please wait a minute before trying again",
			"requestID": requestID,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for a recent code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	_, err = a.Store.FindUserByEmail(ctx, data.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please login or use a different email",
			"requestID": requestID,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	code, err := util.GenerateOTP(viper.GetInt("otp.length"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now()

	err = a.Store.CreateCode(ctx, &model.OTP{
		Email:     data.Email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(viper.GetDuration("otp.ttl")),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The code row deliberately stays around if delivery fails. The
	// user just requests a new one after the cooldown
	if err = a.Mailer.SendOTP(ctx, data.Email, code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to send the verification code. Please request a new one in a minute",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	signupTTL := viper.GetDuration("jwt.signup_ttl")

	token, err := security.SignSignupToken(data.Email, viper.GetString("jwt.signup_secret"), signupTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sign signup token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.SetCookie("signup_token", token, int(signupTTL.Seconds()), "/", "", viper.GetBool("host.ssl.enabled"), true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Code sent to " + data.Email,
		"token":   token,
	})
}
