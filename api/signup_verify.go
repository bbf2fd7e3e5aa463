package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type verifyOTPBody struct {
	OTP string `json:"otp"`
}

// SignupVerifyOTP checks a submitted code against the pending signup's
// email and consumes it. The signup token stays the credential for the
// final step, no new token is issued here.
func (a *API) SignupVerifyOTP(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	email := c.MustGet("signupEmail").(string)

	var data verifyOTPBody
	if err := c.ShouldBind(&data); err != nil || data.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No code provided",
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()

	otp, err := a.Store.FindValidCode(ctx, email, data.OTP, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired code",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Single use. The delete is the authoritative consumption: if a
	// concurrent verify got to the row first, this one fails too
	if err := a.Store.DeleteCode(ctx, otp.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired code",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Code verified, please complete your signup",
	})
}
