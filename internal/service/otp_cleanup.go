package service

import (
	"time"

	"campusmarket/account-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OTPCleanup periodically deletes one-time codes whose expiry has
// passed. Expired rows can't be matched anymore, this just keeps the
// table from growing forever.
func OTPCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("OTP cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("expires_at < ?", time.Now()).
				Delete(&model.OTP{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired codes", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired codes", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
