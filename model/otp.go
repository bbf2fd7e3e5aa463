package model

import "time"

// OTP is a single-use numeric code proving control of an email address.
// Rows are deleted the moment they're matched, so a code can never be
// replayed. Expired leftovers are swept by the cleanup service.
type OTP struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"index;not null"`
	Code      string `gorm:"not null"`
	CreatedAt time.Time
	ExpiresAt time.Time
}
