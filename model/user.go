package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	College      string `gorm:"not null" json:"college"`
	Branch       string `gorm:"not null" json:"branch"`
	Year         int    `gorm:"not null" json:"year"`
	Phone        string `gorm:"not null" json:"phone"`
	Verified     bool   `gorm:"default:false" json:"isVerified"`

	CreatedAt time.Time `json:"-"`
}
