package db

import (
	"context"
	"time"

	"campusmarket/account-api/model"

	"gorm.io/gorm"
)

// Store wraps the gorm connection with the handful of queries the
// handlers need. Every method takes the request context so queries
// die with the connection that asked for them.
type Store struct {
	DB *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{DB: conn}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := s.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := s.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

// FindLatestCodeByEmail returns the most recent code created for email
// after the given instant. Used for the resend cooldown check.
func (s *Store) FindLatestCodeByEmail(ctx context.Context, email string, after time.Time) (*model.OTP, error) {
	var otp model.OTP

	err := s.DB.WithContext(ctx).
		Where("email = ? AND created_at >= ?", email, after).
		Order("created_at desc").
		First(&otp).
		Error
	if err != nil {
		return nil, err
	}

	return &otp, nil
}

func (s *Store) CreateCode(ctx context.Context, otp *model.OTP) error {
	return s.DB.WithContext(ctx).Create(otp).Error
}

// FindValidCode matches a submitted code against the stored, unexpired
// codes for an email.
func (s *Store) FindValidCode(ctx context.Context, email, code string, now time.Time) (*model.OTP, error) {
	var otp model.OTP

	err := s.DB.WithContext(ctx).
		Where("email = ? AND code = ? AND expires_at >= ?", email, code, now).
		First(&otp).
		Error
	if err != nil {
		return nil, err
	}

	return &otp, nil
}

// DeleteCode consumes a matched code. Returns gorm.ErrRecordNotFound
// when the row was already gone, so a concurrent verify that lost the
// race can't also report success.
func (s *Store) DeleteCode(ctx context.Context, id int) error {
	res := s.DB.WithContext(ctx).Delete(&model.OTP{}, id)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
