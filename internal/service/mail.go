// Package service contains the supporting services the handlers lean on
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrz1836/postmark"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrDelivery is returned when the mail provider accepted the request
// but couldn't deliver, or refused it outright. The OTP row stays
// persisted either way, the user just requests a new code.
var ErrDelivery = errors.New("failed to deliver mail")

const sendTimeout = 10 * time.Second

// OTPMailer delivers a one-time code to an email address.
type OTPMailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// NewMailer picks the mailer implementation configured under
// mail.provider.
func NewMailer() (OTPMailer, error) {
	switch viper.GetString("mail.provider") {
	case "postmark":
		return &postmarkMailer{
			client: postmark.NewClient(viper.GetString("mail.postmark.server_token"), ""),
		}, nil
	case "smtp":
		return &smtpMailer{}, nil
	case "log":
		return &logMailer{}, nil
	default:
		return nil, errors.New("unknown mail provider")
	}
}

func otpSubject() string {
	return "Your " + viper.GetString("mail.sender_name") + " verification code"
}

func otpBody(code string) string {
	return fmt.Sprintf("<p>Your verification code is <strong>%s</strong></p><p>It expires in %d minutes.</p>",
		code, int(viper.GetDuration("otp.ttl").Minutes()))
}

type postmarkMailer struct {
	client *postmark.Client
}

func (m *postmarkMailer) SendOTP(ctx context.Context, to, code string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     viper.GetString("mail.sender_address"),
		To:       to,
		Subject:  otpSubject(),
		HTMLBody: otpBody(code),
		Tag:      "otp",
	})
	if err != nil {
		return fmt.Errorf("%w, %v", ErrDelivery, err)
	}

	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w, postmark error %d: %s", ErrDelivery, resp.ErrorCode, resp.Message)
	}

	return nil
}

type smtpMailer struct{}

func (m *smtpMailer) SendOTP(ctx context.Context, to, code string) error {
	from := viper.GetString("mail.sender_address")
	if to == from {
		return fmt.Errorf("%w, invalid recipient address", ErrDelivery)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", otpSubject())
	msg.SetBody("text/html", otpBody(code))

	d := gomail.NewDialer(
		viper.GetString("mail.smtp.host"),
		viper.GetInt("mail.smtp.port"),
		from,
		viper.GetString("mail.smtp.password"),
	)

	// gomail has no context support, run the dial in a goroutine so the
	// caller's deadline still holds
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w, %v", ErrDelivery, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w, %v", ErrDelivery, ctx.Err())
	}
}

// logMailer only logs the code. Useful for local development where no
// mail provider is configured.
type logMailer struct{}

func (m *logMailer) SendOTP(_ context.Context, to, code string) error {
	zap.L().Info("OTP generated", zap.String("to", to), zap.String("code", code))
	return nil
}
