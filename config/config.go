// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("jwt.signup_secret", "jwt_signup_secret")
	v.BindEnv("jwt.session_secret", "jwt_session_secret")
	v.BindEnv("jwt.signup_ttl", "jwt_signup_ttl")
	v.BindEnv("jwt.session_ttl", "jwt_session_ttl")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("otp.length", "otp_length")
	v.BindEnv("otp.ttl", "otp_ttl")
	v.BindEnv("otp.resend_cooldown", "otp_resend_cooldown")

	v.BindEnv("mail.provider", "mail_provider")
	v.BindEnv("mail.sender_address", "mail_sender_address")
	v.BindEnv("mail.sender_name", "mail_sender_name")
	v.BindEnv("mail.postmark.server_token", "mail_postmark_server_token")
	v.BindEnv("mail.smtp.host", "mail_smtp_host")
	v.BindEnv("mail.smtp.port", "mail_smtp_port")
	v.BindEnv("mail.smtp.password", "mail_smtp_password")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("jwt.signup_ttl", 15*time.Minute)
	v.SetDefault("jwt.session_ttl", 8*time.Hour)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("otp.length", 6)
	v.SetDefault("otp.ttl", 5*time.Minute)
	v.SetDefault("otp.resend_cooldown", time.Minute)

	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.sender_name", "Campus Marketplace")

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional, everything can come from the environment
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.signup_secret") == "" || v.GetString("jwt.session_secret") == "" {
		fmt.Println("WARNING: You haven't set both JWT secrets, so fresh ones have been generated for you. Please set them as environment variables or in the config.toml file.\n\njwt.signup_secret:\n\n" + genSecret() + "\n\njwt.session_secret:\n\n" + genSecret() + "\n\nPaste them into your config.toml file.")
		return errors.New("missing JWT secrets")
	}

	// A signup token verified with the session secret (or the other way
	// around) must never validate
	if v.GetString("jwt.signup_secret") == v.GetString("jwt.session_secret") {
		return errors.New("jwt.signup_secret and jwt.session_secret must differ")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database DSN can't be empty")
	}

	if v.GetInt("otp.length") < 4 || v.GetInt("otp.length") > 10 {
		return errors.New("otp.length must be between 4 and 10")
	}

	if v.GetDuration("otp.ttl") <= 0 {
		return errors.New("otp.ttl must be bigger than 0")
	}

	if v.GetDuration("otp.resend_cooldown") <= 0 {
		return errors.New("otp.resend_cooldown must be bigger than 0")
	}

	switch v.GetString("mail.provider") {
	case "postmark":
		if v.GetString("mail.postmark.server_token") == "" {
			return errors.New("postmark server token can't be empty")
		}
		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail sender address can't be empty")
		}
	case "smtp":
		if v.GetString("mail.smtp.host") == "" {
			return errors.New("smtp host can't be empty")
		}
		if v.GetInt("mail.smtp.port") <= 0 {
			return errors.New("invalid smtp port provided")
		}
		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail sender address can't be empty")
		}
	case "log":
		fmt.Println("[WARNING]: mail.provider is set to 'log'. One-time codes will only be written to the server logs")
	default:
		return errors.New("invalid mail provider provided")
	}

	return nil
}
