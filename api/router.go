// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"campusmarket/account-api/db"
	"campusmarket/account-api/internal/service"
	"campusmarket/account-api/middleware"
	"campusmarket/account-api/pkg/security"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB     *gorm.DB
	Store  *db.Store
	Router *gin.Engine
	Argon  *security.ArgonHash
	Mailer service.OTPMailer
}

func NewRouter() (*API, error) {
	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	mailer, err := service.NewMailer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer, %w", err)
	}

	a := newAPI(conn, mailer)

	service.OTPCleanup(10*time.Minute, conn)

	return a, nil
}

// newAPI wires the router against an already opened database and a
// mailer. Tests call this directly with an in-memory database and a
// fake mailer.
func newAPI(conn *gorm.DB, mailer service.OTPMailer) *API {
	a := &API{
		DB:     conn,
		Store:  db.NewStore(conn),
		Argon:  security.New(),
		Mailer: mailer,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewAuthMiddleware(a.Store)
	signupAuth := middleware.NewSignupAuthMiddleware()
	ipLimit := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a session token
		main.HEAD("/validate", auth, a.Validate)
	}

	user := main.Group("/user")
	{
		// POST /api/user/signup-email		-> Starts a signup by mailing a one-time code
		user.POST("/signup-email", ipLimit, a.SignupEmail)

		// POST /api/user/verify-otp		-> Checks and consumes a one-time code
		user.POST("/verify-otp", signupAuth, a.SignupVerifyOTP)

		// POST /api/user/complete-signup	-> Creates the account for a pending signup
		user.POST("/complete-signup", signupAuth, a.SignupComplete)

		// POST /api/user/login 		-> Logs in a user and returns a session token
		user.POST("/login", ipLimit, a.UserLogin)

		// GET /api/user/profile		-> Returns the caller's profile
		user.GET("/profile", auth, a.UserProfile)

		// POST /api/user/logout		-> Tells the client to drop its session
		user.POST("/logout", auth, a.UserLogout)
	}

	return a
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
