package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusmarket/account-api/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent     []string
	lastTo   string
	lastCode string
	fail     bool
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code string) error {
	if m.fail {
		return errors.New("mail provider down")
	}

	m.sent = append(m.sent, code)
	m.lastTo = to
	m.lastCode = code
	return nil
}

func newTestAPI(t *testing.T) (*API, *fakeMailer) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("host.ssl.enabled", false)
	viper.Set("jwt.signup_secret", "test-signup-secret")
	viper.Set("jwt.session_secret", "test-session-secret")
	viper.Set("jwt.signup_ttl", 15*time.Minute)
	viper.Set("jwt.session_ttl", 8*time.Hour)
	viper.Set("otp.length", 6)
	viper.Set("otp.ttl", 5*time.Minute)
	viper.Set("otp.resend_cooldown", time.Minute)

	// A named in-memory database so every pooled connection sees the
	// same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(model.User{}, model.OTP{}))

	mailer := &fakeMailer{}
	return newAPI(conn, mailer), mailer
}

func doJSON(t *testing.T, a *API, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// requestSignupToken runs the first signup step and returns the signup
// token plus the code the mailer captured.
func requestSignupToken(t *testing.T, a *API, m *fakeMailer, email string) (token, code string) {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/api/user/signup-email", gin.H{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])
	require.NotEmpty(t, m.lastCode)

	return body["token"].(string), m.lastCode
}
