package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusmarket/account-api/model"
	"campusmarket/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, a *API, email, password string) *model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword(password)
	require.NoError(t, err)

	user := &model.User{
		ID:           "testuser12345678",
		Email:        email,
		PasswordHash: hash,
		Name:         "A",
		College:      "X",
		Branch:       "CS",
		Year:         2,
		Phone:        "555",
		Verified:     true,
	}
	require.NoError(t, a.DB.Create(user).Error)
	return user
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" {
			return c.Value
		}
	}

	t.Fatal("no auth_token cookie in response")
	return ""
}

func TestLoginIssuesSession(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "a@b.com", "password1")

	w := doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"email": "a@b.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, user.ID, decodeBody(t, w)["userID"])

	token := authCookie(t, w)
	claims, err := security.ParseToken(token, "test-session-secret", security.PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginFailureIsUniform(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "a@b.com", "password1")

	wrongPass := doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"email": "a@b.com", "password": "nope-nope"})
	unknownUser := doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"email": "ghost@b.com", "password": "password1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// Identical error message both ways so responses can't be used to
	// enumerate accounts
	assert.Equal(t, decodeBody(t, wrongPass)["error"], decodeBody(t, unknownUser)["error"])
}

func TestLoginMissingFields(t *testing.T) {
	a, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"password": "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileReturnsOwnUserWithoutSecrets(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "a@b.com", "password1")

	token, err := security.SignSessionToken(user.ID, "test-session-secret", time.Hour)
	require.NoError(t, err)

	// Both credential carriers work
	for name, opt := range map[string]func(*http.Request){
		"cookie": withCookie("auth_token", token),
		"bearer": withBearer(token),
	} {
		w := doJSON(t, a, http.MethodGet, "/api/user/profile", nil, opt)
		require.Equal(t, http.StatusOK, w.Code, name)

		body := decodeBody(t, w)
		assert.Equal(t, "A", body["name"], name)
		assert.Equal(t, "a@b.com", body["email"], name)
		assert.NotContains(t, w.Body.String(), user.PasswordHash, name)
		assert.NotContains(t, body, "PasswordHash", name)
	}
}

func TestProfileRequiresSession(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "a@b.com", "password1")

	w := doJSON(t, a, http.MethodGet, "/api/user/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := security.SignSessionToken(user.ID, "test-session-secret", -time.Minute)
	require.NoError(t, err)

	w = doJSON(t, a, http.MethodGet, "/api/user/profile", nil, withBearer(expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signup tokens don't open protected endpoints
	signup, err := security.SignSignupToken("a@b.com", "test-signup-secret", time.Hour)
	require.NoError(t, err)

	w = doJSON(t, a, http.MethodGet, "/api/user/profile", nil, withBearer(signup))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileDeletedUser(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "a@b.com", "password1")

	token, err := security.SignSessionToken(user.ID, "test-session-secret", time.Hour)
	require.NoError(t, err)

	require.NoError(t, a.DB.Delete(&model.User{}, "id = ?", user.ID).Error)

	w := doJSON(t, a, http.MethodGet, "/api/user/profile", nil, withBearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "a@b.com", "password1")

	token, err := security.SignSessionToken(user.ID, "test-session-secret", time.Hour)
	require.NoError(t, err)

	w := doJSON(t, a, http.MethodPost, "/api/user/logout", nil, withBearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	cleared := 0
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" || c.Name == "logged_in" {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

func TestEndToEnd(t *testing.T) {
	a, m := newTestAPI(t)

	token, code := requestSignupToken(t, a, m, "a@b.com")

	w := doJSON(t, a, http.MethodPost, "/api/user/verify-otp", gin.H{"otp": code}, withBearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/user/complete-signup", testProfile, withBearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/user/login", gin.H{"email": "a@b.com", "password": testProfile["password"]})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodGet, "/api/user/profile", nil, withCookie("auth_token", authCookie(t, w)))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "A", body["name"])
	assert.NotContains(t, body, "password")
}
