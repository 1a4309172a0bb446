package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wsprbooks/bookstore/internal/hash"
	"github.com/wsprbooks/bookstore/internal/models"
)

var testSecret = []byte("test-secret")

func newAuthHandler(t *testing.T) *AuthHandler {
	return &AuthHandler{
		DB:            newTestDB(t),
		JWTSecret:     testSecret,
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func signupBody(username, email, password string) map[string]interface{} {
	return map[string]interface{}{
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": password,
		"address":          "Dhaka",
	}
}

func TestSignup(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/signup", signupBody("reader", "reader@example.com", "secret1"), 0)
	require.NoError(t, h.Signup(c))
	requireStatus(t, rec, http.StatusCreated)

	var user models.User
	require.NoError(t, h.DB.Where("username = ?", "reader").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secret1", user.PasswordHash)
	require.True(t, hash.CheckPassword(user.PasswordHash, "secret1"))
}

func TestSignupValidation(t *testing.T) {
	h := newAuthHandler(t)

	cases := []struct {
		name string
		body map[string]interface{}
		msg  string
	}{
		{"short username", signupBody("abc", "a@example.com", "secret1"), "Username's length should be greater than three"},
		{"short password", signupBody("reader", "a@example.com", "1234"), "Password's length should be greater than five"},
		{"missing email", signupBody("reader", "", "secret1"), "Email is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/api/v1/signup", tc.body, 0)
			require.NoError(t, h.Signup(c))
			requireStatus(t, rec, http.StatusBadRequest)
			require.Equal(t, tc.msg, decodeBody(t, rec)["message"])
		})
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	h := newAuthHandler(t)

	body := signupBody("reader", "reader@example.com", "secret1")
	body["confirm_password"] = "different"
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/signup", body, 0)
	require.NoError(t, h.Signup(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "Passwords do not match", decodeBody(t, rec)["message"])
}

func TestSignupDuplicateUsername(t *testing.T) {
	h := newAuthHandler(t)

	c, _ := newJSONContext(t, http.MethodPost, "/api/v1/signup", signupBody("reader", "one@example.com", "secret1"), 0)
	require.NoError(t, h.Signup(c))

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/signup", signupBody("reader", "two@example.com", "secret1"), 0)
	require.NoError(t, h.Signup(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "Username already exists", decodeBody(t, rec)["message"])
}

func TestLogin(t *testing.T) {
	h := newAuthHandler(t)

	passwordHash, err := hash.HashPassword("secret1")
	require.NoError(t, err)
	createUser(t, h.DB, "reader", passwordHash)

	body := map[string]interface{}{"username": "reader", "password": "secret1"}
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/login", body, 0)
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusOK)

	resp := decodeBody(t, rec)
	require.Equal(t, "Login successful", resp["message"])
	require.NotEmpty(t, resp["token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.Equal(t, "user", resp["role"])

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", resp["refresh_token"]).First(&stored).Error)
	require.False(t, stored.Revoked)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)

	passwordHash, err := hash.HashPassword("secret1")
	require.NoError(t, err)
	createUser(t, h.DB, "reader", passwordHash)

	body := map[string]interface{}{"username": "reader", "password": "wrong"}
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/login", body, 0)
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "Invalid password.", decodeBody(t, rec)["message"])
}

func TestLoginUnknownUser(t *testing.T) {
	h := newAuthHandler(t)

	body := map[string]interface{}{"username": "ghost", "password": "secret1"}
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/login", body, 0)
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "Username does not exist.", decodeBody(t, rec)["message"])
}
