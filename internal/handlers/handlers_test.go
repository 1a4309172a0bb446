package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/config"
	"github.com/wsprbooks/bookstore/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// newJSONContext builds an echo context carrying a JSON body. userID 0 leaves
// the request unauthenticated.
func newJSONContext(t *testing.T, method, path string, body interface{}, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", "user")
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createBook(t *testing.T, db *gorm.DB, title string, price float64) models.Book {
	b := models.Book{Title: title, Author: "Author", Price: price, Description: "desc", Language: "English", Genre: "Fiction"}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func createUser(t *testing.T, db *gorm.DB, username, passwordHash string) models.User {
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: passwordHash,
		Address:      "Dhaka",
		Role:         "user",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
