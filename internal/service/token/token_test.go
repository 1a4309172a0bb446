package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

func newTestService(t *testing.T) *TokenService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return &TokenService{DB: db, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret}
}

func newEchoContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	id, err := UserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "role": Role(c)})
}

func TestRequireUserWithBearerToken(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(7, "user", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	c, rec := newEchoContext(req)

	require.NoError(t, svc.RequireUser(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := UserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)
	require.Equal(t, "user", Role(c))
}

func TestRequireUserWithAccessCookie(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(3, "user", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	c, rec := newEchoContext(req)

	require.NoError(t, svc.RequireUser(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUserRejectsMissingToken(t *testing.T) {
	svc := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := newEchoContext(req)

	err := svc.RequireUser(okHandler)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireUserRejectsForgedToken(t *testing.T) {
	svc := newTestService(t)

	forged, err := SignAccessToken(7, "admin", []byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
	c, _ := newEchoContext(req)

	err = svc.RequireUser(okHandler)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireUserRotatesExpiredAccess(t *testing.T) {
	svc := newTestService(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(5),
		"role": "user",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	expiredAccess, err := expired.SignedString(testJWTSecret)
	require.NoError(t, err)

	refresh, err := SignRefreshToken(5, "user", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 5, "user"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expiredAccess)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	c, rec := newEchoContext(req)

	require.NoError(t, svc.RequireUser(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := UserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(5), id)
	require.Equal(t, "user", Role(c))

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestService(t)

	adminAccess, err := SignAccessToken(1, "admin", testJWTSecret)
	require.NoError(t, err)
	userAccess, err := SignAccessToken(2, "user", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminAccess)
	c, rec := newEchoContext(req)
	require.NoError(t, svc.RequireAdmin(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+userAccess)
	c, _ = newEchoContext(req)
	err = svc.RequireAdmin(okHandler)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRotateToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(9, "user", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 9, "user"))

	rotation, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, rotation.AccessToken)
	require.NotEmpty(t, rotation.RefreshToken)
	require.Equal(t, uint(9), rotation.UserID)
	require.Equal(t, "user", rotation.Role)

	var stored models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", rotation.RefreshToken).First(&stored).Error)
	require.Equal(t, uint(9), stored.UserID)
}

func TestRotateTokenRejectsRevoked(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(9, "user", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 9, "user"))
	require.NoError(t, svc.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refresh).
		Update("revoked", true).Error)

	_, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestRotateTokenRejectsUnknown(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(9, "user", testRefreshSecret)
	require.NoError(t, err)

	_, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestRotateTokenRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	// An access token signed with the refresh secret still lacks the typ
	// claim and must be rejected.
	access, err := SignAccessToken(9, "user", testRefreshSecret)
	require.NoError(t, err)

	_, err = svc.RotateToken(access)
	require.Error(t, err)
}
