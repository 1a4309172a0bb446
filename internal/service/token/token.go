package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

// Rotation is the outcome of a refresh token rotation: the new pair plus
// the subject claims, so callers can set request context without re-parsing
// the token they just signed.
type Rotation struct {
	AccessToken  string
	RefreshToken string
	UserID       uint
	Role         string
}

// RotateToken validates a refresh token, revoking nothing: a new pair is
// issued and the new refresh token stored alongside the old one.
func (t *TokenService) RotateToken(rawToken string) (*Rotation, error) {
	claims, err := ValidateRefresh(rawToken, t.RefreshSecret, t.DB)
	if err != nil {
		return nil, err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, err := SignAccessToken(userID, role, t.JWTSecret)
	if err != nil {
		return nil, err
	}

	newRefresh, err := SignRefreshToken(userID, role, t.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := SaveRefreshToken(t.DB, newRefresh, userID, role); err != nil {
		return nil, err
	}

	return &Rotation{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		UserID:       userID,
		Role:         role,
	}, nil
}

// RequireUser authenticates the request. The Authorization bearer header is
// checked first, then the accessToken cookie; an expired access token is
// rotated through the refreshToken cookie when one is present.
func (t *TokenService) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw != "" {
			token, err := jwt.Parse(raw, func(j *jwt.Token) (interface{}, error) {
				if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
				}
				return t.JWTSecret, nil
			})
			if err == nil && token.Valid {
				setUserContext(c, token.Claims.(jwt.MapClaims))
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or expired token")
		}
		rotation, err := t.RotateToken(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(NewCookie("accessToken", rotation.AccessToken, time.Now().Add(AccessTTL)))
		c.SetCookie(NewCookie("refreshToken", rotation.RefreshToken, time.Now().Add(RefreshTTL)))

		c.Set("userID", rotation.UserID)
		c.Set("role", rotation.Role)
		return next(c)
	}
}

// RequireAdmin is RequireUser plus a role check.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireUser(func(c echo.Context) error {
		if Role(c) != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

// UserID returns the authenticated user id placed by the middleware.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing or expired token")
	}
	return id, nil
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

func NewCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
