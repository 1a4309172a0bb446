package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/hash"
	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/mykafka"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		Address         string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	if len(req.Username) < 4 {
		return jsonMessage(c, http.StatusBadRequest, "Username's length should be greater than three")
	}
	if len(req.Password) < 5 {
		return jsonMessage(c, http.StatusBadRequest, "Password's length should be greater than five")
	}
	if req.Password != req.ConfirmPassword {
		return jsonMessage(c, http.StatusBadRequest, "Passwords do not match")
	}
	if req.Email == "" {
		return jsonMessage(c, http.StatusBadRequest, "Email is required")
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return jsonMessage(c, http.StatusBadRequest, "Username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return jsonMessage(c, http.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Address:      req.Address,
		Role:         "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	publishEvent(c, h.Producer, mykafka.TopicUserEvents, map[string]interface{}{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return jsonMessage(c, http.StatusBadRequest, "Username and password are required.")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Username does not exist.")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return jsonMessage(c, http.StatusBadRequest, "Invalid password.")
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}
	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}
	if err := token.SaveRefreshToken(h.DB, refreshToken, user.ID, user.Role); err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	c.SetCookie(token.NewCookie("accessToken", accessToken, time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.NewCookie("refreshToken", refreshToken, time.Now().Add(token.RefreshTTL)))

	publishEvent(c, h.Producer, mykafka.TopicUserEvents, map[string]interface{}{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successful",
		"user_id":       user.ID,
		"role":          user.Role,
		"token":         accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "refresh token missing")
	}

	result := h.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refreshCookie.Value).
		Update("revoked", true)
	if result.Error != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", result.Error)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.NewCookie("accessToken", "", expired))
	c.SetCookie(token.NewCookie("refreshToken", "", expired))

	return jsonMessage(c, http.StatusOK, "logged out")
}
