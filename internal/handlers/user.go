package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/hash"
	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) GetUserInfo(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "User not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUserInfo(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Address  string `json:"address"`
		Avatar   string `json:"avatar"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "User not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Error updating user info", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User info updated successfully!",
		"user":    user,
	})
}

func (h *UserHandler) UpdatePassword(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "User not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return jsonMessage(c, http.StatusBadRequest, "Current password is incorrect")
	}
	if len(req.NewPassword) < 5 {
		return jsonMessage(c, http.StatusBadRequest, "Password's length should be greater than five")
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Error updating password", err)
	}
	user.PasswordHash = newHash

	if err := h.DB.Save(&user).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Error updating password", err)
	}

	return jsonMessage(c, http.StatusOK, "Password updated successfully")
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Where("role = ?", "user").Find(&users).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}
	if len(users) == 0 {
		return jsonMessage(c, http.StatusNotFound, "No users found.")
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
