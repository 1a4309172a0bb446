package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type FavoriteHandler struct {
	DB *gorm.DB
}

func (h *FavoriteHandler) AddToFavorites(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		BookID uint `json:"book_id"`
	}
	if err := c.Bind(&req); err != nil || req.BookID == 0 {
		return jsonMessage(c, http.StatusBadRequest, "Book ID is required")
	}

	var book models.Book
	if err := h.DB.First(&book, req.BookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Book not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	var existing models.FavoriteItem
	if err := h.DB.Where("user_id = ? AND book_id = ?", userID, req.BookID).
		First(&existing).Error; err == nil {
		return jsonMessage(c, http.StatusBadRequest, "Book is already in favorites")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	item := models.FavoriteItem{UserID: userID, BookID: req.BookID}
	if err := h.DB.Create(&item).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return jsonMessage(c, http.StatusOK, "Book added to favorites successfully")
}

func (h *FavoriteHandler) RemoveFromFavorites(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		BookID uint `json:"book_id"`
	}
	if err := c.Bind(&req); err != nil || req.BookID == 0 {
		return jsonMessage(c, http.StatusBadRequest, "Book ID is required")
	}

	var item models.FavoriteItem
	if err := h.DB.Where("user_id = ? AND book_id = ?", userID, req.BookID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusBadRequest, "Book not found in favourites")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return jsonMessage(c, http.StatusOK, "Book removed from favorites")
}

func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var books []models.Book
	if err := h.DB.Table("books").
		Joins("JOIN favorite_items ON favorite_items.book_id = books.id").
		Where("favorite_items.user_id = ?", userID).
		Order("favorite_items.id DESC").
		Find(&books).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"favourites": books})
}
