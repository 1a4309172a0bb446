package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type CartHandler struct {
	DB *gorm.DB
}

func (h *CartHandler) AddToCart(c echo.Context) error {
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

	var existing models.CartItem
	if err := h.DB.Where("user_id = ? AND book_id = ?", userID, req.BookID).
		First(&existing).Error; err == nil {
		return jsonMessage(c, http.StatusBadRequest, "Book is already in cart")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	item := models.CartItem{UserID: userID, BookID: req.BookID}
	if err := h.DB.Create(&item).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Book added to cart successfully",
		"item":    item,
	})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
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

	var item models.CartItem
	if err := h.DB.Where("user_id = ? AND book_id = ?", userID, req.BookID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusBadRequest, "Book not in cart")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return jsonMessage(c, http.StatusOK, "Book removed from cart successfully")
}

// GetCart returns the caller's cart as full book records, newest first.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var books []models.Book
	if err := h.DB.Table("books").
		Joins("JOIN cart_items ON cart_items.book_id = books.id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id DESC").
		Find(&books).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User cart fetched successfully",
		"cart":    books,
	})
}
