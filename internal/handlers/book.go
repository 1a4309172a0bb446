package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/mykafka"
	"github.com/wsprbooks/bookstore/internal/service/search"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

const recentBooksLimit = 4

type BookHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer *mykafka.Producer
}

type bookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Language    string  `json:"language"`
	Genre       string  `json:"genre"`
	URL         string  `json:"url"`
}

// indexBook mirrors the catalog mutation into Elasticsearch; the catalog is
// the source of truth, so index failures are only logged.
func (h *BookHandler) indexBook(c echo.Context, book models.Book) {
	if h.ES == nil {
		return
	}
	if err := search.IndexBook(c.Request().Context(), h.ES, h.Index, book); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *BookHandler) AddBook(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" || req.Author == "" || req.Price == 0 || req.Description == "" || req.Language == "" || req.Genre == "" {
		return jsonMessage(c, http.StatusBadRequest, "All fields are required")
	}

	book := models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Description: req.Description,
		Language:    req.Language,
		Genre:       req.Genre,
		URL:         req.URL,
	}
	if err := h.DB.Create(&book).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	h.indexBook(c, book)
	userID, _ := token.UserID(c)
	publishEvent(c, h.Producer, mykafka.TopicBookEvents, map[string]interface{}{
		"type":    "book_added",
		"user_id": userID,
		"book_id": book.ID,
		"title":   book.Title,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Book added successfully",
		"book":    book,
	})
}

func (h *BookHandler) UpdateBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid book id")
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Book not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Price != 0 {
		book.Price = req.Price
	}
	if req.Description != "" {
		book.Description = req.Description
	}
	if req.Language != "" {
		book.Language = req.Language
	}
	if req.Genre != "" {
		book.Genre = req.Genre
	}
	if req.URL != "" {
		book.URL = req.URL
	}

	if err := h.DB.Save(&book).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	h.indexBook(c, book)
	userID, _ := token.UserID(c)
	publishEvent(c, h.Producer, mykafka.TopicBookEvents, map[string]interface{}{
		"type":    "book_updated",
		"user_id": userID,
		"book_id": book.ID,
		"title":   book.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Book updated successfully",
		"book":    book,
	})
}

func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid book id")
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Book not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := h.DB.Delete(&book).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if h.ES != nil {
		if err := search.DeleteBook(c.Request().Context(), h.ES, h.Index, book.ID); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	userID, _ := token.UserID(c)
	publishEvent(c, h.Producer, mykafka.TopicBookEvents, map[string]interface{}{
		"type":    "book_deleted",
		"user_id": userID,
		"book_id": book.ID,
	})

	return jsonMessage(c, http.StatusOK, "Book deleted successfully")
}

func (h *BookHandler) GetAllBooks(c echo.Context) error {
	var books []models.Book
	if err := h.DB.Order("created_at DESC").Find(&books).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": books})
}

func (h *BookHandler) GetRecentBooks(c echo.Context) error {
	var books []models.Book
	if err := h.DB.Order("created_at DESC").Limit(recentBooksLimit).Find(&books).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": books})
}

func (h *BookHandler) GetBookDetails(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Book ID is required")
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Book not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": book})
}

func (h *BookHandler) BooksByGenre(c echo.Context) error {
	type genreCount struct {
		Genre string `json:"genre"`
		Count int64  `json:"count"`
	}

	var counts []genreCount
	if err := h.DB.Model(&models.Book{}).
		Select("genre, COUNT(*) as count").
		Group("genre").
		Scan(&counts).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": counts})
}
