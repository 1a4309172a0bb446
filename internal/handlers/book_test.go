package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wsprbooks/bookstore/internal/models"
)

func bookBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"author":      "Paulo Coelho",
		"price":       100,
		"description": "A shepherd's journey",
		"language":    "English",
		"genre":       "Fiction",
		"url":         "https://img.example.com/alchemist.png",
	}
}

func TestAddBook(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/addbook", bookBody("The Alchemist"), 1)
	require.NoError(t, h.AddBook(c))
	requireStatus(t, rec, http.StatusCreated)

	var book models.Book
	require.NoError(t, db.First(&book).Error)
	require.Equal(t, "The Alchemist", book.Title)
	require.Equal(t, 100.0, book.Price)
}

func TestAddBookMissingFields(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	body := bookBody("The Alchemist")
	body["genre"] = ""
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/addbook", body, 1)
	require.NoError(t, h.AddBook(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, "All fields are required", decodeBody(t, rec)["message"])
}

func TestUpdateBookPartial(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}
	book := createBook(t, db, "Old Title", 100)

	body := map[string]interface{}{"title": "New Title"}
	c, rec := newJSONContext(t, http.MethodPut, "/api/v1/updatebook/1", body, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateBook(c))
	requireStatus(t, rec, http.StatusOK)

	var updated models.Book
	require.NoError(t, db.First(&updated, book.ID).Error)
	require.Equal(t, "New Title", updated.Title)
	require.Equal(t, 100.0, updated.Price)
	require.Equal(t, "Author", updated.Author)
}

func TestDeleteBookNotFound(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	c, rec := newJSONContext(t, http.MethodDelete, "/api/v1/deletebook/99", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.DeleteBook(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestGetRecentBooksLimit(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
		createBook(t, db, title, 100)
	}

	c, rec := newJSONContext(t, http.MethodGet, "/api/v1/getrecentbooks", nil, 0)
	require.NoError(t, h.GetRecentBooks(c))
	requireStatus(t, rec, http.StatusOK)
	require.Len(t, decodeBody(t, rec)["data"], recentBooksLimit)
}

func TestGetBookDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	c, rec := newJSONContext(t, http.MethodGet, "/api/v1/getbookdetails/42", nil, 0)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.GetBookDetails(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestBooksByGenre(t *testing.T) {
	db := newTestDB(t)
	h := &BookHandler{DB: db, Index: "books"}

	createBook(t, db, "A", 100)
	createBook(t, db, "B", 100)

	c, rec := newJSONContext(t, http.MethodGet, "/api/v1/booksbygenre", nil, 0)
	require.NoError(t, h.BooksByGenre(c))
	requireStatus(t, rec, http.StatusOK)

	data, ok := decodeBody(t, rec)["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	row, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Fiction", row["genre"])
	require.Equal(t, 2.0, row["count"])
}
