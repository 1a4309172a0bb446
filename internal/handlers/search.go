package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"

	"github.com/wsprbooks/bookstore/internal/service/search"
	"github.com/wsprbooks/bookstore/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return jsonMessage(c, http.StatusBadRequest, "query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, books, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "books": books})
}
