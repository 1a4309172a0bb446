package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wsprbooks/bookstore/internal/service/report"
)

type ReportHandler struct {
	Reports *report.Service
}

func (h *ReportHandler) TodaySales(c echo.Context) error {
	total, err := h.Reports.TodaySales(time.Now())
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Today's sales fetched successfully",
		"data":    echo.Map{"total_sales": total},
	})
}

func (h *ReportHandler) TodayOrders(c echo.Context) error {
	count, err := h.Reports.TodayOrders(time.Now())
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Today's total orders fetched successfully",
		"data":    count,
	})
}

func (h *ReportHandler) WeeklySales(c echo.Context) error {
	now := time.Now()
	buckets, err := h.Reports.WeeklySales(now)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Weekly sales data fetched successfully",
		"current_day": now.Weekday().String(),
		"data":        buckets,
	})
}

func (h *ReportHandler) MonthlySales(c echo.Context) error {
	now := time.Now()
	buckets, err := h.Reports.MonthlySales(now)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Monthly sales data fetched successfully",
		"data": echo.Map{
			"month":       now.Month().String(),
			"daily_sales": buckets,
		},
	})
}

func (h *ReportHandler) YearlySales(c echo.Context) error {
	now := time.Now()
	buckets, err := h.Reports.YearlySales(now)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Yearly sales data fetched successfully",
		"current_month": now.Month().String(),
		"year":          now.Year(),
		"data":          buckets,
	})
}

func (h *ReportHandler) BestSellers(c echo.Context) error {
	books, err := h.Reports.BestSellers(time.Now())
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Best sellers fetched successfully",
		"data":    books,
	})
}
