package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/mykafka"
	"github.com/wsprbooks/bookstore/internal/service/order"
	"github.com/wsprbooks/bookstore/internal/service/report"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type OrderHandler struct {
	Orders   *order.Service
	Reports  *report.Service
	Producer *mykafka.Producer
}

type checkoutRequest struct {
	Order          []order.Line         `json:"order"`
	PaymentDetails order.PaymentDetails `json:"payment_details"`
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	return h.checkout(c, models.PaymentCOD)
}

func (h *OrderHandler) CardPayment(c echo.Context) error {
	return h.checkout(c, models.PaymentCard)
}

func (h *OrderHandler) BkashPayment(c echo.Context) error {
	return h.checkout(c, models.PaymentBkash)
}

func (h *OrderHandler) checkout(c echo.Context, method string) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.Orders.Checkout(userID, method, req.Order, req.PaymentDetails)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyOrder):
			return jsonMessage(c, http.StatusBadRequest, "No books in the order.")
		case errors.Is(err, order.ErrPaymentDetails):
			return jsonMessage(c, http.StatusBadRequest, "Payment details are required.")
		case errors.Is(err, order.ErrInvalidPhone):
			return jsonMessage(c, http.StatusBadRequest, "Please provide a valid bKash phone number.")
		case errors.Is(err, order.ErrPriceMismatch):
			return jsonMessage(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrBookNotFound):
			return jsonMessage(c, http.StatusNotFound, err.Error())
		default:
			return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
		}
	}

	publishEvent(c, h.Producer, mykafka.TopicOrderEvents, map[string]interface{}{
		"type":           "order_placed",
		"user_id":        userID,
		"group_id":       result.Group.ID,
		"payment_method": method,
		"lines":          len(result.Orders),
		"total":          result.Total,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order placed successfully",
		"group":   result.Group,
		"orders":  result.Orders,
		"total":   result.Total,
	})
}

func (h *OrderHandler) OrderHistory(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	rows, err := h.Reports.OrderHistory(userID)
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}
	if len(rows) == 0 {
		return jsonMessage(c, http.StatusNotFound, "No orders found for this user")
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}

func (h *OrderHandler) AllOrders(c echo.Context) error {
	rows, err := h.Reports.AllOrders()
	if err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
	}
	if len(rows) == 0 {
		return jsonMessage(c, http.StatusNotFound, "No orders found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Orders fetched successfully",
		"data":    rows,
	})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		PlaceOrderTimestamp time.Time `json:"place_order_timestamp"`
		NewStatus           string    `json:"new_status"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if req.PlaceOrderTimestamp.IsZero() || req.NewStatus == "" {
		return jsonMessage(c, http.StatusBadRequest, "Place order timestamp and new status are required")
	}

	updated, err := h.Orders.UpdateStatusByTimestamp(req.PlaceOrderTimestamp, req.NewStatus)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			return jsonMessage(c, http.StatusBadRequest, "Invalid status provided")
		case errors.Is(err, order.ErrIllegalTransition):
			return jsonMessage(c, http.StatusBadRequest, "Illegal status transition")
		case errors.Is(err, order.ErrNoOrders):
			return jsonMessage(c, http.StatusNotFound, "No orders found with the specified place order timestamp")
		default:
			return jsonErrorDetail(c, http.StatusInternalServerError, "Internal server error", err)
		}
	}

	userID, _ := token.UserID(c)
	publishEvent(c, h.Producer, mykafka.TopicOrderEvents, map[string]interface{}{
		"type":       "order_status_updated",
		"user_id":    userID,
		"new_status": req.NewStatus,
		"updated":    updated,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Order statuses updated successfully",
		"updated_count": updated,
	})
}

func (h *OrderHandler) Invoice(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	invoice, err := h.Reports.LatestInvoice(userID)
	if err != nil {
		return h.invoiceError(c, err)
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *OrderHandler) InvoiceByTimestamp(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	ts, err := time.Parse(time.RFC3339, c.Param("ts"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid timestamp")
	}

	invoice, err := h.Reports.InvoiceByTimestamp(userID, ts)
	if err != nil {
		return h.invoiceError(c, err)
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *OrderHandler) invoiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return jsonMessage(c, http.StatusNotFound, "User not found")
	case errors.Is(err, report.ErrNoOrders):
		return jsonMessage(c, http.StatusNotFound, "No orders found.")
	default:
		return jsonErrorDetail(c, http.StatusInternalServerError, "Server error", err)
	}
}
