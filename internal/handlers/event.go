package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type EventHandler struct {
	DB *gorm.DB
}

type eventRequest struct {
	Name        string    `json:"name"`
	EventDate   time.Time `json:"event_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsVirtual   bool      `json:"is_virtual"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	EventURL    string    `json:"event_url"`
	Location    string    `json:"location"`
}

func validateEventRequest(req *eventRequest) (string, bool) {
	if req.Name == "" || req.EventDate.IsZero() || req.StartTime == "" || req.EndTime == "" || req.Description == "" {
		return "All fields are required", false
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		return "Start time must be in HH:MM format", false
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		return "End time must be in HH:MM format", false
	}

	if req.IsVirtual {
		if req.EventURL == "" {
			return "Event URL is required for virtual events", false
		}
		if req.Location != "" {
			return "Location should not be provided for virtual events", false
		}
	} else {
		if req.Location == "" {
			return "Location is required for non-virtual events", false
		}
		if req.EventURL != "" {
			return "Event URL should not be provided for non-virtual events", false
		}
	}
	return "", true
}

func (h *EventHandler) AddEvent(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if msg, ok := validateEventRequest(&req); !ok {
		return jsonMessage(c, http.StatusBadRequest, msg)
	}

	event := models.Event{
		Name:        req.Name,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsVirtual:   req.IsVirtual,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		EventURL:    req.EventURL,
		Location:    req.Location,
		UserID:      userID,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Event added successfully",
		"event":   event,
	})
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid event id")
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if msg, ok := validateEventRequest(&req); !ok {
		return jsonMessage(c, http.StatusBadRequest, msg)
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Event not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	event.Name = req.Name
	event.EventDate = req.EventDate
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.IsVirtual = req.IsVirtual
	event.Description = req.Description
	event.EventURL = req.EventURL
	event.Location = req.Location
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}

	if err := h.DB.Save(&event).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Event updated successfully",
		"event":   event,
	})
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Event not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := h.DB.Delete(&event).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return jsonMessage(c, http.StatusOK, "Event deleted successfully")
}

func (h *EventHandler) GetAllEvents(c echo.Context) error {
	var events []models.Event
	if err := h.DB.Order("event_date DESC").Find(&events).Error; err != nil {
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": events})
}

func (h *EventHandler) GetEventDetails(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return jsonMessage(c, http.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMessage(c, http.StatusNotFound, "Event not found")
		}
		return jsonErrorDetail(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": event})
}
