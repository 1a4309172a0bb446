package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wsprbooks/bookstore/internal/mykafka"
)

func jsonMessage(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"message": message})
}

func jsonErrorDetail(c echo.Context, code int, message string, err error) error {
	return c.JSON(code, echo.Map{"message": message, "error": err.Error()})
}

// publishEvent is fire-and-forget: a nil producer (tests) is skipped and
// delivery failures are logged, never surfaced to the client.
func publishEvent(c echo.Context, p *mykafka.Producer, topic string, event map[string]interface{}) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
