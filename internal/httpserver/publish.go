package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
)

const sideEffectTimeout = 5 * time.Second

// publish sends a domain event. A failed publish is logged and never changes
// the response.
func publish(c echo.Context, pub events.Publisher, topic, key, eventType string, data map[string]any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), sideEffectTimeout)
	defer cancel()
	if err := pub.Publish(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", eventType, "error", err)
	}
}
