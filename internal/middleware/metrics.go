package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var prom *fiberprometheus.FiberPrometheus

// InitMetrics creates the Prometheus middleware for the given service name
// and registers the /metrics endpoint on the app.
func InitMetrics(app *fiber.App, serviceName string) {
	prom = fiberprometheus.New(serviceName)
	prom.RegisterAt(app, "/metrics")
}

// MetricsMiddleware returns the request-level Prometheus middleware.
// InitMetrics must have been called first.
func MetricsMiddleware() fiber.Handler {
	if prom == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return prom.Middleware
}
