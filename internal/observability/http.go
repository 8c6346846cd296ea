package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler adapts the Prometheus scrape handler to Fiber. Collectors
// are registered on first use, so mounting this is safe even when no request
// has been observed yet.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()

	return adaptor.HTTPHandler(promhttp.Handler())
}
