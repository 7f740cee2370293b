package httpmiddleware

import (
	"strconv"
	"time"

	"linkcut.local/gee"
	"linkcut.local/internal/platform/metrics"
)

func Metrics() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		start := time.Now()
		metrics.HTTPInflightRequests.Inc()
		defer metrics.HTTPInflightRequests.Dec()
		defer func() {
			// RoutePattern 在路由匹配后才有值，要在 Next 之后读
			route := ctx.RoutePattern
			if route == "" {
				route = "UNMATCHED"
			}
			status := strconv.Itoa(ctx.Writer.Status())
			metrics.HTTPRequestsTotal.WithLabelValues(ctx.Method, route, status).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(ctx.Method, route).Observe(time.Since(start).Seconds())
		}()
		ctx.Next()
	}
}
