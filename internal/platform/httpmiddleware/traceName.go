package httpmiddleware

import (
	"linkcut.local/gee"
	"go.opentelemetry.io/otel/trace"
)

// TraceName 用路由模板重命名 otelhttp 创建的 span
func TraceName() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		ctx.Next()
		if ctx.RoutePattern == "" {
			return
		}
		trace.SpanFromContext(ctx.Req.Context()).SetName(ctx.Method + " " + ctx.RoutePattern)
	}
}
