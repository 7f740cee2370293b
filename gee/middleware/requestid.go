package middleware

import (
	"github.com/google/uuid"

	"linkcut.local/gee"
)

// ReqID 透传上游的 X-Request-ID，没有则生成一个，并回写到响应头
func ReqID() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id := ctx.Req.Header.Get(gee.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = GenerateReqID()
			ctx.Req.Header.Set(gee.RequestIDHeader, id)
		}
		ctx.SetHeader(gee.RequestIDHeader, id)

		ctx.Next()
	}
}

func GenerateReqID() string {
	return uuid.NewString()
}
