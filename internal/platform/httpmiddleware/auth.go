package httpmiddleware

import (
	"net/http"
	"strings"

	"linkcut.local/gee"
	"linkcut.local/internal/platform/auth"
)

// parseBearer 取出 "Bearer <token>" 里的 token，格式不对返回空串
func parseBearer(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

func verifyRequest(ts auth.TokenService, ctx *gee.Context) (auth.Identity, string) {
	header := ctx.Req.Header.Get("Authorization")
	if header == "" {
		return auth.Identity{}, "missing authorization header"
	}
	token := parseBearer(header)
	if token == "" {
		return auth.Identity{}, "invalid authorization format"
	}
	claims, err := ts.Verify(token)
	if err != nil {
		return auth.Identity{}, "invalid token"
	}
	return auth.Identity{UserID: claims.UserID}, ""
}

// AuthRequired 没有有效 token 直接 401
func AuthRequired(ts auth.TokenService) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id, problem := verifyRequest(ts, ctx)
		if problem != "" {
			ctx.AbortWithError(http.StatusUnauthorized, problem)
			return
		}
		ctx.Req = ctx.Req.WithContext(auth.WithIdentity(ctx.Req.Context(), id))
		ctx.Next()
	}
}

// AuthOptional 有有效 token 就带上身份，否则按匿名继续
func AuthOptional(ts auth.TokenService) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		if id, problem := verifyRequest(ts, ctx); problem == "" {
			ctx.Req = ctx.Req.WithContext(auth.WithIdentity(ctx.Req.Context(), id))
		}
		ctx.Next()
	}
}
