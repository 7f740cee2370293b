package httpapi

import (
	"strings"

	"linkcut.local/gee"
	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/platform/auth"
)

// identityFrom 没有身份时返回零值（匿名）
func identityFrom(ctx *gee.Context) shortener.Identity {
	id, ok := auth.GetIdentity(ctx.Req.Context())
	if !ok {
		return shortener.Identity{}
	}
	return shortener.Identity{UserID: id.UserID}
}

// optionalIdentity 匿名时返回 nil
func optionalIdentity(ctx *gee.Context) *shortener.Identity {
	id := identityFrom(ctx)
	if id.Anonymous() {
		return nil
	}
	return &id
}

// baseURL 优先用配置的公开地址，否则按代理头和 Host 推断
func baseURL(ctx *gee.Context, public string) string {
	if public != "" {
		return strings.TrimRight(public, "/")
	}
	scheme := "http"
	if ctx.Req.TLS != nil {
		scheme = "https"
	}
	if p := ctx.Req.Header.Get("X-Forwarded-Proto"); p != "" {
		// 可能是 "https, http" 这种多级代理的形式
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	return scheme + "://" + ctx.Req.Host
}
