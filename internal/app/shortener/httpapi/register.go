// Package httpapi 基于 gee 路由对外提供 HTTP 接口，只负责请求和错误的转换，规则都在 shortener 包里
package httpapi

import (
	"linkcut.local/gee"
	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/platform/auth"
	"linkcut.local/internal/platform/httpmiddleware"
)

// URLService 链接相关路由需要的全部领域操作
type URLService interface {
	shortener.Creator
	shortener.Resolver
	shortener.OwnerURLs
}

type Deps struct {
	URLs     URLService
	Accounts shortener.Accounts
	Tokens   auth.TokenService
	// PublicBaseURL 为空时按请求的 Host 拼短链
	PublicBaseURL string
}

// RegisterRoutes 挂载全部路由。跳转入口 /:code 是通配，静态路由优先匹配。
func RegisterRoutes(engine *gee.Engine, d Deps) {
	urls := engine.Group("/url")
	urls.POST("/shorten", httpmiddleware.AuthOptional(d.Tokens), NewShortenHandler(d.URLs, d.PublicBaseURL))

	mine := urls.Group("/user")
	mine.Use(httpmiddleware.AuthRequired(d.Tokens))
	mine.GET("", NewListHandler(d.URLs))
	mine.PATCH("/:id", NewUpdateHandler(d.URLs))
	mine.DELETE("/:id", NewRemoveHandler(d.URLs))

	users := engine.Group("/user")
	users.POST("", NewRegisterHandler(d.Accounts))
	users.POST("/auth", NewAuthenticateHandler(d.Accounts))

	engine.GET("/:code", NewRedirectHandler(d.URLs))
}
