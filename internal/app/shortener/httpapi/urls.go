package httpapi

import (
	"net/http"
	"strings"
	"time"

	"linkcut.local/gee"
	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/platform/metrics"
)

type ShortenRequest struct {
	OriginalURL string `json:"originalUrl" validate:"required,max=2048"`
}

type ShortenResponse struct {
	URL string `json:"url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type URLResponse struct {
	ID          string     `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	Code        string     `json:"code"`
	UserID      *string    `json:"userId"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

func toURLResponse(u shortener.URL) URLResponse {
	return URLResponse{
		ID:          u.ID,
		OriginalURL: u.OriginalURL,
		Code:        u.Code,
		UserID:      u.OwnerID,
		Clicks:      u.Clicks,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		DeletedAt:   u.DeletedAt,
	}
}

// bindURL 解析 {originalUrl}，去掉首尾空白后做 URL 格式校验，失败时已写响应。
// 返回的是 trim 之后的值，去重和落库都用它
func bindURL(ctx *gee.Context) (string, bool) {
	var req ShortenRequest
	if err := ctx.BindJSON(&req); err != nil {
		return "", false
	}
	target := strings.TrimSpace(req.OriginalURL)
	if err := shortener.ValidateURL(target); err != nil {
		ctx.AbortWithError(http.StatusUnprocessableEntity, err.Error())
		return "", false
	}
	return target, true
}

func NewShortenHandler(svc shortener.Creator, publicBase string) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		target, ok := bindURL(ctx)
		if !ok {
			return
		}
		code, err := svc.Shorten(ctx.Req.Context(), target, optionalIdentity(ctx))
		if err != nil {
			fail(ctx, err, msgURLNotFound)
			return
		}
		ctx.JSON(http.StatusCreated, ShortenResponse{URL: baseURL(ctx, publicBase) + "/" + code})
	}
}

func NewRedirectHandler(svc shortener.Resolver) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		target, err := svc.Resolve(ctx.Req.Context(), ctx.Param("code"))
		if err != nil {
			fail(ctx, err, msgURLNotFound)
			return
		}
		metrics.URLRedirects.Inc()
		ctx.Redirect(http.StatusFound, target)
	}
}

func NewListHandler(svc shortener.OwnerURLs) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		urls, err := svc.ListByOwner(ctx.Req.Context(), identityFrom(ctx))
		if err != nil {
			fail(ctx, err, msgURLNotFound)
			return
		}
		res := make([]URLResponse, 0, len(urls))
		for _, u := range urls {
			res = append(res, toURLResponse(u))
		}
		ctx.JSON(http.StatusOK, res)
	}
}

func NewUpdateHandler(svc shortener.OwnerURLs) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		target, ok := bindURL(ctx)
		if !ok {
			return
		}
		if err := svc.UpdateByOwner(ctx.Req.Context(), identityFrom(ctx), ctx.Param("id"), target); err != nil {
			fail(ctx, err, msgNotOwned)
			return
		}
		ctx.JSON(http.StatusOK, MessageResponse{Message: "Url updated successfully"})
	}
}

func NewRemoveHandler(svc shortener.OwnerURLs) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		if err := svc.RemoveByOwner(ctx.Req.Context(), identityFrom(ctx), ctx.Param("id")); err != nil {
			fail(ctx, err, msgNotOwned)
			return
		}
		ctx.Status(http.StatusNoContent)
	}
}
