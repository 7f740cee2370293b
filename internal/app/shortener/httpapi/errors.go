package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"linkcut.local/gee"
	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/platform/auth"
)

const (
	msgURLNotFound       = "URL not found"
	msgNotOwned          = "The url does not exist or does not belong to you"
	msgUserNotFound      = "User not found"
	msgInvalidID         = "Invalid URL ID"
	msgNoPermission      = "User without permission"
	msgUserExists        = "User already exists"
	msgInvalidCredential = "Invalid email or password"
	msgUnexpected        = "Unexpected error"
)

// fail 把领域错误翻译成响应。notFound 是当前接口对 ErrNotFound 的文案。
func fail(ctx *gee.Context, err error, notFound string) {
	switch {
	case errors.Is(err, shortener.ErrNotFound):
		ctx.AbortWithError(http.StatusNotFound, notFound)
	case errors.Is(err, shortener.ErrInvalidID):
		ctx.AbortWithError(http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, shortener.ErrUnauthorized):
		ctx.AbortWithError(http.StatusForbidden, msgNoPermission)
	case errors.Is(err, shortener.ErrAlreadyExists):
		ctx.AbortWithError(http.StatusNotAcceptable, msgUserExists)
	case errors.Is(err, shortener.ErrInvalidCredentials):
		ctx.AbortWithError(http.StatusForbidden, msgInvalidCredential)
	case errors.Is(err, shortener.ErrInvalidURL), errors.Is(err, auth.ErrPasswordTooLong):
		ctx.AbortWithError(http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("request failed",
			"request_id", ctx.RequestID(),
			"method", ctx.Method,
			"path", ctx.Path,
			"err", err,
		)
		ctx.AbortWithError(http.StatusInternalServerError, msgUnexpected)
	}
}
