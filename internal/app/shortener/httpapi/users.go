package httpapi

import (
	"net/http"

	"linkcut.local/gee"
	"linkcut.local/internal/app/shortener"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,max=72"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func NewRegisterHandler(accounts shortener.Accounts) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req CredentialsRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		token, err := accounts.Register(ctx.Req.Context(), req.Email, req.Password)
		if err != nil {
			fail(ctx, err, msgUserNotFound)
			return
		}
		ctx.JSON(http.StatusCreated, TokenResponse{Token: token})
	}
}

func NewAuthenticateHandler(accounts shortener.Accounts) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req CredentialsRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		token, err := accounts.Authenticate(ctx.Req.Context(), req.Email, req.Password)
		if err != nil {
			fail(ctx, err, msgUserNotFound)
			return
		}
		ctx.JSON(http.StatusOK, TokenResponse{Token: token})
	}
}
