package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkcut.local/gee"
	"linkcut.local/internal/platform/auth"
)

func newEngine(t *testing.T, mw func(auth.TokenService) gee.HandlerFunc) (*gee.Engine, auth.TokenService) {
	t.Helper()
	ts, err := auth.NewHS256Service("secret", "issuer", time.Hour)
	if err != nil {
		t.Fatalf("NewHS256Service: %v", err)
	}
	r := gee.New()
	r.Use(gee.Recovery())
	g := r.Group("/me")
	g.Use(mw(ts))
	g.GET("", func(ctx *gee.Context) {
		id, ok := auth.GetIdentity(ctx.Req.Context())
		ctx.JSON(http.StatusOK, map[string]any{"user_id": id.UserID, "ok": ok})
	})
	return r, ts
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer", ""},
		{"Basic abc", ""},
		{"Bearer a b", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseBearer(tt.in); got != tt.want {
			t.Errorf("parseBearer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	r, ts := newEngine(t, AuthRequired)
	token, err := ts.Sign("u-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"bad format", "Token " + token, http.StatusUnauthorized, "invalid authorization format"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"ok", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d, body=%q", rec.Code, tt.status, rec.Body.String())
			}
			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.status != http.StatusOK {
				if body["message"] != tt.msg {
					t.Fatalf("message: got %v, want %q", body["message"], tt.msg)
				}
				return
			}
			if body["user_id"] != "u-1" || body["ok"] != true {
				t.Fatalf("identity: got %v", body)
			}
		})
	}
}

func TestAuthOptional(t *testing.T) {
	r, ts := newEngine(t, AuthOptional)
	token, err := ts.Sign("u-2")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name   string
		header string
		userID string
		ok     bool
	}{
		{"anonymous", "", "", false},
		{"invalid token is anonymous", "Bearer nope", "", false},
		{"valid", "Bearer " + token, "u-2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["user_id"] != tt.userID || body["ok"] != tt.ok {
				t.Fatalf("identity: got %v", body)
			}
		})
	}
}
