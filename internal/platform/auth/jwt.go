package auth

import (
	"errors"
	"time"
)

type Claims struct {
	UserID string
}

type TokenService interface {
	Sign(userID string) (string, error)
	Verify(token string) (Claims, error)
}

func NewHS256Service(secret, issuer string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if issuer == "" {
		return nil, errors.New("jwt issuer is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be > 0")
	}
	return &hs256Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issuer 把 TokenService 适配成 shortener.TokenIssuer
type Issuer struct {
	Tokens TokenService
}

func (i Issuer) Issue(userID string) (string, error) {
	return i.Tokens.Sign(userID)
}
