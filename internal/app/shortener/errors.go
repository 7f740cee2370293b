package shortener

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrExhaustedRetries   = errors.New("code generation exhausted retries")
)

var ErrInvalidURL = errors.New("invalid url")

// ErrCodeTaken URLStore.Create 发现短码已被其他行占用（含已删除的行）
var ErrCodeTaken = errors.New("code already taken")
