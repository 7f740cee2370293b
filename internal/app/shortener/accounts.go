package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Accounts 注册用户，用账号密码换 token
type Accounts interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

type AccountService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAccountService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 创建用户并返回它的 token
func (a *AccountService) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if _, err := a.users.FindByEmail(ctx, email); err == nil {
		return "", ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("find by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := User{Email: email, PasswordHash: hash}
	if err := a.users.Create(ctx, &u); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return a.issue(u.ID)
}

// Authenticate 邮箱不存在返回 ErrNotFound，密码错误返回 ErrInvalidCredentials
func (a *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("find by email: %w", err)
	}
	if err := a.hasher.Compare(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.issue(u.ID)
}

func (a *AccountService) issue(userID string) (string, error) {
	token, err := a.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
