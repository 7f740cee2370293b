package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const DefaultMaxAttempts = 10

// Creator 和 Resolver 是对外公开的两个操作
type Creator interface {
	Shorten(ctx context.Context, originalURL string, caller *Identity) (string, error)
}

type Resolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// OwnerURLs 只作用于调用者自己的链接
type OwnerURLs interface {
	ListByOwner(ctx context.Context, caller Identity) ([]URL, error)
	UpdateByOwner(ctx context.Context, caller Identity, urlID, newOriginalURL string) error
	RemoveByOwner(ctx context.Context, caller Identity, urlID string) error
}

type URLService struct {
	urls        URLStore
	gen         CodeGenerator
	filter      CodeFilter
	rec         Recorder
	maxAttempts int
}

type Option func(*URLService)

func WithMaxAttempts(n int) Option {
	return func(s *URLService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithCodeFilter(f CodeFilter) Option {
	return func(s *URLService) { s.filter = f }
}

func WithRecorder(r Recorder) Option {
	return func(s *URLService) {
		if r != nil {
			s.rec = r
		}
	}
}

func NewURLService(urls URLStore, gen CodeGenerator, opts ...Option) *URLService {
	if gen == nil {
		gen = HexGenerator{}
	}
	s := &URLService{
		urls:        urls,
		gen:         gen,
		rec:         nopRecorder{},
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shorten 返回 originalURL 对应的未删除链接的短码，没有就新建一条。
// 同一个 url 并发调用时可能各建一行
func (s *URLService) Shorten(ctx context.Context, originalURL string, caller *Identity) (string, error) {
	existing, err := s.urls.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		s.rec.Shortened(true)
		return existing.Code, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("find by original url: %w", err)
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.gen.Generate()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		free, err := s.codeFree(ctx, code)
		if err != nil {
			return "", err
		}
		if !free {
			s.rec.CodeCollision()
			continue
		}

		u := URL{
			OriginalURL: originalURL,
			Code:        code,
			OwnerID:     caller.OwnerRef(),
		}
		if err := s.urls.Create(ctx, &u); err != nil {
			if errors.Is(err, ErrCodeTaken) {
				// 并发抢输了，或者短码属于已删除的行
				s.markIssued(code)
				s.rec.CodeCollision()
				continue
			}
			return "", fmt.Errorf("create url: %w", err)
		}
		s.markIssued(code)
		s.rec.Shortened(false)
		return code, nil
	}
	return "", ErrExhaustedRetries
}

// codeFree 过滤器没见过的短码直接放行；说可能见过时仍以存储为准
func (s *URLService) codeFree(ctx context.Context, code string) (bool, error) {
	if s.filter != nil && !s.filter.MightExist(code) {
		return true, nil
	}
	_, err := s.urls.FindByCode(ctx, code)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	return false, fmt.Errorf("find by code: %w", err)
}

func (s *URLService) markIssued(code string) {
	if s.filter != nil {
		s.filter.Add(code)
	}
}

// Resolve 计一次点击并返回 original url；计数和读取由存储在一步里完成，
// 已删除或刚被修改的链接不会从缓存里读出旧值
func (s *URLService) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrNotFound
	}
	originalURL, err := s.urls.IncrementClicks(ctx, code)
	if err != nil {
		return "", fmt.Errorf("increment clicks: %w", err)
	}
	return originalURL, nil
}

// ListByOwner 匿名调用者不报错，返回空列表
func (s *URLService) ListByOwner(ctx context.Context, caller Identity) ([]URL, error) {
	if caller.Anonymous() {
		return []URL{}, nil
	}
	urls, err := s.urls.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	if urls == nil {
		urls = []URL{}
	}
	return urls, nil
}

// UpdateByOwner 替换目标并清零点击数。别人的链接和不存在的链接一样返回 ErrNotFound
func (s *URLService) UpdateByOwner(ctx context.Context, caller Identity, urlID, newOriginalURL string) error {
	urlID, err := checkOwnerCall(caller, urlID)
	if err != nil {
		return err
	}
	ok, err := s.urls.UpdateOwned(ctx, caller.UserID, urlID, newOriginalURL)
	if err != nil {
		return fmt.Errorf("update owned: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// RemoveByOwner 软删除，短码不会再被发出
func (s *URLService) RemoveByOwner(ctx context.Context, caller Identity, urlID string) error {
	urlID, err := checkOwnerCall(caller, urlID)
	if err != nil {
		return err
	}
	ok, err := s.urls.RemoveOwned(ctx, caller.UserID, urlID)
	if err != nil {
		return fmt.Errorf("remove owned: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// checkOwnerCall 先拒绝匿名调用者再校验 id，返回小写的 id
func checkOwnerCall(caller Identity, urlID string) (string, error) {
	if caller.Anonymous() {
		return "", ErrUnauthorized
	}
	if err := ValidateID(urlID); err != nil {
		return "", err
	}
	return strings.ToLower(urlID), nil
}
