// Package memstore 进程内存储，用于 memory 驱动和测试
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkcut.local/internal/app/shortener"
)

type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	urls   []*shortener.URL // 按插入顺序
	byID   map[string]*shortener.URL
	byCode map[string]*shortener.URL // 含已删除的行
	users  map[string]*shortener.User
	emails map[string]string
}

func New() *Store {
	return &Store{
		now:    time.Now,
		byID:   make(map[string]*shortener.URL),
		byCode: make(map[string]*shortener.URL),
		users:  make(map[string]*shortener.User),
		emails: make(map[string]string),
	}
}

// URLs 和 Users 是同一个 store 的两个端口
func (s *Store) URLs() *URLs   { return &URLs{s} }
func (s *Store) Users() *Users { return &Users{s} }

type URLs struct{ s *Store }

type Users struct{ s *Store }

func clone(u *shortener.URL) shortener.URL {
	c := *u
	if u.OwnerID != nil {
		id := *u.OwnerID
		c.OwnerID = &id
	}
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		c.DeletedAt = &t
	}
	return c
}

func (r *URLs) Create(_ context.Context, u *shortener.URL) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[u.Code]; taken {
		return shortener.ErrCodeTaken
	}
	now := s.now()
	u.ID = uuid.NewString()
	u.Clicks = 0
	u.CreatedAt, u.UpdatedAt = now, now
	u.DeletedAt = nil

	row := clone(u)
	s.urls = append(s.urls, &row)
	s.byID[row.ID] = &row
	s.byCode[row.Code] = &row
	return nil
}

func (r *URLs) FindByCode(_ context.Context, code string) (shortener.URL, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byCode[code]
	if !ok || row.Deleted() {
		return shortener.URL{}, shortener.ErrNotFound
	}
	return clone(row), nil
}

func (r *URLs) FindByOriginalURL(_ context.Context, originalURL string) (shortener.URL, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.urls {
		if !row.Deleted() && row.OriginalURL == originalURL {
			return clone(row), nil
		}
	}
	return shortener.URL{}, shortener.ErrNotFound
}

func (r *URLs) IncrementClicks(_ context.Context, code string) (string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byCode[code]
	if !ok || row.Deleted() {
		return "", shortener.ErrNotFound
	}
	row.Clicks++
	return row.OriginalURL, nil
}

func (r *URLs) ListByOwner(_ context.Context, ownerID string) ([]shortener.URL, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []shortener.URL{}
	for _, row := range s.urls {
		if !row.Deleted() && row.OwnedBy(ownerID) {
			out = append(out, clone(row))
		}
	}
	return out, nil
}

func (r *URLs) UpdateOwned(_ context.Context, ownerID, urlID, newOriginalURL string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.owned(ownerID, urlID)
	if !ok {
		return false, nil
	}
	row.OriginalURL = newOriginalURL
	row.Clicks = 0
	row.UpdatedAt = s.now()
	return true, nil
}

func (r *URLs) RemoveOwned(_ context.Context, ownerID, urlID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.owned(ownerID, urlID)
	if !ok {
		return false, nil
	}
	now := s.now()
	row.DeletedAt = &now
	row.UpdatedAt = now
	return true, nil
}

// owned 调用方需持有 s.mu
func (s *Store) owned(ownerID, urlID string) (*shortener.URL, bool) {
	row, ok := s.byID[urlID]
	if !ok || row.Deleted() || !row.OwnedBy(ownerID) {
		return nil, false
	}
	return row, true
}

// Lookup 按 id 读取，包括已软删除的行
func (r *URLs) Lookup(id string) (shortener.URL, bool) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byID[id]
	if !ok {
		return shortener.URL{}, false
	}
	return clone(row), true
}

// EachCode 遍历所有发出过的短码，含已删除的行
func (r *URLs) EachCode(_ context.Context, fn func(code string)) error {
	s := r.s
	s.mu.Lock()
	codes := make([]string, 0, len(s.urls))
	for _, row := range s.urls {
		codes = append(codes, row.Code)
	}
	s.mu.Unlock()

	for _, c := range codes {
		fn(c)
	}
	return nil
}

func (r *Users) Create(_ context.Context, u *shortener.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[u.Email]; exists {
		return shortener.ErrAlreadyExists
	}
	now := s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now

	row := *u
	s.users[row.ID] = &row
	s.emails[row.Email] = row.ID
	return nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (shortener.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return shortener.User{}, shortener.ErrNotFound
	}
	return *s.users[id], nil
}

var (
	_ shortener.URLStore  = (*URLs)(nil)
	_ shortener.UserStore = (*Users)(nil)
)
