package shortener

import "context"

// URLStore 链接存储。查询不返回软删除的行，查不到统一返回 ErrNotFound
type URLStore interface {
	// Create 回填 u 的 ID 和时间戳；短码被占用时返回 ErrCodeTaken
	Create(ctx context.Context, u *URL) error
	// FindByCode 可能读到缓存里稍旧的记录，只适合判断短码是否已被占用
	FindByCode(ctx context.Context, code string) (URL, error)
	FindByOriginalURL(ctx context.Context, originalURL string) (URL, error)
	// IncrementClicks 对未删除的行原子 +1，并返回同一时刻的 original url。
	// 没有这样的行时返回 ErrNotFound
	IncrementClicks(ctx context.Context, code string) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]URL, error)
	// UpdateOwned 替换 original url 并清零点击数；ownerID 和 urlID 都对不上时返回 false
	UpdateOwned(ctx context.Context, ownerID, urlID, newOriginalURL string) (bool, error)
	// RemoveOwned 软删除匹配的行
	RemoveOwned(ctx context.Context, ownerID, urlID string) (bool, error)
}

// UserStore 账号存储；邮箱重复时 Create 返回 ErrAlreadyExists
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (User, error)
}

// PasswordHasher 和 TokenIssuer 由身份模块提供
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare 密码和 hash 不匹配时返回非 nil
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// CodeFilter 快速判断短码"可能已发出"。
// false 时跳过存储查询直接 Create，由 ErrCodeTaken 兜底；true 可能是误判，仍要查存储
type CodeFilter interface {
	MightExist(code string) bool
	Add(code string)
}

// Recorder 接收领域事件，用于打点
type Recorder interface {
	CodeCollision()
	Shortened(reused bool)
}

type nopRecorder struct{}

func (nopRecorder) CodeCollision()   {}
func (nopRecorder) Shortened(_ bool) {}
