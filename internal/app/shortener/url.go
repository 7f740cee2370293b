// Package shortener 短链领域层：实体、存储端口、短码发放、跳转解析和按归属修改
package shortener

import "time"

// URL 短链。匿名创建的 OwnerID 为 nil，被删除后 DeletedAt 非 nil
type URL struct {
	ID          string
	OriginalURL string
	Code        string
	OwnerID     *string
	Clicks      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted 是否已软删除
func (u URL) Deleted() bool {
	return u.DeletedAt != nil
}

// OwnedBy userID 是否为记录的归属者；匿名调用者在 checkOwnerCall 里已被拒绝
func (u URL) OwnedBy(userID string) bool {
	return u.OwnerID != nil && *u.OwnerID == userID
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
