// Package repo 通过 pgx 把链接和用户存进 Postgres
package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/app/shortener/cache"
)

const (
	uniqueViolation   = "23505"
	codeConstraint    = "urls_code_key"
	urlColumns        = "id::text, original_url, code, clicks, user_id::text, created_at, updated_at, deleted_at"
	cacheTimeout      = 50 * time.Millisecond
	queryTimeout      = 3 * time.Second
	shortQueryTimeout = 1 * time.Second
)

type URLsRepo struct {
	db    *pgxpool.Pool
	cache *cache.URLCache // nil 表示不走缓存
}

func NewURLsRepo(db *pgxpool.Pool, c *cache.URLCache) *URLsRepo {
	return &URLsRepo{db: db, cache: c}
}

func scanURL(row pgx.Row) (shortener.URL, error) {
	var u shortener.URL
	err := row.Scan(&u.ID, &u.OriginalURL, &u.Code, &u.Clicks, &u.OwnerID, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	return u, err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

func (r *URLsRepo) Create(ctx context.Context, u *shortener.URL) error {
	dbctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(dbctx,
		"INSERT INTO urls (original_url, code, user_id) VALUES ($1, $2, $3) RETURNING id::text, clicks, created_at, updated_at",
		u.OriginalURL, u.Code, u.OwnerID,
	).Scan(&u.ID, &u.Clicks, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, codeConstraint) {
			return shortener.ErrCodeTaken
		}
		slog.Error(err.Error())
		return err
	}
	u.DeletedAt = nil

	// 覆盖可能存在的负缓存，否则新短码要等负缓存过期才能访问
	if r.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
		defer cancel()
		if err := r.cache.Set(cacheCtx, *u); err != nil {
			slog.Warn("cache set failed", "code", u.Code, "err", err)
		}
	}
	return nil
}

// FindByCode 走两级缓存。命中的记录可能落后于别的实例上的修改，
// 但短码一旦发出就不会释放，用来判断占用不受影响
func (r *URLsRepo) FindByCode(ctx context.Context, code string) (shortener.URL, error) {
	if r.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
		u, st, err := r.cache.Get(cacheCtx, code)
		cancel()
		switch {
		case err != nil:
			slog.Warn("cache get failed", "code", code, "err", err)
		case st == cache.Hit:
			return u, nil
		case st == cache.Negative:
			return shortener.URL{}, shortener.ErrNotFound
		}
	}

	dbctx, cancel := context.WithTimeout(ctx, shortQueryTimeout)
	defer cancel()
	u, err := scanURL(r.db.QueryRow(dbctx,
		"SELECT "+urlColumns+" FROM urls WHERE code=$1 AND deleted_at IS NULL", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.cacheNotFound(ctx, code)
			return shortener.URL{}, shortener.ErrNotFound
		}
		slog.Error(err.Error())
		return shortener.URL{}, err
	}

	if r.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
		defer cancel()
		if err := r.cache.Set(cacheCtx, u); err != nil {
			slog.Warn("cache set failed", "code", code, "err", err)
		}
	}
	return u, nil
}

func (r *URLsRepo) cacheNotFound(ctx context.Context, code string) {
	if r.cache == nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	if err := r.cache.SetNotFound(cacheCtx, code); err != nil {
		slog.Warn("cache set not found failed", "code", code, "err", err)
	}
}

func (r *URLsRepo) evict(ctx context.Context, code string) {
	if r.cache == nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	if err := r.cache.Delete(cacheCtx, code); err != nil {
		slog.Warn("cache delete failed", "code", code, "err", err)
	}
}

// FindByOriginalURL 同一个 url 理论上可能有多行（并发创建），取最早的一行
func (r *URLsRepo) FindByOriginalURL(ctx context.Context, originalURL string) (shortener.URL, error) {
	dbctx, cancel := context.WithTimeout(ctx, shortQueryTimeout)
	defer cancel()

	u, err := scanURL(r.db.QueryRow(dbctx,
		"SELECT "+urlColumns+" FROM urls WHERE original_url=$1 AND deleted_at IS NULL ORDER BY created_at LIMIT 1",
		originalURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shortener.URL{}, shortener.ErrNotFound
		}
		slog.Error(err.Error())
		return shortener.URL{}, err
	}
	return u, nil
}

// IncrementClicks 计数和读取在同一条 UPDATE ... RETURNING 里完成，以库为准。
// 缓存只用负缓存挡住不存在的短码，正向记录可能是别的实例修改或删除之前的旧值
func (r *URLsRepo) IncrementClicks(ctx context.Context, code string) (string, error) {
	if r.knownMissing(ctx, code) {
		return "", shortener.ErrNotFound
	}

	dbctx, cancel := context.WithTimeout(ctx, shortQueryTimeout)
	defer cancel()

	var target string
	err := r.db.QueryRow(dbctx,
		"UPDATE urls SET clicks = clicks + 1 WHERE code=$1 AND deleted_at IS NULL RETURNING original_url",
		code).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.cacheNotFound(ctx, code)
			return "", shortener.ErrNotFound
		}
		slog.Error(err.Error())
		return "", err
	}
	return target, nil
}

func (r *URLsRepo) knownMissing(ctx context.Context, code string) bool {
	if r.cache == nil {
		return false
	}
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	_, st, err := r.cache.Get(cacheCtx, code)
	if err != nil {
		slog.Warn("cache get failed", "code", code, "err", err)
		return false
	}
	return st == cache.Negative
}

func (r *URLsRepo) ListByOwner(ctx context.Context, ownerID string) ([]shortener.URL, error) {
	dbctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(dbctx,
		"SELECT "+urlColumns+" FROM urls WHERE user_id=$1 AND deleted_at IS NULL ORDER BY created_at", ownerID)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	defer rows.Close()

	result := []shortener.URL{}
	for rows.Next() {
		u, err := scanURL(rows)
		if err != nil {
			slog.Error(err.Error())
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	return result, nil
}

// UpdateOwned 归属校验和修改在同一条 UPDATE 里完成
func (r *URLsRepo) UpdateOwned(ctx context.Context, ownerID, urlID, newOriginalURL string) (bool, error) {
	dbctx, cancel := context.WithTimeout(ctx, shortQueryTimeout)
	defer cancel()

	var code string
	err := r.db.QueryRow(dbctx, `
		UPDATE urls SET original_url=$1, clicks=0, updated_at=NOW()
		WHERE id=$2 AND user_id=$3 AND deleted_at IS NULL
		RETURNING code`, newOriginalURL, urlID, ownerID).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		slog.Error(err.Error())
		return false, err
	}
	r.evict(ctx, code)
	return true, nil
}

// RemoveOwned 软删除；短码保留在表里，不会再被发出
func (r *URLsRepo) RemoveOwned(ctx context.Context, ownerID, urlID string) (bool, error) {
	dbctx, cancel := context.WithTimeout(ctx, shortQueryTimeout)
	defer cancel()

	var code string
	err := r.db.QueryRow(dbctx, `
		UPDATE urls SET deleted_at=NOW(), updated_at=NOW()
		WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL
		RETURNING code`, urlID, ownerID).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		slog.Error(err.Error())
		return false, err
	}
	r.evict(ctx, code)
	return true, nil
}

// EachCode 遍历所有发出过的短码（含已删除），用于启动时预热布隆过滤器
func (r *URLsRepo) EachCode(ctx context.Context, fn func(code string)) error {
	rows, err := r.db.Query(ctx, "SELECT code FROM urls")
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		fn(code)
	}
	return rows.Err()
}

var _ shortener.URLStore = (*URLsRepo)(nil)
