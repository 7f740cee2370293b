package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcut.local/internal/app/shortener"
)

func ptr(s string) *string { return &s }

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	urls := New().URLs()
	u := shortener.URL{OriginalURL: "https://example.com", Code: "abc123", Clicks: 99}

	require.NoError(t, urls.Create(context.Background(), &u))

	assert.Len(t, u.ID, 36)
	assert.Zero(t, u.Clicks)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestCodeStaysTakenAfterSoftDelete(t *testing.T) {
	ctx := context.Background()
	urls := New().URLs()
	u := shortener.URL{OriginalURL: "https://example.com", Code: "abc123", OwnerID: ptr("owner")}
	require.NoError(t, urls.Create(ctx, &u))

	ok, err := urls.RemoveOwned(ctx, "owner", u.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = urls.FindByCode(ctx, "abc123")
	assert.ErrorIs(t, err, shortener.ErrNotFound)
	_, err = urls.FindByOriginalURL(ctx, "https://example.com")
	assert.ErrorIs(t, err, shortener.ErrNotFound)

	err = urls.Create(ctx, &shortener.URL{OriginalURL: "https://other.example", Code: "abc123"})
	assert.ErrorIs(t, err, shortener.ErrCodeTaken)

	row, ok := urls.Lookup(u.ID)
	require.True(t, ok)
	deletedAt := *row.DeletedAt

	// deletedAt 不会被清掉或改动
	ok, err = urls.RemoveOwned(ctx, "owner", u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = urls.UpdateOwned(ctx, "owner", u.ID, "https://again.example")
	require.NoError(t, err)
	assert.False(t, ok)
	row, _ = urls.Lookup(u.ID)
	assert.Equal(t, deletedAt, *row.DeletedAt)

	var codes []string
	require.NoError(t, urls.EachCode(ctx, func(c string) { codes = append(codes, c) }))
	assert.Equal(t, []string{"abc123"}, codes)
}

func TestIncrementIgnoresDeletedAndUnknown(t *testing.T) {
	ctx := context.Background()
	urls := New().URLs()
	u := shortener.URL{OriginalURL: "https://example.com", Code: "abc123", OwnerID: ptr("owner")}
	require.NoError(t, urls.Create(ctx, &u))

	target, err := urls.IncrementClicks(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)
	_, err = urls.IncrementClicks(ctx, "zzzzzz")
	assert.ErrorIs(t, err, shortener.ErrNotFound)
	_, err = urls.RemoveOwned(ctx, "owner", u.ID)
	require.NoError(t, err)
	_, err = urls.IncrementClicks(ctx, "abc123")
	assert.ErrorIs(t, err, shortener.ErrNotFound)

	row, _ := urls.Lookup(u.ID)
	assert.EqualValues(t, 1, row.Clicks)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	urls := New().URLs()
	require.NoError(t, urls.Create(ctx, &shortener.URL{OriginalURL: "https://example.com", Code: "abc123", OwnerID: ptr("owner")}))

	got, err := urls.FindByCode(ctx, "abc123")
	require.NoError(t, err)
	*got.OwnerID = "someone else"
	got.OriginalURL = "https://evil.example"

	list, err := urls.ListByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://example.com", list[0].OriginalURL)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := shortener.User{Email: "ada@example.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, &u))
	assert.NotEmpty(t, u.ID)

	assert.ErrorIs(t, users.Create(ctx, &shortener.User{Email: "ada@example.com"}), shortener.ErrAlreadyExists)

	got, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shortener.ErrNotFound)
}

func TestBlankOwnerMatchesNothing(t *testing.T) {
	ctx := context.Background()
	urls := New().URLs()
	u := shortener.URL{OriginalURL: "https://anon.example", Code: "abc123"}
	require.NoError(t, urls.Create(ctx, &u))

	list, err := urls.ListByOwner(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err := urls.RemoveOwned(ctx, "", u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
