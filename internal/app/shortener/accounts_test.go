package shortener_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/app/shortener/memstore"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type idIssuer struct{ issued []string }

func (i *idIssuer) Issue(userID string) (string, error) {
	i.issued = append(i.issued, userID)
	return "token-for-" + userID, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := memstore.New().Users()
	tokens := &idIssuer{}
	svc := shortener.NewAccountService(users, plainHasher{}, tokens)

	token, err := svc.Register(ctx, "  Ada@Example.com ", "s3cret")
	require.NoError(t, err)

	u, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+u.ID, token)
	assert.Equal(t, "hashed:s3cret", u.PasswordHash, "only the hash is stored")

	token, err = svc.Authenticate(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+u.ID, token)
	assert.Equal(t, []string{u.ID, u.ID}, tokens.issued)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := shortener.NewAccountService(memstore.New().Users(), plainHasher{}, &idIssuer{})

	_, err := svc.Register(ctx, "ada@example.com", "one")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "ada@example.com", "two")
	require.ErrorIs(t, err, shortener.ErrAlreadyExists)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc := shortener.NewAccountService(memstore.New().Users(), plainHasher{}, &idIssuer{})
	_, err := svc.Register(ctx, "ada@example.com", "right")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "right")
	require.ErrorIs(t, err, shortener.ErrNotFound)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, shortener.ErrInvalidCredentials)
}
