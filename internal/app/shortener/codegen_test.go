package shortener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexGenerator(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		code, err := HexGenerator{}.Generate()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, c := range code {
			assert.Contains(t, "0123456789abcdef", string(c))
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "codes must not repeat a fixed value")
}

func TestIdentityOwnerRef(t *testing.T) {
	var none *Identity
	assert.Nil(t, none.OwnerRef())
	assert.Nil(t, (&Identity{}).OwnerRef())

	id := &Identity{UserID: "u1"}
	ref := id.OwnerRef()
	require.NotNil(t, ref)
	assert.Equal(t, "u1", *ref)
	id.UserID = "changed"
	assert.Equal(t, "u1", *ref)
}
