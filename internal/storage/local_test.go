package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTier(t *testing.T) {
	ctx := context.Background()
	tier := NewFileTier(t.TempDir())

	_, ok, err := tier.Get(ctx, "c1", KeyRecentOrder)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tier.Put(ctx, "c1", KeyRecentOrder, []byte(`{"orderId":"o1"}`)))
	b, ok, err := tier.Get(ctx, "c1", KeyRecentOrder)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"orderId":"o1"}`, string(b))

	require.NoError(t, tier.Delete(ctx, "c1", KeyRecentOrder))
	require.NoError(t, tier.Delete(ctx, "c1", KeyRecentOrder), "deleting a missing record is fine")
}

func TestFileTierConfinesPaths(t *testing.T) {
	tier := NewFileTier("/srv/state")
	assert.Equal(t, "/srv/state/passwd/cart.json", tier.path("../../etc/passwd", "cart"))
}

func TestFileTierRejectsDotScopes(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	tier := NewFileTier(base + "/state")

	for _, scope := range []string{".", ".."} {
		assert.ErrorIs(t, tier.Put(ctx, scope, KeyCart, []byte(`{}`)), ErrInvalidScope, scope)
		_, _, err := tier.Get(ctx, scope, KeyCart)
		assert.ErrorIs(t, err, ErrInvalidScope, scope)
		assert.ErrorIs(t, tier.Delete(ctx, scope, KeyCart), ErrInvalidScope, scope)
	}
	assert.ErrorIs(t, tier.Put(ctx, "c1", "..", []byte(`{}`)), ErrInvalidScope)
	assert.NoFileExists(t, base+"/cart.json")
}
