package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "state.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestDBTierRoundTrip(t *testing.T) {
	ctx := context.Background()
	tier := NewDBTier(openTestDB(t))
	require.NoError(t, tier.Migrate(ctx))

	_, ok, err := tier.Get(ctx, "c1", KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tier.Put(ctx, "c1", KeyCart, []byte(`{"total":"10"}`)))
	require.NoError(t, tier.Put(ctx, "c1", KeyCart, []byte(`{"total":"20"}`)))

	b, ok, err := tier.Get(ctx, "c1", KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"total":"20"}`, string(b))

	_, ok, err = tier.Get(ctx, "c2", KeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "scopes are isolated")

	require.NoError(t, tier.Delete(ctx, "c1", KeyCart))
	_, ok, err = tier.Get(ctx, "c1", KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}
