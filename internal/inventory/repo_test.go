package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgiliath-dev/tradepost/pkg/config"
	"github.com/osgiliath-dev/tradepost/pkg/db"
)

const inventorySchema = `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, item_name)
);
`

func setupInventoryDB(t *testing.T) *Repository {
	t.Helper()

	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(inventorySchema).Error)
	return NewRepository(client.DB())
}

func TestQuantityAbsentRowReadsZero(t *testing.T) {
	repo := setupInventoryDB(t)
	qty, err := repo.Quantity(context.Background(), uuid.New(), "palantir")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestGrantUpsertsExistingRow(t *testing.T) {
	repo := setupInventoryDB(t)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, repo.Grant(ctx, owner, "arrow", 10))
	require.NoError(t, repo.Grant(ctx, owner, "arrow", 5))

	qty, err := repo.Quantity(ctx, owner, "arrow")
	require.NoError(t, err)
	assert.Equal(t, 15, qty)

	// A second item gets its own row; the first is untouched.
	require.NoError(t, repo.Grant(ctx, owner, "bow", 1))
	rows, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "arrow", rows[0].ItemName)
	assert.Equal(t, "bow", rows[1].ItemName)
}

func TestTakeIfAvailableGuardsTheFloor(t *testing.T) {
	repo := setupInventoryDB(t)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, repo.Grant(ctx, owner, "lembas", 3))

	taken, err := repo.TakeIfAvailable(ctx, owner, "lembas", 4)
	require.NoError(t, err)
	assert.False(t, taken)

	// Exact drain succeeds and leaves a zero row rather than deleting it.
	taken, err = repo.TakeIfAvailable(ctx, owner, "lembas", 3)
	require.NoError(t, err)
	assert.True(t, taken)

	rows, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Quantity)

	// The zero row refuses further decrements.
	taken, err = repo.TakeIfAvailable(ctx, owner, "lembas", 1)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestAdjustRoutesDeltas(t *testing.T) {
	repo := setupInventoryDB(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, svc.Adjust(ctx, owner, "pipe", 2))
	require.NoError(t, svc.Adjust(ctx, owner, "pipe", -1))

	qty, err := svc.Quantity(ctx, owner, "pipe")
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	err = svc.Adjust(ctx, owner, "pipe", -2)
	assert.ErrorIs(t, err, ErrUnderflow)

	// No-op delta is accepted.
	require.NoError(t, svc.Adjust(ctx, owner, "pipe", 0))
}

func TestAdjustValidatesInput(t *testing.T) {
	repo := setupInventoryDB(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, svc.Adjust(ctx, uuid.Nil, "pipe", 1))
	assert.Error(t, svc.Adjust(ctx, uuid.New(), "", 1))
}
