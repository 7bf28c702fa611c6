package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestStore_AddAndHas(t *testing.T) {
	store := newTestStore(t)

	has, err := store.Has("order_01.txt")
	require.NoError(t, err)
	assert.False(t, has)

	added, err := store.Add("order_01.txt")
	require.NoError(t, err)
	assert.True(t, added)

	has, err = store.Has("order_01.txt")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStore_AddIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Add("order_01.txt")
	require.NoError(t, err)
	assert.True(t, added)

	// Re-adding the same name changes nothing.
	added, err = store.Add("order_01.txt")
	require.NoError(t, err)
	assert.False(t, added)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_AddRejectsEmptyName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add("")
	assert.Error(t, err)
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add("order_01.txt")
	require.NoError(t, err)

	removed, err := store.Remove("order_01.txt")
	require.NoError(t, err)
	assert.True(t, removed)

	has, err := store.Has("order_01.txt")
	require.NoError(t, err)
	assert.False(t, has)

	removed, err = store.Remove("order_01.txt")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_ClearAndAll(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := store.Add(name)
		require.NoError(t, err)
	}

	all, err := store.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, all)

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Settings(t *testing.T) {
	store := newTestStore(t)

	v, err := store.GetSetting("sync_interval", "15")
	require.NoError(t, err)
	assert.Equal(t, "15", v)

	require.NoError(t, store.SetSetting("sync_interval", "30"))
	v, err = store.GetSetting("sync_interval", "15")
	require.NoError(t, err)
	assert.Equal(t, "30", v)

	// Upsert replaces.
	require.NoError(t, store.SetSetting("sync_interval", "5"))
	v, err = store.GetSetting("sync_interval", "15")
	require.NoError(t, err)
	assert.Equal(t, "5", v)

	require.NoError(t, store.DeleteSetting("sync_interval"))
	v, err = store.GetSetting("sync_interval", "15")
	require.NoError(t, err)
	assert.Equal(t, "15", v)
}
