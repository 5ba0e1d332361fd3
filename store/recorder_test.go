package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A recording fork must behave like any other cache wrap, so simulations
// see the same state a real run would.
func TestRecordingStoreCache(t *testing.T) {
	NewTestSuite(func() (CacheableKVStore, func()) {
		return NewRecordingStore(MemStore().CacheWrap()), func() {}
	}).Run(t)
}

func TestRecordingStore(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("balance"), []byte("10")))
	require.NoError(t, base.Set([]byte("owner"), []byte("alice")))

	rec := NewRecordingStore(base.CacheWrap())

	val, err := rec.Get([]byte("balance"))
	require.NoError(t, err)
	assert.Equal(t, []byte("10"), val)

	require.NoError(t, rec.Set([]byte("balance"), []byte("7")))
	require.NoError(t, rec.Delete([]byte("owner")))

	// a savepoint written back is traced too
	savepoint := rec.CacheWrap()
	require.NoError(t, savepoint.Set([]byte("counter"), []byte("1")))
	require.NoError(t, savepoint.Write())

	// a discarded savepoint leaves no trace
	dropped := rec.CacheWrap()
	require.NoError(t, dropped.Set([]byte("ghost"), []byte("boo")))
	dropped.Discard()

	want := []Access{
		{Kind: ReadAccess, Key: []byte("balance"), Value: []byte("10")},
		{Kind: WriteAccess, Key: []byte("balance"), Value: []byte("7")},
		{Kind: DeleteAccess, Key: []byte("owner")},
		{Kind: WriteAccess, Key: []byte("counter"), Value: []byte("1")},
	}
	assert.Equal(t, want, rec.Accesses())
	assert.Equal(t, map[string][]byte{
		"balance": []byte("7"),
		"owner":   nil,
		"counter": []byte("1"),
	}, rec.KVPairs())

	rec.Discard()
	got, err := base.Get([]byte("balance"))
	require.NoError(t, err)
	assert.Equal(t, []byte("10"), got, "discarded recording must not leak")
}

func TestRecordingIterator(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))

	rec := NewRecordingStore(base.CacheWrap())
	it, err := rec.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()

	for _, want := range []string{"a", "b"} {
		key, _, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, want, string(key))
	}
	_, _, err = it.Next()
	require.Error(t, err)

	assert.Len(t, rec.Accesses(), 2)
	assert.Equal(t, ReadAccess, rec.Accesses()[1].Kind)
	assert.Equal(t, "write", WriteAccess.String())
}
