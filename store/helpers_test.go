package store

import (
	"testing"

	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := randKeys(size, 8)
	vs := randKeys(size, 40)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	it := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		key, value, err := it.Next()
		assert.Nil(t, err)
		assert.Equal(t, ks[i], key)
		assert.Equal(t, vs[i], value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}

	released := NewSliceIterator(models)
	released.Release()
	if _, _, err := released.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("released iterator must be done, got %+v", err)
	}
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("gone"), []byte("soon")))

	b := NewNonAtomicBatch(db)
	assert.Nil(t, b.Set([]byte("a"), []byte("1")))
	assert.Nil(t, b.Delete([]byte("gone")))
	assert.Equal(t, 2, len(b.ShowOps()))
	assert.Equal(t, true, b.ShowOps()[0].IsSetOp())

	// nothing is visible before the write
	val, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	assert.Nil(t, b.Write())
	assert.Equal(t, 0, len(b.ShowOps()))

	val, err = db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), val)
	has, err := db.Has([]byte("gone"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
