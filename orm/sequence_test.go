package orm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

func TestSequence(t *testing.T) {
	cases := []struct {
		bucket     string
		name       string
		increments int64
	}{
		0: {"safe", "id", 22},
		1: {"safe", "other", 11},
		2: {"approval", "id", 300},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			db := store.MemStore()
			s := NewSequence(tc.bucket, tc.name)
			_, orig, err := s.Latest(db)
			assert.Nil(t, err)

			var val int64
			for i := int64(0); i < tc.increments; i++ {
				val, err = s.NextInt(db)
				assert.Nil(t, err)
			}
			assert.Equal(t, tc.increments, val)

			// make sure final value is bigger than original value
			// if we use the raw bytes to index stuff
			_, last, err := s.Latest(db)
			assert.Nil(t, err)
			assert.Equal(t, 1, bytes.Compare(last, orig))
		})
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("safe", SeqID)
	b := NewSequence("counter", SeqID)

	first, err := a.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), first)

	n, err := b.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)

	n, err = a.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
}
