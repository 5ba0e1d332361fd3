package app

import (
	"testing"

	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	db := store.MemStore()
	r := NewRouter()
	fixed, resolved, missing := weavetest.NewCondition().Address(), weavetest.NewCondition().Address(), weavetest.NewCondition().Address()

	h := &weavetest.Handler{}
	r.Handle(fixed, h)
	r.Resolve(weavetest.Resolver{string(resolved): h, string(fixed): &weavetest.Handler{}})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(fixed, h) })
	assert.Panics(t, func() { r.Handle(nil, h) })

	got, err := r.Handler(db, fixed)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	got, err = r.Resolver().Resolve(db, resolved)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	got, err = r.Handler(db, missing)
	require.NoError(t, err)
	assert.Nil(t, got)
}
