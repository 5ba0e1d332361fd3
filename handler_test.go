package nestedsafe

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

func TestReadOptions(t *testing.T) {
	var opts Options
	assert.Nil(t, json.Unmarshal([]byte(`{"conf": {"max": 7}}`), &opts))

	var conf struct{ Max int }
	assert.Nil(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, 7, conf.Max)

	var missing struct{ Max int }
	assert.Nil(t, opts.ReadOptions("unknown", &missing))
	assert.Equal(t, 0, missing.Max)

	if err := opts.ReadOptions("conf", &[]string{}); err == nil {
		t.Fatal("expected a decoding error")
	}
}

type recordingInit struct {
	name  string
	calls *[]string
	err   error
}

func (r recordingInit) FromGenesis(Options, KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	init := ChainInitializers(
		recordingInit{name: "a", calls: &calls},
		recordingInit{name: "b", calls: &calls, err: errors.ErrState},
		recordingInit{name: "c", calls: &calls},
	)
	err := init.FromGenesis(Options{}, nil)
	if !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestHandlerFunc(t *testing.T) {
	var h Handler = HandlerFunc(func(ctx Context, db KVStore, payload []byte) ([]byte, error) {
		return append([]byte("echo:"), payload...), nil
	})
	res, err := h.Call(context.Background(), nil, []byte("x"))
	assert.Nil(t, err)
	assert.Equal(t, "echo:x", string(res))
}

func TestMetadataValidate(t *testing.T) {
	var none *Metadata
	if err := none.Validate(); !errors.ErrMetadata.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := (&Metadata{}).Validate(); !errors.ErrMetadata.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Nil(t, (&Metadata{Schema: 1}).Validate())

	m := &Metadata{Schema: 3}
	cpy := m.Copy()
	cpy.Schema = 4
	assert.Equal(t, uint32(3), m.Schema)
}
