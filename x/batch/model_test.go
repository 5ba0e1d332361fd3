package batch

import (
	"bytes"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

func TestCallBatchValidate(t *testing.T) {
	target := weavetest.NewCondition().Address()

	cases := map[string]struct {
		batch   *CallBatch
		wantErr *errors.Error
	}{
		"valid": {
			batch: NewCallBatch(Call{Target: target, Payload: []byte("x")}),
		},
		"plain transfer": {
			batch: NewCallBatch(Call{Target: target, Value: 3}),
		},
		"nil batch": {
			batch:   nil,
			wantErr: errors.ErrEmpty,
		},
		"no calls": {
			batch:   NewCallBatch(),
			wantErr: errors.ErrEmpty,
		},
		"invalid target": {
			batch: NewCallBatch(
				Call{Target: target},
				Call{Target: nestedsafe.Address("short")},
			),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.batch.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestCallBatchSerialization(t *testing.T) {
	b := NewCallBatch(
		Call{Target: weavetest.NewCondition().Address(), Payload: []byte("one"), Value: 7},
		Call{Target: weavetest.NewCondition().Address(), AllowFailure: true},
	)
	raw, err := b.Marshal()
	assert.Nil(t, err)

	var got CallBatch
	assert.Nil(t, got.Unmarshal(raw))
	if len(got.Calls) != 2 {
		t.Fatalf("want 2 calls, got %d", len(got.Calls))
	}
	for i := range b.Calls {
		if !b.Calls[i].Target.Equals(got.Calls[i].Target) {
			t.Errorf("call %d target mismatch", i)
		}
		if !bytes.Equal(b.Calls[i].Payload, got.Calls[i].Payload) {
			t.Errorf("call %d payload mismatch", i)
		}
		assert.Equal(t, b.Calls[i].Value, got.Calls[i].Value)
		assert.Equal(t, b.Calls[i].AllowFailure, got.Calls[i].AllowFailure)
	}
}

func TestEncode(t *testing.T) {
	a := Call{Target: weavetest.NewCondition().Address(), Payload: []byte("first")}
	b := Call{Target: weavetest.NewCondition().Address(), Payload: []byte("second"), Value: 1}

	ab, err := NewCallBatch(a, b).Encode()
	assert.Nil(t, err)
	ba, err := NewCallBatch(b, a).Encode()
	assert.Nil(t, err)
	again, err := NewCallBatch(a, b).Encode()
	assert.Nil(t, err)

	if !bytes.Equal(ab, again) {
		t.Fatal("encoding is not deterministic")
	}
	if bytes.Equal(ab, ba) {
		t.Fatal("call order does not change the encoding")
	}

	failing := a
	failing.AllowFailure = true
	af, err := NewCallBatch(failing, b).Encode()
	assert.Nil(t, err)
	if bytes.Equal(ab, af) {
		t.Fatal("allow failure flag does not change the encoding")
	}

	// Head: offset to the array, then the array length.
	if len(ab) < 64 || ab[31] != 0x20 || ab[63] != 2 {
		t.Fatalf("unexpected abi head: %X", ab[:64])
	}

	if _, err := NewCallBatch().Encode(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}
}

func TestTotalValue(t *testing.T) {
	target := weavetest.NewCondition().Address()
	total, err := NewCallBatch(
		Call{Target: target, Value: 3},
		Call{Target: target, Value: 4},
	).TotalValue()
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), total)

	_, err = NewCallBatch(
		Call{Target: target, Value: ^uint64(0)},
		Call{Target: target, Value: 1},
	).TotalValue()
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}
