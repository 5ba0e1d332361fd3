package batch

import (
	"context"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/gconf"
	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/iov-one/nestedsafe/weavetest/assert"
	"github.com/iov-one/nestedsafe/x/cash"
)

func TestExecute(t *testing.T) {
	caller := weavetest.NewCondition().Address()
	okAddr := weavetest.NewCondition().Address()
	failAddr := weavetest.NewCondition().Address()
	panicAddr := weavetest.NewCondition().Address()
	plain := weavetest.NewCondition().Address()

	cases := map[string]struct {
		calls       []Call
		wantErr     *errors.Error
		wantSuccess []bool
		wantWritten bool
		wantFailed  bool
		wantPlain   uint64
		wantCaller  uint64
	}{
		"single call": {
			calls:       []Call{{Target: okAddr, Payload: []byte("a")}},
			wantSuccess: []bool{true},
			wantWritten: true,
			wantCaller:  100,
		},
		"failing call aborts the batch": {
			calls: []Call{
				{Target: okAddr, Payload: []byte("a")},
				{Target: failAddr, Payload: []byte("b")},
			},
			wantErr:    errors.ErrUnauthorized,
			wantCaller: 100,
		},
		"failing call that is allowed to fail is rolled back alone": {
			calls: []Call{
				{Target: okAddr, Payload: []byte("a")},
				{Target: failAddr, Payload: []byte("b"), AllowFailure: true},
			},
			wantSuccess: []bool{true, false},
			wantWritten: true,
			wantCaller:  100,
		},
		"panicking call aborts the batch": {
			calls: []Call{
				{Target: okAddr, Payload: []byte("a")},
				{Target: panicAddr, Payload: []byte("c")},
			},
			wantErr:    errors.ErrPanic,
			wantCaller: 100,
		},
		"plain transfer": {
			calls:       []Call{{Target: plain, Value: 40}},
			wantSuccess: []bool{true},
			wantPlain:   40,
			wantCaller:  60,
		},
		"transfer without a balance aborts the batch": {
			calls: []Call{
				{Target: plain, Value: 40},
				{Target: okAddr, Payload: []byte("a"), Value: 61},
			},
			wantErr:    errors.ErrInsufficientAmount,
			wantCaller: 100,
		},
		"transfer of a failed call is rolled back": {
			calls: []Call{
				{Target: failAddr, Payload: []byte("b"), Value: 10, AllowFailure: true},
				{Target: plain, Value: 5},
			},
			wantSuccess: []bool{false, true},
			wantPlain:   5,
			wantCaller:  95,
		},
		"payload to an address without a handler": {
			calls:      []Call{{Target: plain, Payload: []byte("?")}},
			wantErr:    errors.ErrNotFound,
			wantCaller: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bank := cash.NewController()
			assert.Nil(t, bank.Issue(db, caller, 100))

			resolver := weavetest.Resolver{
				string(okAddr): &weavetest.Handler{
					Key:    []byte("ok"),
					Value:  []byte("written"),
					Result: []byte("done"),
				},
				string(failAddr): &weavetest.Handler{
					Key:   []byte("failed"),
					Value: []byte("written"),
					Err:   errors.ErrUnauthorized,
				},
				string(panicAddr): nestedsafe.HandlerFunc(func(nestedsafe.Context, nestedsafe.KVStore, []byte) ([]byte, error) {
					panic("boom")
				}),
			}
			exec := NewExecutor(resolver, bank)

			res, err := exec.Execute(context.Background(), db, caller, NewCallBatch(tc.calls...))
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				if len(res.Results) != len(tc.wantSuccess) {
					t.Fatalf("want %d results, got %d", len(tc.wantSuccess), len(res.Results))
				}
				for i, want := range tc.wantSuccess {
					if res.Results[i].Success != want {
						t.Errorf("call %d: want success %v", i, want)
					}
					if !want && res.Results[i].Log == "" {
						t.Errorf("call %d: failure log is missing", i)
					}
				}
			}

			has, err := db.Has([]byte("ok"))
			assert.Nil(t, err)
			assert.Equal(t, tc.wantWritten, has)
			has, err = db.Has([]byte("failed"))
			assert.Nil(t, err)
			assert.Equal(t, tc.wantFailed, has)

			got, err := bank.Balance(db, plain)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantPlain, got)
			got, err = bank.Balance(db, caller)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCaller, got)
		})
	}
}

func TestExecuteResultData(t *testing.T) {
	db := store.MemStore()
	target := weavetest.NewCondition().Address()
	resolver := weavetest.Resolver{
		string(target): &weavetest.Handler{Result: []byte("pong")},
	}
	exec := NewExecutor(resolver, nil)

	res, err := exec.Execute(context.Background(), db, nil, NewCallBatch(
		Call{Target: target, Payload: []byte("ping")},
		Call{Target: target, Payload: []byte("ping")},
	))
	assert.Nil(t, err)
	want := nestedsafe.MarshalLengthPrefixed([][]byte{[]byte("pong"), []byte("pong")})
	assert.Equal(t, want, res.Data)
}

func TestExecuteWithoutBank(t *testing.T) {
	db := store.MemStore()
	exec := NewExecutor(weavetest.Resolver{}, nil)
	_, err := exec.Execute(context.Background(), db, nil, NewCallBatch(
		Call{Target: weavetest.NewCondition().Address(), Value: 1},
	))
	if !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}

func TestExecuteCallLimit(t *testing.T) {
	db := store.MemStore()
	conf := Configuration{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		MaxCalls: 2,
	}
	assert.Nil(t, gconf.Save(db, packageName, &conf))

	target := weavetest.NewCondition().Address()
	exec := NewExecutor(weavetest.Resolver{}, nil)
	calls := []Call{{Target: target}, {Target: target}, {Target: target}}

	if _, err := exec.Execute(context.Background(), db, nil, NewCallBatch(calls...)); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
	if _, err := exec.Execute(context.Background(), db, nil, NewCallBatch(calls[:2]...)); err != nil {
		t.Fatalf("two calls must pass: %+v", err)
	}
}

func TestConfigurationGenesis(t *testing.T) {
	db := store.MemStore()
	opts := nestedsafe.Options{
		"conf": []byte(`{"batch": {"metadata": {"Schema": 1}, "max_calls": 5}}`),
	}
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))
	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, int32(5), conf.MaxCalls)

	empty := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(nestedsafe.Options{}, empty))
	conf, err = LoadConfiguration(empty)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfiguration().MaxCalls, conf.MaxCalls)
}
