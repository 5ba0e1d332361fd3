package batch

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// Bank moves value between accounts. A transfer must fail without any
// writes when the source cannot cover the amount.
type Bank interface {
	Transfer(db nestedsafe.KVStore, src, dst nestedsafe.Address, amount uint64) error
}

// Executor runs call batches on behalf of an already authorized caller.
type Executor struct {
	resolver nestedsafe.Resolver
	bank     Bank
}

// NewExecutor returns an executor dispatching calls to handlers found by
// the resolver. Bank can be nil, in which case calls carrying value are
// rejected.
func NewExecutor(r nestedsafe.Resolver, bank Bank) *Executor {
	return &Executor{resolver: r, bank: bank}
}

// Execute runs all calls of the batch in order, on behalf of the caller.
// Authorization of the caller is not checked here. Handlers read the
// caller authority from the context.
//
// Either every call (subject to its AllowFailure flag) is applied or none
// is and an error is returned.
func (e *Executor) Execute(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, caller nestedsafe.Address, b *CallBatch) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "batch")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if len(b.Calls) > int(conf.MaxCalls) {
		return nil, errors.Wrapf(errors.ErrInput, "%d calls exceed the limit of %d", len(b.Calls), conf.MaxCalls)
	}

	logger := nestedsafe.GetLogger(ctx)

	batchDB := db.CacheWrap()
	results := make([]CallResult, len(b.Calls))
	datas := make([][]byte, len(b.Calls))
	for i, c := range b.Calls {
		savepoint := batchDB.CacheWrap()
		data, err := e.call(ctx, savepoint, caller, c)
		if err != nil {
			savepoint.Discard()
			if !c.AllowFailure {
				batchDB.Discard()
				return nil, errors.Wrapf(err, "call %d", i)
			}
			_, log := errors.Info(err, false)
			logger.Debug("call failed", "index", i, "target", c.Target, "err", err)
			results[i] = CallResult{Success: false, Log: log}
			continue
		}
		if err := savepoint.Write(); err != nil {
			batchDB.Discard()
			return nil, errors.Wrapf(err, "call %d savepoint", i)
		}
		results[i] = CallResult{Success: true, Data: data}
		datas[i] = data
	}
	if err := batchDB.Write(); err != nil {
		return nil, errors.Wrap(err, "write batch")
	}
	return &Result{
		Results: results,
		Data:    nestedsafe.MarshalLengthPrefixed(datas),
	}, nil
}

// call transfers the value and dispatches the payload. A panicking
// handler fails the call.
func (e *Executor) call(ctx nestedsafe.Context, db nestedsafe.KVStore, caller nestedsafe.Address, c Call) (data []byte, err error) {
	defer errors.Recover(&err)

	if c.Value > 0 {
		if e.bank == nil {
			return nil, errors.Wrap(errors.ErrInput, "value transfers are not supported")
		}
		if err := e.bank.Transfer(db, caller, c.Target, c.Value); err != nil {
			return nil, errors.Wrap(err, "transfer value")
		}
	}

	h, err := e.resolver.Resolve(db, c.Target)
	if err != nil {
		return nil, errors.Wrap(err, "resolve target")
	}
	if h == nil {
		if len(c.Payload) == 0 {
			return nil, nil
		}
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %s", c.Target)
	}
	return h.Call(ctx, db, c.Payload)
}
