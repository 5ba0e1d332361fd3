package simulation

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// PostCheck inspects the state produced by a simulated execution. Returning
// an error rejects the execution.
type PostCheck interface {
	Check(ctx nestedsafe.Context, db nestedsafe.ReadOnlyKVStore, o *Outcome) error
}

// PostCheckFunc is a convenience type to create a post check from a
// function.
type PostCheckFunc func(ctx nestedsafe.Context, db nestedsafe.ReadOnlyKVStore, o *Outcome) error

func (f PostCheckFunc) Check(ctx nestedsafe.Context, db nestedsafe.ReadOnlyKVStore, o *Outcome) error {
	return f(ctx, db, o)
}

// Outcome describes a simulated execution.
type Outcome struct {
	Payload *sigs.SigningPayload
	// Accesses is the ordered trace of all state reads and writes.
	Accesses []store.Access
	// State is the net result of all writes. A deleted key maps to nil.
	State map[string][]byte
	// Result is nil when the execution failed.
	Result *batch.Result
}

// Changed returns true if the simulated execution wrote the key.
func (o *Outcome) Changed(key []byte) bool {
	_, ok := o.State[string(key)]
	return ok
}

// Simulator executes safe transactions on a fork of the state.
type Simulator struct {
	exec multisig.BatchExecutor
}

// NewSimulator returns a simulator that runs batches with given executor.
func NewSimulator(exec multisig.BatchExecutor) *Simulator {
	return &Simulator{exec: exec}
}

// Simulate executes the payload on a fork of db. When a proof is given, it
// is verified exactly as a real execution would. Without a proof the
// authorization is assumed, which allows to preview a transaction before
// any approval exists.
//
// The returned outcome is never nil, even when the execution or the post
// check failed, so the caller can inspect the trace.
func (s *Simulator) Simulate(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, payload *sigs.SigningPayload, proof *multisig.Proof, check PostCheck) (*Outcome, error) {
	fork := store.NewRecordingStore(db.CacheWrap())
	defer fork.Discard()

	outcome := &Outcome{Payload: payload}
	var (
		res *batch.Result
		err error
	)
	if proof != nil {
		res, err = multisig.ExecTransaction(ctx, fork, s.exec, payload, proof)
	} else {
		res, err = multisig.Execute(ctx, fork, s.exec, payload)
	}
	outcome.Accesses = fork.Accesses()
	outcome.State = fork.KVPairs()
	if err != nil {
		return outcome, errors.Wrap(err, "simulation")
	}
	outcome.Result = res

	if check != nil {
		if err := check.Check(ctx, fork, outcome); err != nil {
			nestedsafe.GetLogger(ctx).Debug("post check failed", "safe", payload.Safe, "err", err)
			// Both kinds stay visible, the post check failure comes first
			// so it provides the error code.
			return outcome, errors.Append(errors.Wrap(ErrPostCheckFailed, "post check"), err)
		}
	}
	return outcome, nil
}
