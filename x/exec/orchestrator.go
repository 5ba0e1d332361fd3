package exec

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/approvals"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
	"github.com/iov-one/nestedsafe/x/simulation"
)

// RunRequest describes a transaction to be executed by a safe.
type RunRequest struct {
	Payload *sigs.SigningPayload
	// Signatures of direct owners of the safe over the payload hash.
	// Optional, owners can approve on the ledger instead.
	Signatures []*sigs.StdSignature
	// PostCheck, when set, is run against a simulated execution before
	// the real one.
	PostCheck simulation.PostCheck
}

// Receipt describes a successful execution.
type Receipt struct {
	Hash   []byte
	Nonce  int64
	Proof  *multisig.Proof
	Result *batch.Result
	// Simulation is only set if a post check was requested.
	Simulation *simulation.Outcome
}

// Orchestrator executes transactions of top level safes.
type Orchestrator struct {
	exec multisig.BatchExecutor
	sim  *simulation.Simulator
}

// NewOrchestrator returns an orchestrator running batches with given
// executor.
func NewOrchestrator(exec multisig.BatchExecutor) *Orchestrator {
	return &Orchestrator{
		exec: exec,
		sim:  simulation.NewSimulator(exec),
	}
}

// Run executes the payload if enough owners of the safe authorized its
// hash. A payload whose nonce was already consumed is rejected with
// ErrReplayRejected before any authorization is checked.
//
// Run does not lock anything. The caller must serialize runs over the
// same state, the nonce check is only final inside of that serialization.
func (o *Orchestrator) Run(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, req RunRequest) (*Receipt, error) {
	if err := req.Payload.Validate(); err != nil {
		return nil, errors.Wrap(err, "payload")
	}
	safe, err := multisig.GetSafe(db, req.Payload.Safe)
	if err != nil {
		return nil, err
	}
	if err := multisig.CheckNonce(safe, req.Payload.Nonce); err != nil {
		return nil, err
	}
	hash, err := req.Payload.Hash()
	if err != nil {
		return nil, errors.Wrap(err, "hash")
	}

	tally, err := approvals.Count(ctx, db, safe, hash, req.Signatures)
	if err != nil {
		return nil, err
	}
	if !tally.Ready() {
		return nil, errors.Wrapf(ErrNotEnoughApprovals, "%d of %d owners of %s", tally.Count(), tally.Threshold, safe.Address)
	}
	receipt := &Receipt{
		Hash:  hash,
		Nonce: req.Payload.Nonce,
		Proof: tally.Proof(),
	}

	if req.PostCheck != nil {
		outcome, err := o.sim.Simulate(ctx, db, req.Payload, receipt.Proof, req.PostCheck)
		if err != nil {
			return nil, err
		}
		receipt.Simulation = outcome
	}

	res, err := multisig.ExecTransaction(ctx, db, o.exec, req.Payload, receipt.Proof)
	if err != nil {
		return nil, err
	}
	receipt.Result = res
	return receipt, nil
}

// Preview simulates the payload without requiring any authorization, so
// that owners can see what they are about to approve.
func (o *Orchestrator) Preview(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, payload *sigs.SigningPayload, check simulation.PostCheck) (*simulation.Outcome, error) {
	return o.sim.Simulate(ctx, db, payload, nil, check)
}
