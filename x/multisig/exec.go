package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// BatchExecutor runs a call batch on behalf of an authorized caller.
type BatchExecutor interface {
	Execute(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, caller nestedsafe.Address, b *batch.CallBatch) (*batch.Result, error)
}

var _ BatchExecutor = (*batch.Executor)(nil)

// ExecTransaction verifies the proof against the payload hash and executes
// the payload batch on behalf of the payload safe.
func ExecTransaction(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, exec BatchExecutor, payload *sigs.SigningPayload, proof *Proof) (*batch.Result, error) {
	safe, err := loadForExecution(ctx, db, payload)
	if err != nil {
		return nil, err
	}
	hash, err := payload.Hash()
	if err != nil {
		return nil, errors.Wrap(err, "hash")
	}
	if err := VerifyProof(db, safe, hash, proof); err != nil {
		return nil, err
	}
	return execute(ctx, db, exec, safe, payload)
}

// Execute runs the payload batch on behalf of the payload safe without any
// authorization check. It consumes the safe nonce. Use it only when the
// authorization was established by other means, for example in a dry run.
func Execute(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, exec BatchExecutor, payload *sigs.SigningPayload) (*batch.Result, error) {
	safe, err := loadForExecution(ctx, db, payload)
	if err != nil {
		return nil, err
	}
	return execute(ctx, db, exec, safe, payload)
}

// CheckNonce returns ErrReplayRejected if the nonce was already consumed
// and ErrInput if it is not the next one.
func CheckNonce(safe *Safe, nonce int64) error {
	switch {
	case nonce < safe.Nonce:
		return errors.Wrapf(ErrReplayRejected, "nonce %d, safe %s is at %d", nonce, safe.Address, safe.Nonce)
	case nonce > safe.Nonce:
		return errors.Wrapf(errors.ErrInput, "nonce %d, safe %s is at %d", nonce, safe.Address, safe.Nonce)
	}
	return nil
}

func loadForExecution(ctx nestedsafe.Context, db nestedsafe.ReadOnlyKVStore, payload *sigs.SigningPayload) (*Safe, error) {
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, "payload")
	}
	if chainID := nestedsafe.GetChainID(ctx); payload.ChainID != chainID {
		return nil, errors.Wrapf(errors.ErrInput, "payload for chain %q, running %q", payload.ChainID, chainID)
	}
	safe, err := GetSafe(db, payload.Safe)
	if err != nil {
		return nil, err
	}
	if err := CheckNonce(safe, payload.Nonce); err != nil {
		return nil, err
	}
	return safe, nil
}

// execute consumes the nonce and runs the batch. Both are applied
// together or not at all.
func execute(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, exec BatchExecutor, safe *Safe, payload *sigs.SigningPayload) (*batch.Result, error) {
	cache := db.CacheWrap()
	safe.Nonce++
	if err := NewSafeBucket().Put(cache, safe); err != nil {
		cache.Discard()
		return nil, errors.Wrap(err, "consume nonce")
	}

	ctx = withSafe(ctx, safe.ID)
	res, err := exec.Execute(ctx, cache, safe.Address, payload.Batch)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	nestedsafe.GetLogger(ctx).Info("safe transaction executed",
		"safe", safe.Address, "nonce", payload.Nonce, "calls", len(payload.Batch.Calls))
	return res, nil
}
