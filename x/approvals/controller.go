package approvals

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// ProposeHash returns the payload and the hash authorizing the batch to be
// executed by the safe at its current nonce.
func ProposeHash(db nestedsafe.ReadOnlyKVStore, chainID string, safe nestedsafe.Address, b *batch.CallBatch) (*sigs.SigningPayload, []byte, error) {
	s, err := multisig.GetSafe(db, safe)
	if err != nil {
		return nil, nil, err
	}
	payload := &sigs.SigningPayload{
		ChainID: chainID,
		Safe:    s.Address,
		Nonce:   s.Nonce,
		Batch:   b,
	}
	hash, err := payload.Hash()
	if err != nil {
		return nil, nil, errors.Wrap(err, "hash")
	}
	return payload, hash, nil
}

// ApprovalPayload returns the payload that members of the approver safe
// sign to approve the hash of the owner safe. It is a single call to the
// owner safe executed by the approver at its current nonce.
func ApprovalPayload(db nestedsafe.ReadOnlyKVStore, chainID string, approver, owner nestedsafe.Address, hash []byte) (*sigs.SigningPayload, []byte, error) {
	msg, err := multisig.ApproveHashPayload(hash)
	if err != nil {
		return nil, nil, err
	}
	call := batch.Call{Target: owner, Payload: msg}
	return ProposeHash(db, chainID, approver, batch.NewCallBatch(call))
}

// ApproveRequest carries the member signatures of the approver safe.
type ApproveRequest struct {
	Approver   nestedsafe.Address
	Owner      nestedsafe.Address
	Hash       []byte
	Signatures []*sigs.StdSignature
}

// Approve records the approval of the hash by the approver safe, on the
// owner safe. The signatures must be created by distinct current owners of
// the approver over the approval payload hash. Owners of the approver that
// are safes themselves count when they approved the approval payload hash.
//
// A failed attempt leaves no state behind and can be retried with more
// signatures.
func Approve(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore, exec multisig.BatchExecutor, req ApproveRequest) (*multisig.Proof, error) {
	if err := req.Approver.Validate(); err != nil {
		return nil, errors.Field("Approver", err, "invalid approver")
	}
	owner, err := multisig.GetSafe(db, req.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if !owner.IsOwner(req.Approver) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner of %s", req.Approver, owner.Address)
	}
	switch done, err := multisig.HasApproval(db, req.Approver, req.Hash); {
	case err != nil:
		return nil, err
	case done:
		return nil, errors.Wrapf(errors.ErrDuplicate, "%s already approved", req.Approver)
	}

	approver, err := multisig.GetSafe(db, req.Approver)
	if err != nil {
		return nil, errors.Wrap(err, "approver")
	}
	payload, approvalHash, err := ApprovalPayload(db, nestedsafe.GetChainID(ctx), approver.Address, owner.Address, req.Hash)
	if err != nil {
		return nil, err
	}
	tally, err := Count(ctx, db, approver, approvalHash, req.Signatures)
	if err != nil {
		return nil, err
	}
	if !tally.Ready() {
		return nil, errors.Wrapf(ErrInsufficientSignatures, "%d of %d owners of %s", tally.Count(), tally.Threshold, approver.Address)
	}

	proof := tally.Proof()
	if _, err := multisig.ExecTransaction(ctx, db, exec, payload, proof); err != nil {
		return nil, errors.Wrap(err, "submit approval")
	}
	return proof, nil
}

// CheckReady returns true if at least threshold owners of the owner safe
// recorded an approval of the hash.
func CheckReady(db nestedsafe.ReadOnlyKVStore, owner nestedsafe.Address, hash []byte) (bool, error) {
	s, err := multisig.GetSafe(db, owner)
	if err != nil {
		return false, err
	}
	approved, err := multisig.ApprovedOwners(db, s, hash)
	if err != nil {
		return false, err
	}
	return len(approved) >= int(s.Threshold), nil
}
