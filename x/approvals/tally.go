package approvals

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// Tally is the set of distinct current owners of a safe that authorized a
// hash, either by a recorded approval or by a signature.
type Tally struct {
	Threshold int32
	entries   []multisig.ProofEntry
}

// Count returns the number of distinct owners that authorized the hash.
func (t *Tally) Count() int {
	return len(t.entries)
}

// Ready returns true if the threshold is reached.
func (t *Tally) Ready() bool {
	return t.Count() >= int(t.Threshold)
}

// Owners returns the owners that authorized the hash.
func (t *Tally) Owners() []nestedsafe.Address {
	res := make([]nestedsafe.Address, len(t.entries))
	for i, e := range t.entries {
		res[i] = e.Owner
	}
	return res
}

// Proof returns the proof of the authorizations, as expected by the safe.
func (t *Tally) Proof() *multisig.Proof {
	return multisig.NewProof(t.entries...)
}

func (t *Tally) has(owner nestedsafe.Address) bool {
	for _, e := range t.entries {
		if e.Owner.Equals(owner) {
			return true
		}
	}
	return false
}

// Count counts the current owners of the safe that authorized the hash.
// Owners that recorded an approval count as markers. Signatures count for
// the owner whose key created them. Signatures that do not verify, that
// belong to somebody who is not an owner, or that repeat an owner already
// counted are ignored.
func Count(ctx nestedsafe.Context, db nestedsafe.ReadOnlyKVStore, safe *multisig.Safe, hash []byte, signatures []*sigs.StdSignature) (*Tally, error) {
	approved, err := multisig.ApprovedOwners(db, safe, hash)
	if err != nil {
		return nil, err
	}
	t := &Tally{Threshold: safe.Threshold}
	for _, o := range approved {
		t.entries = append(t.entries, multisig.ProofEntry{Owner: o})
	}

	logger := nestedsafe.GetLogger(ctx)
	for i, sig := range signatures {
		cond, err := sigs.VerifySignature(sig, hash)
		if err != nil {
			logger.Debug("signature dropped", "index", i, "err", err)
			continue
		}
		owner := cond.Address()
		if !safe.IsOwner(owner) {
			logger.Debug("signature of a non owner dropped", "index", i, "signer", owner, "safe", safe.Address)
			continue
		}
		if t.has(owner) {
			continue
		}
		t.entries = append(t.entries, multisig.ProofEntry{Owner: owner, Signature: sig})
	}
	return t, nil
}
