package multisig

import (
	"sort"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// ProofEntry authorizes a hash on behalf of one owner. An entry without a
// signature is a marker that points at an approval recorded by the owner.
type ProofEntry struct {
	Owner     nestedsafe.Address
	Signature *sigs.StdSignature
}

// IsMarker returns true if the entry refers to a recorded approval.
func (e ProofEntry) IsMarker() bool {
	return e.Signature == nil
}

// Proof is the authorization presented to a safe to execute a hash.
// Entries are sorted by owner address in ascending order.
type Proof struct {
	Entries []ProofEntry
}

// NewProof returns a proof of given entries, sorted by owner.
func NewProof(entries ...ProofEntry) *Proof {
	sorted := append([]ProofEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Owner.Compare(sorted[j].Owner) < 0
	})
	return &Proof{Entries: sorted}
}

func (p *Proof) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*p)
}

func (p *Proof) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, p)
}

// Owners returns the owners referenced by the proof, in proof order.
func (p *Proof) Owners() []nestedsafe.Address {
	if p == nil {
		return nil
	}
	res := make([]nestedsafe.Address, len(p.Entries))
	for i, e := range p.Entries {
		res[i] = e.Owner
	}
	return res
}

// VerifyProof checks that the proof carries at least threshold valid
// authorizations of current owners of the safe for the hash. Any invalid
// entry fails the whole proof.
func VerifyProof(db nestedsafe.ReadOnlyKVStore, safe *Safe, hash []byte, proof *Proof) error {
	if proof == nil {
		return errors.Wrap(errors.ErrUnauthorized, "no proof")
	}
	approvals := NewApprovalBucket()

	var prev nestedsafe.Address
	for i, e := range proof.Entries {
		if prev != nil && prev.Compare(e.Owner) >= 0 {
			return errors.Wrapf(errors.ErrInput, "entry %d: owners must be unique and sorted", i)
		}
		prev = e.Owner

		if !safe.IsOwner(e.Owner) {
			return errors.Wrapf(errors.ErrUnauthorized, "entry %d: %s is not an owner", i, e.Owner)
		}
		if e.IsMarker() {
			ok, err := approvals.Has(db, e.Owner, hash)
			if err != nil {
				return err
			}
			if !ok {
				return errors.Wrapf(errors.ErrUnauthorized, "entry %d: %s did not approve", i, e.Owner)
			}
			continue
		}
		cond, err := sigs.VerifySignature(e.Signature, hash)
		if err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		if !cond.Address().Equals(e.Owner) {
			return errors.Wrapf(errors.ErrUnauthorized, "entry %d: signer is not %s", i, e.Owner)
		}
	}
	if len(proof.Entries) < int(safe.Threshold) {
		return errors.Wrapf(errors.ErrUnauthorized, "%d of %d required authorizations", len(proof.Entries), safe.Threshold)
	}
	return nil
}
