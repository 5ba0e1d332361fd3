package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// maxNestingDepth limits how deep the owner tree of a safe can be.
const maxNestingDepth = 16

// CreateSafe creates a new safe owned by given owners. Owners that are
// safes must already exist, and the owner tree must not contain a cycle.
func CreateSafe(db nestedsafe.KVStore, owners []nestedsafe.Address, threshold int32) (*Safe, error) {
	if err := validateOwners(owners, threshold); err != nil {
		return nil, err
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if len(owners) > int(conf.MaxOwners) {
		return nil, errors.Wrapf(errors.ErrInput, "%d owners exceed the limit of %d", len(owners), conf.MaxOwners)
	}

	bucket := NewSafeBucket()
	id, err := bucket.NextID(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ID")
	}
	addr := SafeCondition(id).Address()
	if err := checkOwnerTree(db, bucket, addr, owners, 1, make(map[string]struct{})); err != nil {
		return nil, err
	}

	cpy := make([]nestedsafe.Address, len(owners))
	for i, o := range owners {
		cpy[i] = o.Clone()
	}
	safe := &Safe{
		Metadata:  &nestedsafe.Metadata{Schema: 1},
		ID:        id,
		Address:   addr,
		Owners:    cpy,
		Threshold: threshold,
	}
	if err := bucket.Put(db, safe); err != nil {
		return nil, errors.Wrap(err, "save safe")
	}
	return safe, nil
}

// checkOwnerTree walks the owner safes and fails if root is found among
// them or if the tree is too deep. Owner addresses are predictable, so an
// existing safe may list root as an owner before root is created.
func checkOwnerTree(db nestedsafe.ReadOnlyKVStore, bucket SafeBucket, root nestedsafe.Address, owners []nestedsafe.Address, depth int, visited map[string]struct{}) error {
	if depth > maxNestingDepth {
		return errors.Wrapf(errors.ErrInput, "owner tree deeper than %d", maxNestingDepth)
	}
	for _, o := range owners {
		if o.Equals(root) {
			return errors.Wrapf(errors.ErrInput, "cycle through safe %s", root)
		}
		if _, ok := visited[string(o)]; ok {
			continue
		}
		visited[string(o)] = struct{}{}
		s, err := bucket.GetSafe(db, o)
		if err != nil {
			return err
		}
		if s == nil {
			continue
		}
		if err := checkOwnerTree(db, bucket, root, s.Owners, depth+1, visited); err != nil {
			return err
		}
	}
	return nil
}

// GetSafe returns the safe stored under given address or ErrNotFound.
func GetSafe(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (*Safe, error) {
	return NewSafeBucket().MustGetSafe(db, addr)
}

// ApprovalsBy lists the ledger entries of an approver, ordered by hash.
func ApprovalsBy(db nestedsafe.ReadOnlyKVStore, approver nestedsafe.Address) ([]*Approval, error) {
	return NewApprovalBucket().ByApprover(db, approver)
}

// HasApproval returns true if approver approved the hash.
func HasApproval(db nestedsafe.ReadOnlyKVStore, approver nestedsafe.Address, hash []byte) (bool, error) {
	return NewApprovalBucket().Has(db, approver, hash)
}

// ApprovedOwners returns the current owners of the safe that approved the
// hash, in the order of the safe owners.
func ApprovedOwners(db nestedsafe.ReadOnlyKVStore, safe *Safe, hash []byte) ([]nestedsafe.Address, error) {
	bucket := NewApprovalBucket()
	var res []nestedsafe.Address
	for _, o := range safe.Owners {
		ok, err := bucket.Has(db, o, hash)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, o)
		}
	}
	return res, nil
}
