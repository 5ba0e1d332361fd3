package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/orm"
)

const (
	// SafeBucketName is where we store the safes, keyed by address.
	SafeBucketName = "safes"
	// ApprovalBucketName is where we store approved hashes, keyed by
	// approver and hash.
	ApprovalBucketName = "approvals"
	// SequenceName is an auto-increment ID counter for safes
	SequenceName = "id"
)

// SafeCondition returns the condition of the safe with given ID. The
// address of a safe is the address of this condition.
func SafeCondition(id []byte) nestedsafe.Condition {
	return nestedsafe.NewCondition("multisig", "usage", id)
}

// Safe is an account controlled by a threshold of its owners.
type Safe struct {
	Metadata  *nestedsafe.Metadata
	ID        []byte
	Address   nestedsafe.Address
	Owners    []nestedsafe.Address
	Threshold int32
	Nonce     int64
}

var _ orm.CloneableData = (*Safe)(nil)

func (s *Safe) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*s)
}

func (s *Safe) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, s)
}

func (s *Safe) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if len(s.ID) == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	} else if !s.Address.Equals(SafeCondition(s.ID).Address()) {
		errs = errors.AppendField(errs, "Address", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "Owners", validateOwners(s.Owners, s.Threshold))
	if s.Nonce < 0 {
		errs = errors.AppendField(errs, "Nonce", errors.ErrModel)
	}
	return errs
}

// validateOwners ensures owners are unique valid addresses and the
// threshold can be reached.
func validateOwners(owners []nestedsafe.Address, threshold int32) error {
	if len(owners) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no owners")
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		for _, prev := range owners[:i] {
			if prev.Equals(o) {
				return errors.Wrapf(errors.ErrDuplicate, "owner %s", o)
			}
		}
	}
	if threshold < 1 || int(threshold) > len(owners) {
		return errors.Wrapf(errors.ErrInput, "threshold %d of %d owners", threshold, len(owners))
	}
	return nil
}

func (s *Safe) Copy() orm.CloneableData {
	owners := make([]nestedsafe.Address, len(s.Owners))
	for i, o := range s.Owners {
		owners[i] = o.Clone()
	}
	return &Safe{
		Metadata:  s.Metadata.Copy(),
		ID:        append([]byte(nil), s.ID...),
		Address:   s.Address.Clone(),
		Owners:    owners,
		Threshold: s.Threshold,
		Nonce:     s.Nonce,
	}
}

// IsOwner returns true if given address is a current owner of the safe.
func (s *Safe) IsOwner(addr nestedsafe.Address) bool {
	for _, o := range s.Owners {
		if o.Equals(addr) {
			return true
		}
	}
	return false
}

// SafeBucket is a type-safe wrapper around orm.Bucket
type SafeBucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewSafeBucket initializes a SafeBucket with default name
func NewSafeBucket() SafeBucket {
	b := orm.NewBucket(SafeBucketName, orm.NewSimpleObj(nil, new(Safe)))
	return SafeBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// NextID acquires the ID of the next safe.
func (b SafeBucket) NextID(db nestedsafe.KVStore) ([]byte, error) {
	return b.idSeq.NextVal(db)
}

// GetSafe returns the safe stored under given address, or nil if there is
// none.
func (b SafeBucket) GetSafe(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (*Safe, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	s, ok := obj.Value().(*Safe)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return s, nil
}

// MustGetSafe works as GetSafe but returns ErrNotFound when there is no
// safe under given address.
func (b SafeBucket) MustGetSafe(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (*Safe, error) {
	s, err := b.GetSafe(db, addr)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "safe %s", addr)
	}
	return s, nil
}

// Put saves the safe under its address.
func (b SafeBucket) Put(db nestedsafe.KVStore, s *Safe) error {
	return b.Save(db, orm.NewSimpleObj(s.Address, s))
}

// Approval records that Approver agreed on Hash to be executed by Owner.
// Approvals are never removed.
type Approval struct {
	Metadata *nestedsafe.Metadata
	Approver nestedsafe.Address
	Owner    nestedsafe.Address
	Hash     []byte
}

var _ orm.CloneableData = (*Approval)(nil)

func (a *Approval) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*a)
}

func (a *Approval) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, a)
}

func (a *Approval) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Approver", a.Approver.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Hash", validateHash(a.Hash))
	return errs
}

func (a *Approval) Copy() orm.CloneableData {
	return &Approval{
		Metadata: a.Metadata.Copy(),
		Approver: a.Approver.Clone(),
		Owner:    a.Owner.Clone(),
		Hash:     append([]byte(nil), a.Hash...),
	}
}

// ApprovalBucket is a type-safe wrapper around orm.Bucket
type ApprovalBucket struct {
	orm.Bucket
}

// NewApprovalBucket initializes an ApprovalBucket with default name
func NewApprovalBucket() ApprovalBucket {
	return ApprovalBucket{
		Bucket: orm.NewBucket(ApprovalBucketName, orm.NewSimpleObj(nil, new(Approval))),
	}
}

func approvalKey(approver nestedsafe.Address, hash []byte) []byte {
	key := make([]byte, 0, len(approver)+len(hash))
	key = append(key, approver...)
	return append(key, hash...)
}

// Has returns true if approver approved the hash.
func (b ApprovalBucket) Has(db nestedsafe.ReadOnlyKVStore, approver nestedsafe.Address, hash []byte) (bool, error) {
	return b.Bucket.Has(db, approvalKey(approver, hash))
}

// Record stores the approval. An approval can be recorded only once.
func (b ApprovalBucket) Record(db nestedsafe.KVStore, a *Approval) error {
	key := approvalKey(a.Approver, a.Hash)
	switch has, err := b.Bucket.Has(db, key); {
	case err != nil:
		return err
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "%s already approved %X", a.Approver, a.Hash)
	}
	return b.Save(db, orm.NewSimpleObj(key, a))
}

// ByApprover returns all approvals of given approver.
func (b ApprovalBucket) ByApprover(db nestedsafe.ReadOnlyKVStore, approver nestedsafe.Address) ([]*Approval, error) {
	objs, err := b.PrefixScan(db, approver)
	if err != nil {
		return nil, err
	}
	res := make([]*Approval, 0, len(objs))
	for _, obj := range objs {
		a, ok := obj.Value().(*Approval)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		res = append(res, a)
	}
	return res, nil
}
