package cash

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the value held by a single address.
type Balance struct {
	Metadata *nestedsafe.Metadata
	Amount   uint64
}

var _ orm.CloneableData = (*Balance)(nil)

func (b *Balance) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*b)
}

func (b *Balance) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, b)
}

// Validate requires the metadata to be present.
func (b *Balance) Validate() error {
	return errors.AppendField(nil, "Metadata", b.Metadata.Validate())
}

// Copy makes a new balance with the same content.
func (b *Balance) Copy() orm.CloneableData {
	return &Balance{
		Metadata: b.Metadata.Copy(),
		Amount:   b.Amount,
	}
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Balance))),
	}
}

// GetOrCreate returns the balance of given address. A zero balance is
// returned for an address that never held any value.
func (b Bucket) GetOrCreate(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (*orm.SimpleObj, *Balance, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, nil, err
	}
	if obj == nil {
		bal := &Balance{Metadata: &nestedsafe.Metadata{Schema: 1}}
		return orm.NewSimpleObj(addr, bal), bal, nil
	}
	so, ok := obj.(*orm.SimpleObj)
	if !ok {
		return nil, nil, errors.WithType(errors.ErrType, obj)
	}
	bal, ok := so.Value().(*Balance)
	if !ok {
		return nil, nil, errors.WithType(errors.ErrType, so.Value())
	}
	return so, bal, nil
}
