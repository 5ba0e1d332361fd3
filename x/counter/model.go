package counter

import (
	"encoding/binary"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/orm"
)

const (
	BucketName   = "counters"
	SequenceName = "id"
)

// Condition returns the condition of the counter with given ID. The
// address of a counter is the address of this condition.
func Condition(id []byte) nestedsafe.Condition {
	return nestedsafe.NewCondition("counter", "usage", id)
}

type Counter struct {
	Metadata *nestedsafe.Metadata
	ID       []byte
	Owner    nestedsafe.Address
	Count    int64
}

var _ orm.CloneableData = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, c)
}

func (c *Counter) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.ID) == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.Count < 0 {
		errs = errors.AppendField(errs, "Count", errors.ErrModel)
	}
	return errs
}

func (c *Counter) Copy() orm.CloneableData {
	return &Counter{
		Metadata: c.Metadata.Copy(),
		ID:       append([]byte(nil), c.ID...),
		Owner:    c.Owner.Clone(),
		Count:    c.Count,
	}
}

// Address returns the address calls to this counter are sent to.
func (c *Counter) Address() nestedsafe.Address {
	return Condition(c.ID).Address()
}

// IncrementMsg is the call payload increasing a counter.
type IncrementMsg struct {
	Metadata *nestedsafe.Metadata
	By       int64
}

var _ nestedsafe.Persistent = (*IncrementMsg)(nil)

func (m *IncrementMsg) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*m)
}

func (m *IncrementMsg) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, m)
}

func (m *IncrementMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.By < 1 {
		errs = errors.AppendField(errs, "By", errors.ErrAmount)
	}
	return errs
}

// IncrementPayload returns the call payload increasing a counter by n.
func IncrementPayload(n int64) ([]byte, error) {
	msg := IncrementMsg{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		By:       n,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// encodeCount returns the result data of an increment call.
func encodeCount(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

// DecodeCount reads the result data of an increment call.
func DecodeCount(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "count must be 8 bytes, got %d", len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// Bucket is a type-safe wrapper around orm.Bucket, keyed by counter
// address.
type Bucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Counter)))
	return Bucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// Create stores a new counter owned by given address.
func (b Bucket) Create(db nestedsafe.KVStore, owner nestedsafe.Address, count int64) (*Counter, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	c := &Counter{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		ID:       id,
		Owner:    owner,
		Count:    count,
	}
	if err := b.Save(db, orm.NewSimpleObj(c.Address(), c)); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCounter returns the counter stored under given address or
// ErrNotFound.
func (b Bucket) GetCounter(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (*Counter, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "counter %s", addr)
	}
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return c, nil
}
