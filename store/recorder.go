package store

import (
	"fmt"
	"sync"
)

// AccessKind tells how a key was touched.
type AccessKind int32

const (
	ReadAccess AccessKind = iota + 1
	WriteAccess
	DeleteAccess
)

func (k AccessKind) String() string {
	switch k {
	case ReadAccess:
		return "read"
	case WriteAccess:
		return "write"
	case DeleteAccess:
		return "delete"
	default:
		return fmt.Sprintf("AccessKind(%d)", k)
	}
}

// Access is a single state access. Value is the value read or written, nil
// for a delete or a miss.
type Access struct {
	Kind  AccessKind
	Key   []byte
	Value []byte
}

// Recorder interface is implemented by anything returned from
// NewRecordingStore
type Recorder interface {
	// Accesses returns all recorded state accesses in the order they
	// happened.
	Accesses() []Access
	// KVPairs returns the net result of all writes. A deleted key maps to
	// nil.
	KVPairs() map[string][]byte
}

// RecordingStore wraps a cache wrap and records every read and write that
// goes through it. Nested cache wraps taken from it are written back through
// the recorder, so their writes are traced as well.
type RecordingStore struct {
	db KVCacheWrap

	mu       sync.Mutex
	accesses []Access
}

var _ KVCacheWrap = (*RecordingStore)(nil)
var _ Recorder = (*RecordingStore)(nil)

// NewRecordingStore initializes a recording store wrapping this
// cache wrap.
func NewRecordingStore(db KVCacheWrap) *RecordingStore {
	return &RecordingStore{db: db}
}

func (r *RecordingStore) record(kind AccessKind, key, value []byte) {
	r.mu.Lock()
	r.accesses = append(r.accesses, Access{
		Kind:  kind,
		Key:   append([]byte(nil), key...),
		Value: append([]byte(nil), value...),
	})
	r.mu.Unlock()
}

// Accesses returns a copy of the recorded trace.
func (r *RecordingStore) Accesses() []Access {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Access, len(r.accesses))
	copy(res, r.accesses)
	return res
}

// KVPairs returns the content of changes as KVPairs
// Key is the merkle store key that changes.
// Value is the value writen (for set), or nil (for delete)
func (r *RecordingStore) KVPairs() map[string][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	changes := make(map[string][]byte)
	for _, a := range r.accesses {
		switch a.Kind {
		case WriteAccess:
			changes[string(a.Key)] = a.Value
		case DeleteAccess:
			changes[string(a.Key)] = nil
		}
	}
	return changes
}

// Get records the read while performing it.
func (r *RecordingStore) Get(key []byte) ([]byte, error) {
	val, err := r.db.Get(key)
	if err != nil {
		return nil, err
	}
	r.record(ReadAccess, key, val)
	return val, nil
}

// Has records the read while performing it.
func (r *RecordingStore) Has(key []byte) (bool, error) {
	has, err := r.db.Has(key)
	if err != nil {
		return false, err
	}
	r.record(ReadAccess, key, nil)
	return has, nil
}

// Set records the changes while performing
func (r *RecordingStore) Set(key, value []byte) error {
	if err := r.db.Set(key, value); err != nil {
		return err
	}
	r.record(WriteAccess, key, value)
	return nil
}

// Delete records the changes while performing
func (r *RecordingStore) Delete(key []byte) error {
	if err := r.db.Delete(key); err != nil {
		return err
	}
	r.record(DeleteAccess, key, nil)
	return nil
}

// Iterator records every item read through the returned iterator.
func (r *RecordingStore) Iterator(start, end []byte) (Iterator, error) {
	it, err := r.db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return &recorderIterator{it: it, rec: r}, nil
}

// ReverseIterator records every item read through the returned iterator.
func (r *RecordingStore) ReverseIterator(start, end []byte) (Iterator, error) {
	it, err := r.db.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return &recorderIterator{it: it, rec: r}, nil
}

// NewBatch makes sure all writes go through this one
func (r *RecordingStore) NewBatch() Batch {
	return NewNonAtomicBatch(r)
}

// CacheWrap makes sure all cached writes also go through this
func (r *RecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// Write writes all changes to the wrapped cache wrap.
func (r *RecordingStore) Write() error {
	return r.db.Write()
}

// Discard drops all changes. The trace is kept.
func (r *RecordingStore) Discard() {
	r.db.Discard()
}

type recorderIterator struct {
	it  Iterator
	rec *RecordingStore
}

func (i *recorderIterator) Next() ([]byte, []byte, error) {
	key, value, err := i.it.Next()
	if err != nil {
		return nil, nil, err
	}
	i.rec.record(ReadAccess, key, value)
	return key, value, nil
}

func (i *recorderIterator) Release() {
	i.it.Release()
}
