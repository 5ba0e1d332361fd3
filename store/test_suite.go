package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

// TestSuite checks the fork semantics every CacheableKVStore must provide:
// a cache wrap reads through to its parent, keeps its own writes private
// until Write and drops them on Discard. Batch savepoints and simulation
// forks rely on exactly these properties.
//
// Package tests provide a constructor for the store under test and call Run
// or the individual checks.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh empty store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// Run executes all checks of the suite as subtests.
func (s *TestSuite) Run(t *testing.T) {
	t.Run("get set", s.GetSet)
	t.Run("savepoints", s.Savepoints)
	t.Run("cache conflicts", s.CacheConflicts)
	t.Run("fuzz iterator", s.FuzzIterator)
	t.Run("iterator with conflicts", s.IteratorWithConflicts)
}

// GetSet checks that a fork sees its parent, that fork writes reach the
// parent only on Write and that a discarded fork leaves no trace.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	safe, nonce := []byte("safe"), []byte{0, 0, 0, 1}
	s.AssertGetHas(t, base, safe, nil, false)
	assert.Nil(t, base.Set(safe, nonce))
	s.AssertGetHas(t, base, safe, nonce, true)

	fork := base.CacheWrap()
	s.AssertGetHas(t, fork, safe, nonce, true)

	approval, mark := []byte("approval"), []byte{1}
	assert.Nil(t, fork.Set(approval, mark))
	s.AssertGetHas(t, fork, approval, mark, true)
	s.AssertGetHas(t, base, approval, nil, false)

	assert.Nil(t, fork.Write())
	s.AssertGetHas(t, base, safe, nonce, true)
	s.AssertGetHas(t, base, approval, mark, true)

	// A simulation fork is always discarded.
	counter := []byte("counter")
	sim := base.CacheWrap()
	s.AssertGetHas(t, sim, safe, nonce, true)
	assert.Nil(t, sim.Set(counter, []byte{7}))
	sim.Discard()
	s.AssertGetHas(t, base, counter, nil, false)

	// A fork opened before a delete was written sees the parent change
	// for keys it did not touch itself.
	del := base.CacheWrap()
	assert.Nil(t, del.Delete(safe))
	assert.Nil(t, del.Write())
	s.AssertGetHas(t, sim, safe, nil, false)
	s.AssertGetHas(t, sim, approval, mark, true)
	s.AssertGetHas(t, sim, counter, nil, false)
}

// Savepoints checks nested forks the way a batch uses them: the batch runs
// in one fork and each call runs in a fork of it. A failed call discards its
// own fork only, while the enclosing fork still decides about everything.
func (s *TestSuite) Savepoints(t *testing.T) {
	cases := map[string]struct {
		callOK    []bool
		writeTx   bool
		wantBase  []Model
		wantEmpty [][]byte
	}{
		"all calls succeed": {
			callOK:   []bool{true, true},
			writeTx:  true,
			wantBase: []Model{Pair([]byte("call-0"), []byte("ok")), Pair([]byte("call-1"), []byte("ok"))},
		},
		"failed call is rolled back alone": {
			callOK:    []bool{true, false, true},
			writeTx:   true,
			wantBase:  []Model{Pair([]byte("call-0"), []byte("ok")), Pair([]byte("call-2"), []byte("ok"))},
			wantEmpty: [][]byte{[]byte("call-1")},
		},
		"discarded transaction drops written calls": {
			callOK:    []bool{true, true},
			writeTx:   false,
			wantEmpty: [][]byte{[]byte("call-0"), []byte("call-1")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			tx := base.CacheWrap()
			for i, ok := range tc.callOK {
				key := []byte{'c', 'a', 'l', 'l', '-', byte('0' + i)}
				call := tx.CacheWrap()
				assert.Nil(t, call.Set(key, []byte("ok")))
				s.AssertGetHas(t, tx, key, nil, false)
				if ok {
					assert.Nil(t, call.Write())
				} else {
					call.Discard()
				}
			}
			if tc.writeTx {
				assert.Nil(t, tx.Write())
			} else {
				tx.Discard()
			}

			for _, m := range tc.wantBase {
				s.AssertGetHas(t, base, m.Key, m.Value, true)
			}
			for _, k := range tc.wantEmpty {
				s.AssertGetHas(t, base, k, nil, false)
			}
		})
	}
}

// CacheConflicts checks overwrites and deletes of parent values in a fork.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(10, 16)
	vs := randKeys(20, 40)

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is queried, Value is expected. Nil means absent.
		parentQueries []Model
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[11]), SetOp(ks[3], vs[7]), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], vs[1]), Pair(ks[2], vs[2]), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], vs[11]), Pair(ks[2], nil), Pair(ks[3], vs[7])},
		},
		"set after delete restores a value": {
			parentOps:     []Op{SetOp(ks[4], vs[4])},
			childOps:      []Op{DelOp(ks[4]), SetOp(ks[4], vs[14])},
			parentQueries: []Model{Pair(ks[4], vs[4])},
			childQueries:  []Model{Pair(ks[4], vs[14])},
		},
		"delete of a missing key": {
			parentOps:     []Op{SetOp(ks[5], vs[5])},
			childOps:      []Op{DelOp(ks[6])},
			parentQueries: []Model{Pair(ks[5], vs[5]), Pair(ks[6], nil)},
			childQueries:  []Model{Pair(ks[5], vs[5]), Pair(ks[6], nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator iterates random data spread over a parent and a fork, with
// random deletes of keys that do not exist.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50
	const deletes = 20

	childSet := randModels(size, 8, 40)
	childOps := append(makeSetOps(childSet...), makeDelOps(randModels(deletes, 8, 40)...)...)
	parentSet := randModels(size, 8, 40)
	parentOps := append(makeSetOps(parentSet...), makeDelOps(randModels(deletes, 8, 40)...)...)

	child := sortModels(childSet)
	both := sortModels(append(childSet, parentSet...))

	cases := map[string]iterCase{
		"fork over an empty parent": {
			child:   childOps,
			queries: rangeQueries(child),
		},
		"fork merges with its parent": {
			pre:     parentOps,
			child:   childOps,
			queries: rangeQueries(both),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// rangeQueries returns forward and reverse queries over sorted models that
// are unbounded, bounded on one side and bounded on both sides.
func rangeQueries(sorted []Model) []rangeQuery {
	n := len(sorted)
	return []rangeQuery{
		{nil, nil, false, sorted},
		{sorted[10].Key, nil, false, sorted[10:]},
		{nil, sorted[n-8].Key, false, sorted[:n-8]},
		{sorted[17].Key, sorted[28].Key, false, sorted[17:28]},

		{nil, nil, true, reverse(sorted)},
		{sorted[34].Key, nil, true, reverse(sorted[34:])},
		{nil, sorted[19].Key, true, reverse(sorted[:19])},
		{sorted[6].Key, sorted[26].Key, true, reverse(sorted[6:26])},
	}
}

// IteratorWithConflicts iterates a fork that overwrites and deletes parent
// values.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key = a.Key
	b2.Key = b.Key

	abc := sortModels([]Model{a, b, c})
	overwritten := sortModels([]Model{a2, b2, c, d})

	cases := map[string]iterCase{
		"fork only": {
			child: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"split between parent and fork": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"fork values shadow the parent": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, overwritten},
				{overwritten[1].Key, overwritten[3].Key, false, overwritten[1:3]},
				{nil, nil, true, reverse(overwritten)},
			},
		},
		"fork deletes hide the parent": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas fails the test unless Get and Has agree with the expectation.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

// iterCase applies pre to the base and child to a fork of it, then runs
// every query against the fork.
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}
	fork := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(fork))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = fork.ReverseIterator(q.start, q.end)
		} else {
			iter, err = fork.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("want key %d: %X\n got %X", n, want.Key, key)
			}
			assert.Equal(t, want.Value, value)
		}
		if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want iterator done, got %+v", err)
		}
		iter.Release()
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
