package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/iov-one/nestedsafe/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

type btreeIter struct {
	reverse bool
	data    btree.Item
	hasMore bool
	read    <-chan btree.Item
	stop    chan<- struct{}
	once    sync.Once
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

func newBtreeIter(reverse bool) (*btreeIter, chan<- btree.Item, btree.ItemIterator) {
	read := make(chan btree.Item)
	// ensure we never block when we call close()
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		reverse: reverse,
		read:    read,
		stop:    stop,
	}
	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			return false
		}
	}
	return iter, read, insert
}

// ascendBtree streams all items of the given range in ascending order.
func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	iter, read, insert := newBtreeIter(false)
	go func() {
		defer close(read)
		if start == nil && end == nil {
			bt.Ascend(insert)
		} else if start == nil { // end != nil
			bt.AscendLessThan(bkey{end}, insert)
		} else if end == nil { // start != nil
			bt.AscendGreaterOrEqual(bkey{start}, insert)
		} else { // both != nil
			bt.AscendRange(bkey{start}, bkey{end}, insert)
		}
	}()
	iter.next()
	return iter
}

// descendBtree streams all items of the given range in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	iter, read, insert := newBtreeIter(true)
	go func() {
		defer close(read)
		if start == nil && end == nil {
			bt.Descend(insert)
		} else if start == nil { // end != nil
			bt.DescendLessOrEqual(bkeyLess{end}, insert)
		} else if end == nil { // start != nil
			bt.DescendGreaterThan(bkeyLess{start}, insert)
		} else { // both != nil
			bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
		}
	}()
	iter.next()
	return iter
}

func (b *btreeIter) wrap(parentIter Iterator) (*itemIter, error) {
	p := &peeker{it: parentIter}
	if err := p.advance(); err != nil {
		b.close()
		parentIter.Release()
		return nil, err
	}
	return &itemIter{
		wrap:   b,
		parent: p,
	}, nil
}

func (b *btreeIter) next() {
	b.data, b.hasMore = <-b.read
}

// close stops the producer and waits until it is gone, so the tree is not
// read after the iterator is released.
func (b *btreeIter) close() {
	b.once.Do(func() {
		b.stop <- struct{}{}
		for range b.read {
		}
		b.hasMore = false
	})
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.data.(keyer)
}

func (b *btreeIter) valid() bool {
	return b.hasMore
}

// peeker buffers the next item of an Iterator, so that it can be compared
// with the cached items before being consumed.
type peeker struct {
	it    Iterator
	key   []byte
	value []byte
	valid bool
}

func (p *peeker) advance() error {
	key, value, err := p.it.Next()
	switch {
	case err == nil:
		p.key, p.value, p.valid = key, value, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		p.key, p.value, p.valid = nil, nil, false
		return nil
	default:
		p.valid = false
		return err
	}
}

type itemIter struct {
	wrap *btreeIter
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent *peeker
}

var _ Iterator = (*itemIter)(nil)

// Next returns the lowest (or highest when iterating in reverse) key that
// is present in the cache or in the parent, skipping deleted entries.
func (i *itemIter) Next() (key, value []byte, err error) {
	if err := i.skipAllDeleted(); err != nil {
		return nil, nil, err
	}

	switch i.firstKey() {
	case us:
		item := i.wrap.get().(setItem)
		key, value = item.Key(), item.value
		i.wrap.next()
	case both:
		item := i.wrap.get().(setItem)
		key, value = item.Key(), item.value
		i.wrap.next()
		err = i.parent.advance()
	case parent:
		key, value = i.parent.key, i.parent.value
		err = i.parent.advance()
	default:
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "btree iterator")
	}
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.it.Release()
	i.wrap.close()
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() error {
	for {
		more, err := i.skipDeleted()
		if err != nil || !more {
			return err
		}
	}
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src != us && src != both {
		return false, nil
	}
	// if our next is deleted, advance...
	if _, ok := i.wrap.get().(deletedItem); !ok {
		return false, nil
	}
	i.wrap.next()
	// if parent had the same key, advance parent as well
	if src == both {
		if err := i.parent.advance(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// firstKey selects the iterator that holds the next key in iteration order,
// if any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parent.valid {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.key, i.wrap.get().Key())
	if i.wrap.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
