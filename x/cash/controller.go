package cash

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// Controller is the functionality needed by other extensions to move value
// around.
type Controller interface {
	Balance(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (uint64, error)
	Transfer(db nestedsafe.KVStore, src, dst nestedsafe.Address, amount uint64) error
	Issue(db nestedsafe.KVStore, dst nestedsafe.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the value held by given address.
func (c BaseController) Balance(db nestedsafe.ReadOnlyKVStore, addr nestedsafe.Address) (uint64, error) {
	_, bal, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return bal.Amount, nil
}

// Transfer moves the given amount from src to dst.
// If src doesn't have sufficient value, it fails without any writes.
func (c BaseController) Transfer(db nestedsafe.KVStore, src, dst nestedsafe.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	sender, senderBal, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return err
	}
	if senderBal.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, needs %d", src, senderBal.Amount, amount)
	}
	if src.Equals(dst) {
		return nil
	}
	recipient, recipientBal, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if recipientBal.Amount+amount < recipientBal.Amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}

	senderBal.Amount -= amount
	recipientBal.Amount += amount
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// Issue attempts to add the given amount to the destination address.
// Fails if it overflows the balance.
func (c BaseController) Issue(db nestedsafe.KVStore, dst nestedsafe.Address, amount uint64) error {
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, bal, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if bal.Amount+amount < bal.Amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	bal.Amount += amount
	return c.bucket.Save(db, recipient)
}
