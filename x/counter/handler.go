package counter

import (
	"math"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/orm"
	"github.com/iov-one/nestedsafe/x"
)

// RegisterRoutes makes every stored counter serve calls addressed to it.
func RegisterRoutes(r nestedsafe.Registry, auth x.Authenticator) {
	r.Resolve(NewResolver(auth))
}

type Resolver struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ nestedsafe.Resolver = Resolver{}

func NewResolver(auth x.Authenticator) Resolver {
	return Resolver{auth: auth, bucket: NewBucket()}
}

func (r Resolver) Resolve(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	ok, err := r.bucket.Has(db, target)
	if err != nil || !ok {
		return nil, err
	}
	return counterHandler{auth: r.auth, bucket: r.bucket, addr: target}, nil
}

type counterHandler struct {
	auth   x.Authenticator
	bucket Bucket
	addr   nestedsafe.Address
}

// Call increments the counter and returns the new count. Only the owner
// can increment.
func (h counterHandler) Call(ctx nestedsafe.Context, db nestedsafe.KVStore, payload []byte) ([]byte, error) {
	var msg IncrementMsg
	if err := msg.Unmarshal(payload); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "increment")
	}
	c, err := h.bucket.GetCounter(db, h.addr)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, c.Owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "owner %s must call", c.Owner)
	}
	if c.Count > math.MaxInt64-msg.By {
		return nil, errors.Wrap(errors.ErrOverflow, "count")
	}
	c.Count += msg.By
	if err := h.bucket.Save(db, orm.NewSimpleObj(h.addr, c)); err != nil {
		return nil, err
	}
	nestedsafe.GetLogger(ctx).Debug("counter incremented", "counter", h.addr, "count", c.Count)
	return encodeCount(c.Count), nil
}
