package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x"
)

// RegisterRoutes will instantiate and register all safe contracts. Every
// stored safe serves calls addressed to it.
func RegisterRoutes(r nestedsafe.Registry, auth x.Authenticator) {
	r.Resolve(NewResolver(auth))
}

// Resolver serves calls addressed to safes.
type Resolver struct {
	auth      x.Authenticator
	safes     SafeBucket
	approvals ApprovalBucket
}

var _ nestedsafe.Resolver = Resolver{}

// NewResolver returns a resolver authenticating callers with given auth.
func NewResolver(auth x.Authenticator) Resolver {
	return Resolver{
		auth:      auth,
		safes:     NewSafeBucket(),
		approvals: NewApprovalBucket(),
	}
}

// Resolve returns the contract of the safe stored under target, or nil if
// target is not a safe.
func (r Resolver) Resolve(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	ok, err := r.safes.Has(db, target)
	if err != nil || !ok {
		return nil, err
	}
	return safeHandler{
		auth:      r.auth,
		safe:      target,
		safes:     r.safes,
		approvals: r.approvals,
	}, nil
}

// safeHandler is the contract of a single safe.
type safeHandler struct {
	auth      x.Authenticator
	safe      nestedsafe.Address
	safes     SafeBucket
	approvals ApprovalBucket
}

// Call accepts an ApproveHashMsg. An empty payload is a plain value
// transfer to the safe.
func (h safeHandler) Call(ctx nestedsafe.Context, db nestedsafe.KVStore, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var msg ApproveHashMsg
	if err := msg.Unmarshal(payload); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "approve hash")
	}

	safe, err := h.safes.MustGetSafe(db, h.safe)
	if err != nil {
		return nil, err
	}
	approver := h.caller(ctx, safe)
	if approver == nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "caller is not an owner of %s", safe.Address)
	}

	approval := &Approval{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		Approver: approver,
		Owner:    safe.Address,
		Hash:     msg.Hash,
	}
	if err := h.approvals.Record(db, approval); err != nil {
		return nil, err
	}
	nestedsafe.GetLogger(ctx).Info("hash approved",
		"approver", approver, "owner", safe.Address, "hash", hashString(msg.Hash))
	return msg.Hash, nil
}

// caller returns the first authenticated address that owns the safe, if any.
func (h safeHandler) caller(ctx nestedsafe.Context, safe *Safe) nestedsafe.Address {
	for _, a := range x.GetAddresses(ctx, h.auth) {
		if safe.IsOwner(a) {
			return a
		}
	}
	return nil
}
