package multisig

import (
	"context"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/x"
)

type contextKey int // local to the multisig module

const (
	contextKeySafe contextKey = iota
)

// withSafe is a private method, as only this module can authenticate a
// safe. The executing safe replaces any previously authenticated one, so
// that handlers always see the direct caller.
func withSafe(ctx nestedsafe.Context, id []byte) nestedsafe.Context {
	return context.WithValue(ctx, contextKeySafe, SafeCondition(id))
}

// Authenticate gets the safe that is executing the current call batch.
type Authenticate struct {
}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the condition of the executing safe, if any.
func (a Authenticate) GetConditions(ctx nestedsafe.Context) []nestedsafe.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySafe).(nestedsafe.Condition)
	if val == nil {
		return nil
	}
	return []nestedsafe.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx nestedsafe.Context, addr nestedsafe.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
