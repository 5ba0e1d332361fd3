package x

import (
	"github.com/iov-one/nestedsafe"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding one for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(nestedsafe.Context) []nestedsafe.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(nestedsafe.Context, nestedsafe.Address) bool
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx nestedsafe.Context, auth Authenticator) []nestedsafe.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]nestedsafe.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}
