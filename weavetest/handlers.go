package weavetest

import "github.com/iov-one/nestedsafe"

// Handler is a mock implementing nestedsafe.Handler. It returns configured
// Result and Err and counts how many times it was called.
//
// When Key is set, the Key/Value pair is written to the store before
// returning, so that rollbacks can be observed.
type Handler struct {
	calls    int
	payloads [][]byte

	Result []byte
	Err    error

	Key   []byte
	Value []byte
}

var _ nestedsafe.Handler = (*Handler)(nil)

func (h *Handler) Call(ctx nestedsafe.Context, db nestedsafe.KVStore, payload []byte) ([]byte, error) {
	h.calls++
	h.payloads = append(h.payloads, payload)
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	return h.Result, h.Err
}

// CallCount returns how many times this handler was called.
func (h *Handler) CallCount() int {
	return h.calls
}

// Payloads returns all payloads this handler was called with, in order.
func (h *Handler) Payloads() [][]byte {
	return h.payloads
}

// Resolver is a mock implementing nestedsafe.Resolver that serves a fixed
// set of handlers.
type Resolver map[string]nestedsafe.Handler

var _ nestedsafe.Resolver = Resolver(nil)

func (r Resolver) Resolve(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	return r[string(target)], nil
}
