package nestedsafe

import (
	"encoding/json"
)

// Handler is a contract that can process calls addressed to it. This could
// represent "approve a hash on a safe", or "increment a counter".
//
// The caller authority is not an argument. It is carried by the context and
// must be read through an Authenticator.
type Handler interface {
	Call(ctx Context, db KVStore, payload []byte) ([]byte, error)
}

// HandlerFunc turns a function into a Handler.
type HandlerFunc func(ctx Context, db KVStore, payload []byte) ([]byte, error)

// Call implements Handler.
func (fn HandlerFunc) Call(ctx Context, db KVStore, payload []byte) ([]byte, error) {
	return fn(ctx, db, payload)
}

// Resolver finds the Handler serving calls to a given target.
//
// Resolve returns (nil, nil) when the target is not served. Resolution is
// done against the state, because contracts like safes are created at
// runtime.
type Resolver interface {
	Resolve(db ReadOnlyKVStore, target Address) (Handler, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(target Address, h Handler)
	Resolve(r Resolver)
}

// Options are the environment genesis options.
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis passes the options to every initializer in order.
func (c chainInitializer) FromGenesis(opts Options, db KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
