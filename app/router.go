package app

import (
	"fmt"

	"github.com/iov-one/nestedsafe"
)

// Router dispatches calls to handlers. Handlers registered for a fixed
// address take precedence over resolvers, which are asked in registration
// order.
type Router struct {
	handlers  map[string]nestedsafe.Handler
	resolvers []nestedsafe.Resolver
}

var _ nestedsafe.Registry = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]nestedsafe.Handler),
	}
}

// Handle binds a handler to an address. This function panics if the
// address is invalid or already has a handler.
func (r *Router) Handle(target nestedsafe.Address, h nestedsafe.Handler) {
	if err := target.Validate(); err != nil {
		panic(fmt.Sprintf("invalid route address: %s", err))
	}
	if _, ok := r.handlers[string(target)]; ok {
		panic(fmt.Sprintf("re-registering route: %s", target))
	}
	r.handlers[string(target)] = h
}

// Resolve adds a resolver consulted for addresses without a fixed handler.
func (r *Router) Resolve(res nestedsafe.Resolver) {
	r.resolvers = append(r.resolvers, res)
}

// Handler returns the handler serving the target, or nil if there is none.
func (r *Router) Handler(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	if h, ok := r.handlers[string(target)]; ok {
		return h, nil
	}
	for _, res := range r.resolvers {
		h, err := res.Resolve(db, target)
		if err != nil || h != nil {
			return h, err
		}
	}
	return nil, nil
}

// Resolver returns the router as a nestedsafe.Resolver.
func (r *Router) Resolver() nestedsafe.Resolver {
	return routerResolver{r}
}

type routerResolver struct {
	r *Router
}

func (rr routerResolver) Resolve(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	return rr.r.Handler(db, target)
}
