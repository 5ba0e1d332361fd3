package simulation

import "github.com/iov-one/nestedsafe/errors"

// ErrPostCheckFailed is returned when a post check rejected the state
// produced by a simulated execution.
var ErrPostCheckFailed = errors.Register(1060, "post check failed")
