package multisig

import "github.com/iov-one/nestedsafe/errors"

// ErrReplayRejected is returned when a payload is bound to a nonce that was
// already consumed.
var ErrReplayRejected = errors.Register(1030, "replay rejected")
