package batch

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// Call is a single invocation of the handler serving Target.
type Call struct {
	Target       nestedsafe.Address `json:"target"`
	Payload      []byte             `json:"payload,omitempty"`
	Value        uint64             `json:"value,omitempty"`
	AllowFailure bool               `json:"allow_failure,omitempty"`
}

// Validate ensures the call is addressed to a valid target.
func (c Call) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return errors.Field("Target", err, "invalid target")
	}
	return nil
}

// CallBatch is an ordered list of calls executed atomically.
type CallBatch struct {
	Calls []Call `json:"calls"`
}

var _ nestedsafe.Persistent = (*CallBatch)(nil)

// NewCallBatch returns a batch of given calls.
func NewCallBatch(calls ...Call) *CallBatch {
	return &CallBatch{Calls: calls}
}

func (b *CallBatch) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*b)
}

func (b *CallBatch) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, b)
}

// Validate ensures the batch is not empty and all calls are valid.
func (b *CallBatch) Validate() error {
	if b == nil || len(b.Calls) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no calls")
	}
	var errs error
	for i, c := range b.Calls {
		if err := c.Validate(); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "call %d", i))
		}
	}
	return errs
}

// call3Value mirrors the Multicall3 Call3Value structure. Field names are
// bound to the ABI component names.
type call3Value struct {
	Target       common.Address
	AllowFailure bool
	Value        *big.Int
	CallData     []byte
}

var call3ValueArgs = mustCall3ValueArgs()

func mustCall3ValueArgs() abi.Arguments {
	typ, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "target", Type: "address"},
		{Name: "allowFailure", Type: "bool"},
		{Name: "value", Type: "uint256"},
		{Name: "callData", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: typ}}
}

// Encode returns the ABI encoding of the calls as a
// (address,bool,uint256,bytes)[] argument, in batch order.
func (b *CallBatch) Encode() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	calls := make([]call3Value, len(b.Calls))
	for i, c := range b.Calls {
		calls[i] = call3Value{
			Target:       common.BytesToAddress(c.Target),
			AllowFailure: c.AllowFailure,
			Value:        new(big.Int).SetUint64(c.Value),
			CallData:     c.Payload,
		}
		// abi packs nil slices fine, but keep the empty form stable.
		if calls[i].CallData == nil {
			calls[i].CallData = []byte{}
		}
	}
	raw, err := call3ValueArgs.Pack(calls)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// TotalValue returns the sum of all call values.
func (b *CallBatch) TotalValue() (uint64, error) {
	var total uint64
	for _, c := range b.Calls {
		if total+c.Value < total {
			return 0, errors.Wrap(errors.ErrOverflow, "total value")
		}
		total += c.Value
	}
	return total, nil
}

// CallResult describes the outcome of a single call.
type CallResult struct {
	Success bool
	Data    []byte
	// Log holds the reason of a failure of a call that was allowed to fail.
	Log string
}

// Result is returned by a successful batch execution.
type Result struct {
	Results []CallResult
	// Data combines the data of all calls as a length prefixed amino
	// array.
	Data []byte
}
