package sigs

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/batch"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0x5A}

// HashLength is the size of the signing hash.
const HashLength = 32

// SigningPayload is everything that is authorized by a signature: the
// calls, the safe that executes them and the safe nonce they are bound to.
type SigningPayload struct {
	ChainID string             `json:"chain_id"`
	Safe    nestedsafe.Address `json:"safe"`
	Nonce   int64              `json:"nonce"`
	Batch   *batch.CallBatch   `json:"batch"`
}

// Validate returns an error if the payload cannot be signed.
func (p *SigningPayload) Validate() error {
	if p == nil {
		return errors.Wrap(errors.ErrEmpty, "signing payload")
	}
	var errs error
	if !nestedsafe.IsValidChainID(p.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Safe", p.Safe.Validate())
	if p.Nonce < 0 {
		errs = errors.AppendField(errs, "Nonce", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Batch", p.Batch.Validate())
	return errs
}

// SignBytes returns the canonical encoding of the payload.
func (p *SigningPayload) SignBytes() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	calls, err := p.Batch.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "encode calls")
	}
	return BuildSignBytes(p.ChainID, p.Safe, p.Nonce, ethcrypto.Keccak256(calls)), nil
}

// Hash returns the keccak256 of the sign bytes.
func (p *SigningPayload) Hash() ([]byte, error) {
	bz, err := p.SignBytes()
	if err != nil {
		return nil, err
	}
	return ethcrypto.Keccak256(bz), nil
}

// BuildSignBytes concatenates all the signed information. The input must
// be validated by the caller.
func BuildSignBytes(chainID string, safe nestedsafe.Address, nonce int64, callsDigest []byte) []byte {
	// encode nonce as 8 byte, big-endian
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, uint64(nonce))

	output := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(safe)+8+len(callsDigest))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	output = append(output, safe...)
	output = append(output, seq...)
	output = append(output, callsDigest...)
	return output
}

// Sign creates a signature of the given hash.
func Sign(signer Signer, hash []byte) (*StdSignature, error) {
	if len(hash) != HashLength {
		return nil, errors.Wrapf(errors.ErrInput, "hash length %d", len(hash))
	}
	sig, err := signer.Sign(hash)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}

// VerifySignature checks one signature against the hash and returns the
// condition of the signer.
func VerifySignature(sig *StdSignature, hash []byte) (nestedsafe.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(hash, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return sig.Pubkey.Condition(), nil
}

// VerifySignatures returns the conditions of all signers whose signature
// verifies against the hash, each at most once, in the order of the
// signatures. Signatures that do not verify are not attributable to
// anybody, so they are dropped and logged.
func VerifySignatures(ctx nestedsafe.Context, hash []byte, sigs []*StdSignature) []nestedsafe.Condition {
	logger := nestedsafe.GetLogger(ctx)
	var conds []nestedsafe.Condition
	for i, sig := range sigs {
		cond, err := VerifySignature(sig, hash)
		if err != nil {
			logger.Debug("signature dropped", "index", i, "err", err)
			continue
		}
		if containsCondition(conds, cond) {
			continue
		}
		conds = append(conds, cond)
	}
	return conds
}

func containsCondition(conds []nestedsafe.Condition, c nestedsafe.Condition) bool {
	for _, cc := range conds {
		if cc.Equals(c) {
			return true
		}
	}
	return false
}
