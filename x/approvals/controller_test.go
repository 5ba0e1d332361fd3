package approvals

import (
	"context"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/crypto"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/iov-one/nestedsafe/weavetest/assert"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
	. "github.com/smartystreets/goconvey/convey"
)

const testChainID = "test-chain"

func testContext() nestedsafe.Context {
	return nestedsafe.WithChainID(context.Background(), testChainID)
}

func newExecutor() *batch.Executor {
	return batch.NewExecutor(multisig.NewResolver(multisig.Authenticate{}), nil)
}

func createSafe(t testing.TB, db nestedsafe.KVStore, threshold int32, owners ...nestedsafe.Address) *multisig.Safe {
	t.Helper()
	s, err := multisig.CreateSafe(db, owners, threshold)
	assert.Nil(t, err)
	return s
}

func sign(t testing.TB, hash []byte, keys ...crypto.Signer) []*sigs.StdSignature {
	t.Helper()
	res := make([]*sigs.StdSignature, len(keys))
	for i, k := range keys {
		sig, err := sigs.Sign(k, hash)
		assert.Nil(t, err)
		res[i] = sig
	}
	return res
}

func addr(k crypto.Signer) nestedsafe.Address {
	return k.PublicKey().Address()
}

func TestApprove(t *testing.T) {
	Convey("Given an owner safe of two intermediate safes", t, func() {
		db := store.MemStore()
		ctx := testContext()
		exec := newExecutor()

		w1, w2, w3 := weavetest.NewKey(), weavetest.NewKey(), weavetest.NewKey()
		safeA := createSafe(t, db, 2, addr(w1), addr(w2))
		safeB := createSafe(t, db, 1, addr(w3))
		owner := createSafe(t, db, 2, safeA.Address, safeB.Address)

		target := weavetest.NewCondition().Address()
		_, hash, err := ProposeHash(db, testChainID, owner.Address,
			batch.NewCallBatch(batch.Call{Target: target, Payload: []byte("inc")}))
		So(err, ShouldBeNil)

		approvalHash := func(approver *multisig.Safe) []byte {
			_, h, err := ApprovalPayload(db, testChainID, approver.Address, owner.Address, hash)
			So(err, ShouldBeNil)
			return h
		}

		Convey("When not enough members of the first safe signed", func() {
			_, err := Approve(ctx, db, exec, ApproveRequest{
				Approver:   safeA.Address,
				Owner:      owner.Address,
				Hash:       hash,
				Signatures: sign(t, approvalHash(safeA), w1, w1),
			})

			Convey("Then the approval is rejected without any state change", func() {
				So(ErrInsufficientSignatures.Is(err), ShouldBeTrue)
				ok, err := multisig.HasApproval(db, safeA.Address, hash)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				s, err := multisig.GetSafe(db, safeA.Address)
				So(err, ShouldBeNil)
				So(s.Nonce, ShouldEqual, 0)
			})
		})

		Convey("When all members of the first safe signed", func() {
			h := approvalHash(safeA)
			proof, err := Approve(ctx, db, exec, ApproveRequest{
				Approver:   safeA.Address,
				Owner:      owner.Address,
				Hash:       hash,
				Signatures: sign(t, h, w2, w1),
			})
			So(err, ShouldBeNil)

			Convey("Then the approval is recorded and the approver nonce is consumed", func() {
				So(proof.Owners(), ShouldHaveLength, 2)
				ok, err := multisig.HasApproval(db, safeA.Address, hash)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				s, err := multisig.GetSafe(db, safeA.Address)
				So(err, ShouldBeNil)
				So(s.Nonce, ShouldEqual, 1)
			})

			Convey("Then the owner is not ready yet", func() {
				ready, err := CheckReady(db, owner.Address, hash)
				So(err, ShouldBeNil)
				So(ready, ShouldBeFalse)
			})

			Convey("Then approving again fails", func() {
				_, err := Approve(ctx, db, exec, ApproveRequest{
					Approver:   safeA.Address,
					Owner:      owner.Address,
					Hash:       hash,
					Signatures: sign(t, approvalHash(safeA), w1, w2),
				})
				So(errors.ErrDuplicate.Is(err), ShouldBeTrue)
			})

			Convey("And the second safe approved with an extra foreign signature", func() {
				h := approvalHash(safeB)
				signatures := append(sign(t, h, weavetest.NewKey()), sign(t, h, w3)...)
				_, err := Approve(ctx, db, exec, ApproveRequest{
					Approver:   safeB.Address,
					Owner:      owner.Address,
					Hash:       hash,
					Signatures: signatures,
				})
				So(err, ShouldBeNil)

				Convey("Then the owner is ready", func() {
					ready, err := CheckReady(db, owner.Address, hash)
					So(err, ShouldBeNil)
					So(ready, ShouldBeTrue)
				})
			})
		})

		Convey("When a safe that is not an owner approves", func() {
			other := createSafe(t, db, 1, addr(w1))
			_, err := Approve(ctx, db, exec, ApproveRequest{
				Approver:   other.Address,
				Owner:      owner.Address,
				Hash:       hash,
				Signatures: sign(t, approvalHash(other), w1),
			})
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
		})

		Convey("When the owner safe does not exist", func() {
			_, err := Approve(ctx, db, exec, ApproveRequest{
				Approver: safeA.Address,
				Owner:    weavetest.NewCondition().Address(),
				Hash:     hash,
			})
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})
	})
}

func TestApproveThreeLevels(t *testing.T) {
	db := store.MemStore()
	ctx := testContext()
	exec := newExecutor()

	w1, w2 := weavetest.NewKey(), weavetest.NewKey()
	leaf := createSafe(t, db, 1, addr(w1))
	middle := createSafe(t, db, 2, leaf.Address, addr(w2))
	owner := createSafe(t, db, 1, middle.Address)

	_, hash, err := ProposeHash(db, testChainID, owner.Address,
		batch.NewCallBatch(batch.Call{Target: weavetest.NewCondition().Address()}))
	assert.Nil(t, err)
	_, middleHash, err := ApprovalPayload(db, testChainID, middle.Address, owner.Address, hash)
	assert.Nil(t, err)

	// The leaf alone cannot approve for the middle safe.
	_, err = Approve(ctx, db, exec, ApproveRequest{
		Approver: middle.Address,
		Owner:    owner.Address,
		Hash:     hash,
	})
	if !ErrInsufficientSignatures.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	_, leafHash, err := ApprovalPayload(db, testChainID, leaf.Address, middle.Address, middleHash)
	assert.Nil(t, err)
	_, err = Approve(ctx, db, exec, ApproveRequest{
		Approver:   leaf.Address,
		Owner:      middle.Address,
		Hash:       middleHash,
		Signatures: sign(t, leafHash, w1),
	})
	assert.Nil(t, err)

	proof, err := Approve(ctx, db, exec, ApproveRequest{
		Approver:   middle.Address,
		Owner:      owner.Address,
		Hash:       hash,
		Signatures: sign(t, middleHash, w2),
	})
	assert.Nil(t, err)

	var markers int
	for _, e := range proof.Entries {
		if e.IsMarker() {
			markers++
			assert.Equal(t, leaf.Address, e.Owner)
		}
	}
	assert.Equal(t, 1, markers)

	ready, err := CheckReady(db, owner.Address, hash)
	assert.Nil(t, err)
	assert.Equal(t, true, ready)
}

func TestCount(t *testing.T) {
	db := store.MemStore()
	ctx := testContext()
	w1, w2, w3 := weavetest.NewKey(), weavetest.NewKey(), weavetest.NewKey()
	safe := createSafe(t, db, 2, addr(w1), addr(w2), addr(w3))
	hash := make([]byte, sigs.HashLength)
	hash[0] = 7
	other := make([]byte, sigs.HashLength)

	cases := map[string]struct {
		sigs      []*sigs.StdSignature
		wantCount int
		wantReady bool
	}{
		"no signatures": {
			wantCount: 0,
		},
		"one owner": {
			sigs:      sign(t, hash, w1),
			wantCount: 1,
		},
		"repeated owner counts once": {
			sigs:      sign(t, hash, w1, w1, w1),
			wantCount: 1,
		},
		"two owners": {
			sigs:      sign(t, hash, w3, w1),
			wantCount: 2,
			wantReady: true,
		},
		"non owner ignored": {
			sigs:      sign(t, hash, w2, weavetest.NewKey()),
			wantCount: 1,
		},
		"signature of another hash ignored": {
			sigs:      append(sign(t, other, w2), sign(t, hash, w3)...),
			wantCount: 1,
		},
		"nil signature ignored": {
			sigs:      append([]*sigs.StdSignature{nil}, sign(t, hash, w1, w2)...),
			wantCount: 2,
			wantReady: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tally, err := Count(ctx, db, safe, hash, tc.sigs)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCount, tally.Count())
			assert.Equal(t, tc.wantReady, tally.Ready())
			assert.Equal(t, tc.wantCount, len(tally.Proof().Entries))
		})
	}
}

func TestProposeHashFollowsNonce(t *testing.T) {
	db := store.MemStore()
	safe := createSafe(t, db, 1, addr(weavetest.NewKey()))
	b := batch.NewCallBatch(batch.Call{Target: weavetest.NewCondition().Address()})

	payload, first, err := ProposeHash(db, testChainID, safe.Address, b)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), payload.Nonce)

	safe.Nonce = 3
	assert.Nil(t, multisig.NewSafeBucket().Put(db, safe))

	payload, second, err := ProposeHash(db, testChainID, safe.Address, b)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), payload.Nonce)
	if string(first) == string(second) {
		t.Fatal("hash must depend on the nonce")
	}

	_, _, err = ProposeHash(db, testChainID, weavetest.NewCondition().Address(), b)
	assert.IsErr(t, errors.ErrNotFound, err)
}
