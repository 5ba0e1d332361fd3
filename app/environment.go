package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/approvals"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/cash"
	"github.com/iov-one/nestedsafe/x/counter"
	"github.com/iov-one/nestedsafe/x/exec"
	"github.com/iov-one/nestedsafe/x/multisig"
	"github.com/iov-one/nestedsafe/x/sigs"
	"github.com/iov-one/nestedsafe/x/simulation"
	"github.com/tendermint/tendermint/libs/log"
)

// Environment is the state machine all safes live in.
//
// It is safe for concurrent use. Updates are serialized, which is what
// makes the nonce check of a safe final: out of two runs of the same
// payload, exactly one succeeds and the other is a replay.
type Environment struct {
	mu sync.RWMutex

	store        *CommitStore
	router       *Router
	bank         cash.Controller
	executor     *batch.Executor
	orchestrator *exec.Orchestrator
	simulator    *simulation.Simulator
	initializer  nestedsafe.Initializer

	logger  log.Logger
	chainID string
	baseCtx nestedsafe.Context
}

// NewEnvironment loads the latest state from the store and registers all
// extensions. The logger may be nil.
func NewEnvironment(store nestedsafe.CommitKVStore, logger log.Logger) (*Environment, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}

	router := NewRouter()
	auth := multisig.Authenticate{}
	multisig.RegisterRoutes(router, auth)
	counter.RegisterRoutes(router, auth)

	bank := cash.NewController()
	executor := batch.NewExecutor(router.Resolver(), bank)
	env := &Environment{
		store:        cs,
		router:       router,
		bank:         bank,
		executor:     executor,
		orchestrator: exec.NewOrchestrator(executor),
		simulator:    simulation.NewSimulator(executor),
		initializer: nestedsafe.ChainInitializers(
			batch.Initializer{},
			cash.Initializer{},
			&multisig.Initializer{},
			&counter.Initializer{},
		),
		logger:  logger,
		baseCtx: nestedsafe.WithLogger(context.Background(), logger),
	}

	cache := cs.CacheWrap()
	defer cache.Discard()
	chainID, err := loadChainID(cache)
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		env.setChainID(chainID)
	}
	return env, nil
}

func (e *Environment) setChainID(chainID string) {
	e.chainID = chainID
	e.baseCtx = nestedsafe.WithChainID(e.baseCtx, chainID)
}

// ChainID returns the chain ID set at genesis, or an empty string.
func (e *Environment) ChainID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chainID
}

// Router gives access to the router, so that more handlers can be
// registered. Must not be used once the environment is in use.
func (e *Environment) Router() *Router {
	return e.router
}

// InitGenesis stores the chain ID and initializes all extensions from the
// genesis app state. It can be done only once.
func (e *Environment) InitGenesis(gen Genesis) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", e.chainID)
	}
	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := e.initializer.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	id, err := e.store.Commit(cache)
	if err != nil {
		return err
	}
	e.setChainID(gen.ChainID)
	e.logger.Info("genesis loaded", "chain", gen.ChainID, "version", id.Version)
	return nil
}

// CommitInfo returns the latest committed version and hash.
func (e *Environment) CommitInfo() (nestedsafe.CommitID, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.CommitInfo()
}

// context must be called with the lock held.
func (e *Environment) context() (nestedsafe.Context, error) {
	if e.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	id, err := e.store.CommitInfo()
	if err != nil {
		return nil, err
	}
	return nestedsafe.WithHeight(e.baseCtx, id.Version), nil
}

// View runs fn against the latest state. Any write done by fn is dropped.
// Views run concurrently with each other.
func (e *Environment) View(fn func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error) error {
	return e.view("view", fn)
}

func (e *Environment) view(op string, fn func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error) (err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ctx, err := e.context()
	if err != nil {
		return err
	}
	start := time.Now()
	defer func() { logDuration(ctx, op, start, err, true) }()

	cache := e.store.CacheWrap()
	defer cache.Discard()
	return run(fn, ctx, cache)
}

// Update runs fn exclusively and commits its changes if it succeeds.
// Nothing is changed if fn fails.
func (e *Environment) Update(fn func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error) error {
	return e.update("update", fn)
}

func (e *Environment) update(op string, fn func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, err := e.context()
	if err != nil {
		return err
	}
	start := time.Now()
	defer func() { logDuration(ctx, op, start, err, false) }()

	cache := e.store.CacheWrap()
	if err := run(fn, ctx, cache); err != nil {
		cache.Discard()
		return err
	}
	id, err := e.store.Commit(cache)
	if err != nil {
		return err
	}
	e.logger.Debug("state committed", "version", id.Version)
	return nil
}

// run turns a panic of fn into an error.
func run(fn func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error, ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) (err error) {
	defer errors.Recover(&err)
	return fn(ctx, db)
}

// CreateSafe creates a new safe.
func (e *Environment) CreateSafe(owners []nestedsafe.Address, threshold int32) (*multisig.Safe, error) {
	var safe *multisig.Safe
	err := e.update("create safe", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		s, err := multisig.CreateSafe(db, owners, threshold)
		safe = s
		return err
	})
	return safe, err
}

// Safe returns the safe stored under given address or ErrNotFound.
func (e *Environment) Safe(addr nestedsafe.Address) (*multisig.Safe, error) {
	var safe *multisig.Safe
	err := e.view("get safe", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		s, err := multisig.GetSafe(db, addr)
		safe = s
		return err
	})
	return safe, err
}

// ProposeHash returns the payload and the hash of the batch executed by
// the safe at its current nonce.
func (e *Environment) ProposeHash(safe nestedsafe.Address, b *batch.CallBatch) (*sigs.SigningPayload, []byte, error) {
	var (
		payload *sigs.SigningPayload
		hash    []byte
	)
	err := e.view("propose hash", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		payload, hash, err = approvals.ProposeHash(db, nestedsafe.GetChainID(ctx), safe, b)
		return err
	})
	return payload, hash, err
}

// ApprovalPayload returns the payload members of the approver sign to
// approve the hash of the owner.
func (e *Environment) ApprovalPayload(approver, owner nestedsafe.Address, hash []byte) (*sigs.SigningPayload, []byte, error) {
	var (
		payload *sigs.SigningPayload
		h       []byte
	)
	err := e.view("approval payload", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		payload, h, err = approvals.ApprovalPayload(db, nestedsafe.GetChainID(ctx), approver, owner, hash)
		return err
	})
	return payload, h, err
}

// Approve records the approval of a hash by an intermediate safe.
func (e *Environment) Approve(req approvals.ApproveRequest) (*multisig.Proof, error) {
	var proof *multisig.Proof
	err := e.update("approve", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		p, err := approvals.Approve(ctx, db, e.executor, req)
		proof = p
		return err
	})
	return proof, err
}

// CheckReady tells if enough owners of the safe approved the hash.
func (e *Environment) CheckReady(owner nestedsafe.Address, hash []byte) (bool, error) {
	var ready bool
	err := e.view("check ready", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		ready, err = approvals.CheckReady(db, owner, hash)
		return err
	})
	return ready, err
}

// Approvals lists the hashes approved by given approver.
func (e *Environment) Approvals(approver nestedsafe.Address) ([]*multisig.Approval, error) {
	var res []*multisig.Approval
	err := e.view("approvals", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		res, err = multisig.ApprovalsBy(db, approver)
		return err
	})
	return res, err
}

// Run executes a transaction of a safe.
func (e *Environment) Run(req exec.RunRequest) (*exec.Receipt, error) {
	var receipt *exec.Receipt
	err := e.update("run", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		r, err := e.orchestrator.Run(ctx, db, req)
		receipt = r
		return err
	})
	return receipt, err
}

// Simulate executes a transaction on a fork of the latest state. The proof
// is optional. The state is never modified.
func (e *Environment) Simulate(payload *sigs.SigningPayload, proof *multisig.Proof, check simulation.PostCheck) (*simulation.Outcome, error) {
	var outcome *simulation.Outcome
	err := e.view("simulate", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		o, err := e.simulator.Simulate(ctx, db, payload, proof, check)
		outcome = o
		return err
	})
	return outcome, err
}

// Balance returns the balance of an address.
func (e *Environment) Balance(addr nestedsafe.Address) (uint64, error) {
	var amount uint64
	err := e.view("balance", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		amount, err = e.bank.Balance(db, addr)
		return err
	})
	return amount, err
}

// Counter returns the counter stored under given address or ErrNotFound.
func (e *Environment) Counter(addr nestedsafe.Address) (*counter.Counter, error) {
	var c *counter.Counter
	err := e.view("counter", func(ctx nestedsafe.Context, db nestedsafe.CacheableKVStore) error {
		var err error
		c, err = counter.NewBucket().GetCounter(db, addr)
		return err
	})
	return c, err
}
