// Package host implements the execution environment the swap proxy runs in.
//
// A Runtime owns the ledger state, a directory of named keys and the set of
// installed services. Each Execute call is one invocation: it either completes
// or aborts with a single numeric code, and an abort reverts every state change
// made during the invocation, including those made by nested service calls.
package host

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/tos-network/swapproxy/apierror"
	"github.com/tos-network/swapproxy/metrics"
)

// EntryPoint is the method Execute invokes on the target service.
const EntryPoint = "call"

// MaxCallDepth bounds the nesting of service calls within one invocation.
const MaxCallDepth = 16

var (
	ErrServiceExists = errors.New("host: service already installed")
	ErrCallDepth     = errors.New("host: call depth exceeded")
)

// Service is a callable capability installed under a service hash.
type Service interface {
	Call(ctx *CallContext, method string, args Args) (Value, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx *CallContext, method string, args Args) (Value, error)

func (f ServiceFunc) Call(ctx *CallContext, method string, args Args) (Value, error) {
	return f(ctx, method, args)
}

// Runtime executes invocations against a StateDB.
type Runtime struct {
	db       vm.StateDB
	services map[common.Hash]Service
	global   map[string]Key
	named    map[common.Address]map[string]Key
}

// New creates a Runtime over db.
func New(db vm.StateDB) *Runtime {
	return &Runtime{
		db:       db,
		services: make(map[common.Hash]Service),
		global:   make(map[string]Key),
		named:    make(map[common.Address]map[string]Key),
	}
}

// StateDB returns the ledger state the runtime executes against.
func (r *Runtime) StateDB() vm.StateDB { return r.db }

// Install registers svc under hash.
func (r *Runtime) Install(hash common.Hash, svc Service) error {
	if _, ok := r.services[hash]; ok {
		return fmt.Errorf("%w: %s", ErrServiceExists, hash.Hex())
	}
	r.services[hash] = svc
	return nil
}

// PutKey publishes a named key in the directory of account.
func (r *Runtime) PutKey(account common.Address, name string, key Key) {
	m, ok := r.named[account]
	if !ok {
		m = make(map[string]Key)
		r.named[account] = m
	}
	m[name] = key
}

// PutGlobalKey publishes a named key visible to every account that does not
// shadow it with its own entry.
func (r *Runtime) PutGlobalKey(name string, key Key) { r.global[name] = key }

func (r *Runtime) lookup(account common.Address, name string) (Key, bool) {
	if k, ok := r.named[account][name]; ok {
		return k, true
	}
	k, ok := r.global[name]
	return k, ok
}

// Receipt is the outcome of one invocation.
type Receipt struct {
	ID     uuid.UUID
	Caller common.Address
	Target Key
	Return Value
	Code   apierror.Code
	Err    error
}

// Failed reports whether the invocation aborted.
func (r *Receipt) Failed() bool { return r.Err != nil }

// Execute runs one invocation of target's entry point on behalf of caller.
// On abort every state change made since the start of the invocation is
// reverted and the receipt carries the abort code.
func (r *Runtime) Execute(caller common.Address, target Key, args Args) *Receipt {
	rcpt := &Receipt{ID: uuid.New(), Caller: caller, Target: target}
	snap := r.db.Snapshot()

	ret, err := r.run(&CallContext{Caller: caller, rt: r}, target, args)
	if err != nil {
		r.db.RevertToSnapshot(snap)
		rcpt.Err = err
		rcpt.Code = apierror.CodeOf(err)
		metrics.Aborts.WithLabelValues(strconv.FormatUint(uint64(rcpt.Code), 10)).Inc()
		log.Debug("Invocation aborted", "id", rcpt.ID, "caller", caller, "target", target, "code", rcpt.Code, "err", err)
		return rcpt
	}
	rcpt.Return = ret
	log.Debug("Invocation executed", "id", rcpt.ID, "caller", caller, "target", target)
	return rcpt
}

func (r *Runtime) run(ctx *CallContext, target Key, args Args) (ret Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v: %w", p, apierror.Unhandled)
		}
	}()
	return ctx.Call(target, EntryPoint, args)
}

// CallContext is handed to a service for the duration of one call.
type CallContext struct {
	// Caller is the account that submitted the invocation. It is preserved
	// across nested calls.
	Caller common.Address

	rt    *Runtime
	depth int
}

// StateDB returns the ledger state.
func (c *CallContext) StateDB() vm.StateDB { return c.rt.db }

// GetKey resolves a named key from the caller's directory.
func (c *CallContext) GetKey(name string) (Key, error) {
	k, ok := c.rt.lookup(c.Caller, name)
	if !ok {
		return Key{}, fmt.Errorf("named key %q: %w", name, apierror.GetKey)
	}
	return k, nil
}

// Resolve turns key into a callable service.
func (c *CallContext) Resolve(key Key) (Service, error) {
	if key.Tag != KeyHash {
		return nil, fmt.Errorf("resolve %s: %w", key, apierror.UnexpectedKeyVariant)
	}
	svc, ok := c.rt.services[key.Bytes]
	if !ok {
		return nil, fmt.Errorf("resolve %s: %w", key, apierror.ContractNotFound)
	}
	return svc, nil
}

// Call invokes method on the service named by key and blocks until it
// returns or aborts.
func (c *CallContext) Call(key Key, method string, args Args) (Value, error) {
	if c.depth >= MaxCallDepth {
		return Value{}, fmt.Errorf("%w: %d: %w", ErrCallDepth, c.depth, apierror.Unhandled)
	}
	svc, err := c.Resolve(key)
	if err != nil {
		return Value{}, err
	}
	return svc.Call(&CallContext{Caller: c.Caller, rt: c.rt, depth: c.depth + 1}, method, args)
}

// Transfer moves amount between two ledger accounts.
func (c *CallContext) Transfer(from, to common.Address, amount *big.Int) error {
	return Transfer(c.rt.db, from, to, amount)
}

// TransferFromCaller moves amount out of the caller's account.
func (c *CallContext) TransferFromCaller(to common.Address, amount *big.Int) error {
	return Transfer(c.rt.db, c.Caller, to, amount)
}
