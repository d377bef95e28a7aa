package host

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/swapproxy/apierror"
)

var (
	serviceHash = common.HexToHash("0x5e41")
	otherHash   = common.HexToHash("0x5e42")
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	statedb := newTestState(t)
	fund(t, statedb, alice, 100)
	return New(statedb)
}

func install(t *testing.T, rt *Runtime, hash common.Hash, fn ServiceFunc) {
	t.Helper()
	if err := rt.Install(hash, fn); err != nil {
		t.Fatalf("install failed: %v", err)
	}
}

func TestExecuteCommits(t *testing.T) {
	rt := newTestRuntime(t)
	install(t, rt, serviceHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		if method != EntryPoint {
			t.Errorf("unexpected method %q", method)
		}
		if ctx.Caller != alice {
			t.Errorf("caller mismatch: have %s", ctx.Caller.Hex())
		}
		if err := ctx.TransferFromCaller(bob, big.NewInt(30)); err != nil {
			return Unit, err
		}
		return String("done"), nil
	})

	rcpt := rt.Execute(alice, HashKey(serviceHash), nil)
	if rcpt.Failed() {
		t.Fatalf("invocation aborted: %v", rcpt.Err)
	}
	if s, _ := rcpt.Return.AsString(); s != "done" {
		t.Fatalf("return mismatch: %v", FormatArg(rcpt.Return))
	}
	if rcpt.Code != 0 {
		t.Fatalf("code set on success: %d", rcpt.Code)
	}
	checkBalance(t, rt.StateDB(), alice, 70)
	checkBalance(t, rt.StateDB(), bob, 30)
}

func TestExecuteRevertsOnAbort(t *testing.T) {
	rt := newTestRuntime(t)
	var (
		store = common.HexToAddress("0x5e41")
		slot  = common.HexToHash("0x01")
	)
	// The nested service writes state and moves funds before the outer one aborts.
	install(t, rt, otherHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		ctx.StateDB().SetState(store, slot, common.HexToHash("0xff"))
		return Unit, ctx.Transfer(ctx.Caller, bob, big.NewInt(40))
	})
	install(t, rt, serviceHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		if _, err := ctx.Call(HashKey(otherHash), "write", nil); err != nil {
			return Unit, err
		}
		return Unit, apierror.NotAdmin
	})

	rcpt := rt.Execute(alice, HashKey(serviceHash), nil)
	if !rcpt.Failed() {
		t.Fatalf("invocation did not abort")
	}
	if rcpt.Code != apierror.NotAdmin.Code() {
		t.Fatalf("code mismatch: have %d, want %d", rcpt.Code, apierror.NotAdmin.Code())
	}
	checkBalance(t, rt.StateDB(), alice, 100)
	checkBalance(t, rt.StateDB(), bob, 0)
	if v := rt.StateDB().GetState(store, slot); v != (common.Hash{}) {
		t.Fatalf("storage write survived abort: %x", v)
	}
}

func TestExecutePanicIsUnhandled(t *testing.T) {
	rt := newTestRuntime(t)
	install(t, rt, serviceHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		ctx.TransferFromCaller(bob, big.NewInt(10))
		panic("boom")
	})
	rcpt := rt.Execute(alice, HashKey(serviceHash), nil)
	if rcpt.Code != apierror.Unhandled.Code() {
		t.Fatalf("code mismatch: have %d, want %d", rcpt.Code, apierror.Unhandled.Code())
	}
	checkBalance(t, rt.StateDB(), alice, 100)
}

func TestExecuteUnresolvableTarget(t *testing.T) {
	rt := newTestRuntime(t)

	if rcpt := rt.Execute(alice, HashKey(serviceHash), nil); rcpt.Code != apierror.ContractNotFound.Code() {
		t.Fatalf("missing service: have code %d, want %d", rcpt.Code, apierror.ContractNotFound.Code())
	}
	if rcpt := rt.Execute(alice, AccountKey(bob), nil); rcpt.Code != apierror.UnexpectedKeyVariant.Code() {
		t.Fatalf("account target: have code %d, want %d", rcpt.Code, apierror.UnexpectedKeyVariant.Code())
	}
}

func TestGetKey(t *testing.T) {
	rt := newTestRuntime(t)
	global, own := HashKey(serviceHash), HashKey(otherHash)
	rt.PutGlobalKey("swap_hash", global)
	rt.PutKey(bob, "swap_hash", own)

	var seen []Key
	install(t, rt, serviceHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		k, err := ctx.GetKey("swap_hash")
		if err != nil {
			return Unit, err
		}
		seen = append(seen, k)
		_, err = ctx.GetKey("missing")
		return Unit, err
	})

	for _, caller := range []common.Address{alice, bob} {
		rcpt := rt.Execute(caller, HashKey(serviceHash), nil)
		if rcpt.Code != apierror.GetKey.Code() {
			t.Fatalf("missing key: have code %d, want %d", rcpt.Code, apierror.GetKey.Code())
		}
	}
	if len(seen) != 2 || seen[0] != global || seen[1] != own {
		t.Fatalf("directory lookup mismatch: %v", seen)
	}
}

func TestCallDepthLimit(t *testing.T) {
	rt := newTestRuntime(t)
	calls := 0
	install(t, rt, serviceHash, func(ctx *CallContext, method string, args Args) (Value, error) {
		calls++
		return ctx.Call(HashKey(serviceHash), method, args)
	})
	rcpt := rt.Execute(alice, HashKey(serviceHash), nil)
	if !errors.Is(rcpt.Err, ErrCallDepth) {
		t.Fatalf("unexpected error: %v", rcpt.Err)
	}
	if rcpt.Code != apierror.Unhandled.Code() {
		t.Fatalf("code mismatch: have %d", rcpt.Code)
	}
	if calls != MaxCallDepth {
		t.Fatalf("call count mismatch: have %d, want %d", calls, MaxCallDepth)
	}
}

func TestInstallTwice(t *testing.T) {
	rt := newTestRuntime(t)
	noop := ServiceFunc(func(*CallContext, string, Args) (Value, error) { return Unit, nil })
	if err := rt.Install(serviceHash, noop); err != nil {
		t.Fatal(err)
	}
	if err := rt.Install(serviceHash, noop); !errors.Is(err, ErrServiceExists) {
		t.Fatalf("unexpected error: %v", err)
	}
}
