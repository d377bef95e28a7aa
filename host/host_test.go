package host

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/vm"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func newTestState(t *testing.T) *state.StateDB {
	t.Helper()
	statedb, err := NewMemoryState()
	if err != nil {
		t.Fatalf("failed to create state: %v", err)
	}
	return statedb
}

func fund(t *testing.T, statedb *state.StateDB, addr common.Address, amount int64) {
	t.Helper()
	if err := Fund(statedb, addr, big.NewInt(amount)); err != nil {
		t.Fatalf("failed to fund %s: %v", addr.Hex(), err)
	}
}

func checkBalance(t *testing.T, statedb vm.StateDB, addr common.Address, want int64) {
	t.Helper()
	if have := Balance(statedb, addr); have.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("balance of %s mismatch: have %v, want %d", addr.Hex(), have, want)
	}
}
