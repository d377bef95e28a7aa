package host

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"

	"github.com/tos-network/swapproxy/apierror"
)

// NewMemoryState returns an empty StateDB backed by an in-memory database.
func NewMemoryState() (*state.StateDB, error) {
	return state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
}

// Transfer moves amount from one ledger account to another. It validates
// everything before mutating, so a failed transfer leaves no trace.
func Transfer(db vm.StateDB, from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return fmt.Errorf("transfer to %s: %w", to.Hex(), apierror.InvalidDestination)
	}
	if amount == nil {
		amount = new(big.Int)
	}
	amt, overflow := uint256.FromBig(amount)
	if overflow || amount.Sign() < 0 {
		return fmt.Errorf("transfer of %s: %w", amount, apierror.AmountOverflow)
	}
	if !db.Exist(from) {
		return fmt.Errorf("transfer from %s: %w", from.Hex(), apierror.SourceNotFound)
	}
	if bal := db.GetBalance(from); bal.Cmp(amt) < 0 {
		return fmt.Errorf("transfer of %s from %s (balance %s): %w", amount, from.Hex(), bal, apierror.InsufficientFunds)
	}
	db.SubBalance(from, amt, tracing.BalanceChangeTransfer)
	db.AddBalance(to, amt, tracing.BalanceChangeTransfer)
	return nil
}

// Fund credits addr with amount outside any invocation. Used to seed a world.
func Fund(db vm.StateDB, addr common.Address, amount *big.Int) error {
	amt, overflow := uint256.FromBig(amount)
	if overflow || amount.Sign() < 0 {
		return fmt.Errorf("fund %s with %s: %w", addr.Hex(), amount, apierror.AmountOverflow)
	}
	if !db.Exist(addr) {
		db.CreateAccount(addr)
	}
	db.AddBalance(addr, amt, tracing.BalanceIncreaseGenesisBalance)
	return nil
}

// Balance returns the balance of addr as a big integer.
func Balance(db vm.StateDB, addr common.Address) *big.Int {
	return db.GetBalance(addr).ToBig()
}
