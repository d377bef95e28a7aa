// Package swap implements the swap service the proxy forwards to: allowance
// cap, legacy balance snapshots, KYC records and batch redemption, all kept in
// storage slots of a StateDB account.
package swap

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/swapproxy/params"
)

// LegacyAddressPrefix starts every legacy-chain address.
const LegacyAddressPrefix = "legacy1"

// ErrNoSuchMethod is returned for methods the service does not export.
var ErrNoSuchMethod = errors.New("swap: no such method")

// Config describes one installation of the swap service.
type Config struct {
	// Admin is the only account allowed to change allowance, snapshot and KYC state.
	Admin common.Address
	// Storage is the account whose storage slots hold the service state.
	Storage common.Address
	// Purse is the holding account deposits accumulate in.
	Purse common.Address
}

// DefaultConfig returns a Config using the well-known addresses in params.
func DefaultConfig(admin common.Address) Config {
	return Config{
		Admin:   admin,
		Storage: params.SwapStorageAddress,
		Purse:   params.SwapPurseAddress,
	}
}

// Snapshot is the recorded legacy balance of one legacy address.
type Snapshot struct {
	Amount  *big.Int
	Swapped bool
}

// KYCRecord is the registration state of one new-chain account.
type KYCRecord struct {
	Level      uint64
	Registered bool
}

// validLevel reports whether level is an accepted KYC tier.
func validLevel(level *big.Int) bool {
	return level.IsUint64() && level.Uint64() >= params.BasicKYCLevel && level.Uint64() <= params.MaxKYCLevel
}
