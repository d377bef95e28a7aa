package core

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/params"
	"github.com/tos-network/swapproxy/proxy"
	"github.com/tos-network/swapproxy/swap"
)

var (
	ErrInvalidAddress = errors.New("genesis: invalid address")
	ErrInvalidAmount  = errors.New("genesis: invalid amount")
)

// GenesisAccount is one pre-funded ledger account.
type GenesisAccount struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"` // bigsun, decimal or 0x-hex
}

// Genesis specifies the initial world the proxy runs in.
type Genesis struct {
	// Admin is the swap service administrator.
	Admin string `yaml:"admin"`
	// Incentive overrides params.RegistrationIncentive when non-empty.
	Incentive string           `toml:",omitempty" yaml:"incentive"`
	Accounts  []GenesisAccount `yaml:"accounts"`
}

// DeveloperGenesis returns a genesis with admin funded by 1,000,000 Hdac.
func DeveloperGenesis(admin common.Address) *Genesis {
	balance := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Hdac))
	return &Genesis{
		Admin:    admin.Hex(),
		Accounts: []GenesisAccount{{Address: admin.Hex(), Balance: balance.String()}},
	}
}

// World is an assembled runtime with the swap service and the proxy installed.
type World struct {
	Runtime *host.Runtime
	State   *state.StateDB
	Swap    *swap.Service
	Router  *proxy.Router

	SwapKey  host.Key
	ProxyKey host.Key
}

// Commit builds a fresh in-memory world from the genesis specification.
func (g *Genesis) Commit() (*World, error) {
	if !common.IsHexAddress(g.Admin) {
		return nil, fmt.Errorf("%w: admin %q", ErrInvalidAddress, g.Admin)
	}
	admin := common.HexToAddress(g.Admin)

	statedb, err := host.NewMemoryState()
	if err != nil {
		return nil, fmt.Errorf("genesis state: %w", err)
	}
	for i, acc := range g.Accounts {
		if !common.IsHexAddress(acc.Address) {
			return nil, fmt.Errorf("%w: account %d %q", ErrInvalidAddress, i, acc.Address)
		}
		balance, err := parseAmount(acc.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		if err := host.Fund(statedb, common.HexToAddress(acc.Address), balance); err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
	}

	var opts []proxy.Option
	if g.Incentive != "" {
		incentive, err := parseAmount(g.Incentive)
		if err != nil {
			return nil, fmt.Errorf("incentive: %w", err)
		}
		opts = append(opts, proxy.WithIncentive(incentive))
	}

	w := &World{
		Runtime:  host.New(statedb),
		State:    statedb,
		Swap:     swap.New(swap.DefaultConfig(admin)),
		Router:   proxy.NewRouter(opts...),
		SwapKey:  host.HashKey(params.SwapServiceHash),
		ProxyKey: host.HashKey(params.ProxyServiceHash),
	}
	if err := w.Runtime.Install(params.SwapServiceHash, w.Swap); err != nil {
		return nil, err
	}
	if err := w.Runtime.Install(params.ProxyServiceHash, w.Router); err != nil {
		return nil, err
	}
	w.Runtime.PutGlobalKey(params.SwapHashName, w.SwapKey)
	w.Runtime.PutGlobalKey(params.ProxyHashName, w.ProxyKey)

	log.Info("Genesis committed", "admin", admin, "accounts", len(g.Accounts), "incentive", w.Router.Incentive())
	return w, nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}
