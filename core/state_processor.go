package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/swapproxy/host"
)

// ErrInvalidInvocation is returned when an invocation cannot be assembled.
// It never reflects an abort; aborts are reported in receipts.
var ErrInvalidInvocation = errors.New("invalid invocation")

// Invocation is one call submitted to the world.
type Invocation struct {
	Caller string `yaml:"caller"`
	// Target is the textual key of the called service. Empty means the proxy.
	Target string   `toml:",omitempty" yaml:"target"`
	Args   []string `yaml:"args"` // "kind:value", see host.ParseArg
}

// Apply parses inv and executes it.
func (w *World) Apply(inv Invocation) (*host.Receipt, error) {
	if !common.IsHexAddress(inv.Caller) {
		return nil, fmt.Errorf("%w: caller %q", ErrInvalidInvocation, inv.Caller)
	}
	target := w.ProxyKey
	if inv.Target != "" {
		k, err := host.ParseKey(inv.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInvocation, err)
		}
		target = k
	}
	args, err := host.ParseArgs(inv.Args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvocation, err)
	}
	return w.Runtime.Execute(common.HexToAddress(inv.Caller), target, args), nil
}

// Process executes invocations in order. Aborted invocations do not stop
// processing; only a malformed invocation does.
func (w *World) Process(invs []Invocation) ([]*host.Receipt, error) {
	receipts := make([]*host.Receipt, 0, len(invs))
	for i, inv := range invs {
		rcpt, err := w.Apply(inv)
		if err != nil {
			return receipts, fmt.Errorf("could not apply invocation %d: %w", i, err)
		}
		if rcpt.Failed() {
			log.Info("Invocation aborted", "index", i, "id", rcpt.ID, "code", rcpt.Code, "err", rcpt.Err)
		} else {
			log.Info("Invocation executed", "index", i, "id", rcpt.ID)
		}
		receipts = append(receipts, rcpt)
	}
	return receipts, nil
}
