package proxy

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/swapproxy/apierror"
	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/metrics"
	"github.com/tos-network/swapproxy/params"
)

// Router decodes proxy calls and dispatches them to the swap service. It
// holds no state between invocations and implements host.Service.
type Router struct {
	swapName  string
	incentive *big.Int
}

// Option configures a Router.
type Option func(*Router)

// WithSwapName overrides the directory entry the swap service is resolved
// from. The default is params.SwapHashName.
func WithSwapName(name string) Option {
	return func(r *Router) { r.swapName = name }
}

// WithIncentive overrides the registration incentive. The default is
// params.RegistrationIncentive.
func WithIncentive(amount *big.Int) Option {
	return func(r *Router) { r.incentive = new(big.Int).Set(amount) }
}

// NewRouter returns a Router with the given options applied.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		swapName:  params.SwapHashName,
		incentive: new(big.Int).Set(params.RegistrationIncentive),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Incentive returns the amount paid to a newly registered account.
func (r *Router) Incentive() *big.Int { return new(big.Int).Set(r.incentive) }

// Call is the proxy's entry point: decode args, then invoke the command.
func (r *Router) Call(ctx *host.CallContext, method string, args host.Args) (host.Value, error) {
	if method != host.EntryPoint {
		return host.Unit, fmt.Errorf("entry point %q: %w", method, apierror.UnknownProxyApi)
	}
	cmd, err := Decode(args)
	if err != nil {
		metrics.Invocations.WithLabelValues(methodLabel(args), "rejected").Inc()
		log.Debug("Rejected proxy call", "caller", ctx.Caller, "err", err)
		return host.Unit, err
	}
	if err := r.Invoke(ctx, cmd); err != nil {
		metrics.Invocations.WithLabelValues(cmd.Method(), "aborted").Inc()
		log.Debug("Proxy call aborted", "caller", ctx.Caller, "method", cmd.Method(), "code", apierror.CodeOf(err), "err", err)
		return host.Unit, err
	}
	metrics.Invocations.WithLabelValues(cmd.Method(), "ok").Inc()
	return host.Unit, nil
}

// Invoke forwards cmd to the swap service and performs its fund movement.
// Every failure is returned as is; the host reverts the whole invocation, so
// no compensation is attempted here.
func (r *Router) Invoke(ctx *host.CallContext, cmd Command) error {
	switch c := cmd.(type) {
	case *SetAllowanceCap:
		return r.setAllowanceCap(ctx, c)
	case *RecordLegacyBalance:
		return r.recordLegacyBalance(ctx, c)
	case *RegisterAccount:
		return r.registerAccount(ctx, c)
	case *UpdateKycLevel:
		return r.updateKycLevel(ctx, c)
	case *RedeemToken:
		return r.redeemToken(ctx, c)
	}
	return fmt.Errorf("invoke %T: %w", cmd, apierror.UnknownProxyApi)
}

// swapService resolves the swap service from the caller's directory.
func (r *Router) swapService(ctx *host.CallContext) (host.Key, error) {
	key, err := ctx.GetKey(r.swapName)
	if err != nil {
		return host.Key{}, err
	}
	if key.Tag != host.KeyHash {
		return host.Key{}, fmt.Errorf("%s is %s: %w", r.swapName, key, apierror.UnexpectedKeyVariant)
	}
	return key, nil
}

func (r *Router) setAllowanceCap(ctx *host.CallContext, c *SetAllowanceCap) error {
	swap, err := r.swapService(ctx)
	if err != nil {
		return err
	}
	capValue, err := u512Arg(c.Cap)
	if err != nil {
		return err
	}
	_, err = ctx.Call(swap, params.MethodInsertKYCAllowanceCap, host.Args{capValue})
	return err
}

func (r *Router) recordLegacyBalance(ctx *host.CallContext, c *RecordLegacyBalance) error {
	swap, err := r.swapService(ctx)
	if err != nil {
		return err
	}
	amount, err := u512Arg(c.Amount)
	if err != nil {
		return err
	}
	// The snapshot must exist before any value moves.
	if _, err := ctx.Call(swap, params.MethodInsertSnapshotRecord, host.Args{host.String(c.LegacyAddress), amount}); err != nil {
		return fmt.Errorf("insert snapshot record: %w", err)
	}
	ret, err := ctx.Call(swap, params.MethodGetContractPurse, nil)
	if err != nil {
		return fmt.Errorf("get contract purse: %w", err)
	}
	purse, ok := ret.AsKey()
	if !ok || purse.Tag != host.KeyURef {
		return fmt.Errorf("contract purse is %s: %w", ret.Kind(), apierror.UnexpectedKeyVariant)
	}
	if err := ctx.TransferFromCaller(purse.Address(), c.Amount); err != nil {
		return fmt.Errorf("deposit to %s: %w", purse, err)
	}
	metrics.Transfers.WithLabelValues("deposit").Inc()
	log.Trace("Deposited legacy balance", "caller", ctx.Caller, "legacy", c.LegacyAddress, "amount", c.Amount, "purse", purse)
	return nil
}

func (r *Router) registerAccount(ctx *host.CallContext, c *RegisterAccount) error {
	swap, err := r.swapService(ctx)
	if err != nil {
		return err
	}
	level, err := u512Arg(c.KYCLevel)
	if err != nil {
		return err
	}
	if _, err := ctx.Call(swap, params.MethodInsertKYCData, host.Args{host.PublicKeyValue(c.PublicKey), level}); err != nil {
		return fmt.Errorf("insert kyc data: %w", err)
	}
	account := c.PublicKey.Account()
	if err := ctx.TransferFromCaller(account, r.incentive); err != nil {
		return fmt.Errorf("registration incentive to %s: %w", account.Hex(), err)
	}
	metrics.Transfers.WithLabelValues("incentive").Inc()
	log.Trace("Paid registration incentive", "caller", ctx.Caller, "account", account, "amount", r.incentive)
	return nil
}

func (r *Router) updateKycLevel(ctx *host.CallContext, c *UpdateKycLevel) error {
	swap, err := r.swapService(ctx)
	if err != nil {
		return err
	}
	level, err := u512Arg(c.KYCLevel)
	if err != nil {
		return err
	}
	_, err = ctx.Call(swap, params.MethodUpdateKYCLevel, host.Args{host.PublicKeyValue(c.PublicKey), level})
	return err
}

func (r *Router) redeemToken(ctx *host.CallContext, c *RedeemToken) error {
	_, err := ctx.Call(c.Service, params.MethodGetToken, host.Args{
		host.StringList(c.Addresses),
		host.StringList(c.Messages),
		host.StringList(c.Signatures),
	})
	return err
}

func u512Arg(n *big.Int) (host.Value, error) {
	v, err := host.U512(n)
	if err != nil {
		return host.Value{}, fmt.Errorf("%v: %w", err, apierror.InvalidArgument)
	}
	return v, nil
}

// methodLabel bounds the label cardinality of rejected calls.
func methodLabel(args host.Args) string {
	name, err := args.String(0)
	if err != nil {
		return "invalid"
	}
	for _, m := range Methods {
		if m == name {
			return m
		}
	}
	return "unknown"
}
