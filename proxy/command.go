// Package proxy implements the command router that sits in front of the swap
// service.
//
// Callers invoke the proxy with an untyped argument list whose first element
// is a method name. The router decodes the list into one of five typed
// commands, forwards the command to the swap service and performs the fund
// movement that must accompany it. The router validates structure only;
// business rules are enforced by the swap service.
package proxy

import (
	"math/big"

	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/params"
)

// Command is one decoded proxy call. The set of implementations is closed.
type Command interface {
	// Method returns the method name the command was decoded from.
	Method() string
	command()
}

// SetAllowanceCap sets the global per-account swap allowance ceiling.
type SetAllowanceCap struct {
	Cap *big.Int
}

// RecordLegacyBalance registers a snapshot of a legacy balance and deposits
// the same amount into the swap service's holding account.
type RecordLegacyBalance struct {
	LegacyAddress string
	Amount        *big.Int
}

// RegisterAccount binds a new-chain identity to a KYC level and pays the
// one-time registration incentive.
type RegisterAccount struct {
	PublicKey host.PublicKey
	KYCLevel  *big.Int
}

// UpdateKycLevel changes the KYC level of a registered identity.
type UpdateKycLevel struct {
	PublicKey host.PublicKey
	KYCLevel  *big.Int
}

// RedeemToken forwards a batch redemption to the service named by Service.
// Addresses[i], Messages[i] and Signatures[i] belong together; their lengths
// are not checked here.
type RedeemToken struct {
	Service    host.Key
	Addresses  []string
	Messages   []string
	Signatures []string
}

func (*SetAllowanceCap) Method() string     { return params.MethodInsertKYCAllowanceCap }
func (*RecordLegacyBalance) Method() string { return params.MethodInsertSnapshotRecord }
func (*RegisterAccount) Method() string     { return params.MethodInsertKYCData }
func (*UpdateKycLevel) Method() string      { return params.MethodUpdateKYCLevel }
func (*RedeemToken) Method() string         { return params.MethodGetToken }

func (*SetAllowanceCap) command()     {}
func (*RecordLegacyBalance) command() {}
func (*RegisterAccount) command()     {}
func (*UpdateKycLevel) command()      {}
func (*RedeemToken) command()         {}

// Methods lists the method names the proxy accepts.
var Methods = []string{
	params.MethodInsertKYCAllowanceCap,
	params.MethodInsertSnapshotRecord,
	params.MethodInsertKYCData,
	params.MethodUpdateKYCLevel,
	params.MethodGetToken,
}
