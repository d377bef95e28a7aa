// Package apierror defines the abort codes surfaced by the swap proxy and the
// swap service.
//
// Every failed invocation reports exactly one numeric code. Domain errors
// (UserError) live in the band starting at UserErrorOffset; host and transfer
// failures use the lower, host-reserved codes, so the two never overlap.
package apierror

import (
	"errors"
	"fmt"
)

// Code is the numeric abort code reported for a failed invocation.
type Code uint32

const (
	// MintErrorOffset is the base of the band used for transfer failures.
	MintErrorOffset Code = 65024
	// UserErrorOffset is the base of the band used for domain errors.
	UserErrorOffset Code = 65536
)

// Coder is implemented by every error that maps to a fixed abort code.
type Coder interface {
	error
	Code() Code
}

// UserError enumerates the domain errors. Ordinals start at 1 and follow
// declaration order; do not reorder.
type UserError uint16

const (
	NotAdmin UserError = iota + 1
	ExceededSwapRange
	ExceededSwapAllowanceByKyc
	InsufficientNumOfSwapParams
	NotRegisteredKYC
	AlreadyRegisteredAndReceivedSmallToken
	InvalidKYCLevelValue
	InvalidSignature
	AlreadySwapProceeded
	UnknownProxyApi

	maxUserError = UnknownProxyApi
)

// Code returns UserErrorOffset + ordinal.
func (e UserError) Code() Code { return UserErrorOffset + Code(e) }

func (e UserError) Error() string {
	if d, ok := userDescriptions[e]; ok {
		return "swap: " + d.desc
	}
	return fmt.Sprintf("swap: user error %d", uint16(e))
}

// String returns the enumeration name.
func (e UserError) String() string {
	if d, ok := userDescriptions[e]; ok {
		return d.name
	}
	return fmt.Sprintf("UserError(%d)", uint16(e))
}

// HostError enumerates the host-reserved codes the proxy can abort with.
type HostError uint16

const (
	None                 HostError = 1
	MissingArgument      HostError = 2
	InvalidArgument      HostError = 3
	ContractNotFound     HostError = 7
	GetKey               HostError = 8
	UnexpectedKeyVariant HostError = 9
	Transfer             HostError = 14
	Unhandled            HostError = 31
)

// Code returns the host-reserved code.
func (e HostError) Code() Code { return Code(e) }

func (e HostError) Error() string {
	if d, ok := hostDescriptions[e]; ok {
		return "host: " + d.desc
	}
	return fmt.Sprintf("host: error %d", uint16(e))
}

func (e HostError) String() string {
	if d, ok := hostDescriptions[e]; ok {
		return d.name
	}
	return fmt.Sprintf("HostError(%d)", uint16(e))
}

// MintError enumerates the failures of the value-transfer primitive.
type MintError uint8

const (
	InsufficientFunds MintError = iota
	SourceNotFound
	InvalidDestination
	AmountOverflow

	maxMintError = AmountOverflow
)

// Code returns MintErrorOffset + ordinal.
func (e MintError) Code() Code { return MintErrorOffset + Code(e) }

func (e MintError) Error() string {
	if d, ok := mintDescriptions[e]; ok {
		return "mint: " + d.desc
	}
	return fmt.Sprintf("mint: error %d", uint8(e))
}

func (e MintError) String() string {
	if d, ok := mintDescriptions[e]; ok {
		return d.name
	}
	return fmt.Sprintf("MintError(%d)", uint8(e))
}

// CodeOf returns the abort code carried by err. A nil error maps to 0 and an
// error outside the taxonomy maps to Unhandled.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return Unhandled.Code()
}

// IsUserCode reports whether code lies in the domain error band.
func IsUserCode(code Code) bool {
	return code > UserErrorOffset && code <= maxUserError.Code()
}
