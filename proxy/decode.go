package proxy

import (
	"fmt"

	"github.com/tos-network/swapproxy/apierror"
	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/params"
)

// Decode turns a raw argument list into a Command. Argument 0 is the method
// name; the remaining arguments are read in order and the first missing or
// mistyped one aborts decoding. Unknown method names fail with
// UnknownProxyApi.
func Decode(args host.Args) (Command, error) {
	method, err := args.String(0)
	if err != nil {
		return nil, fmt.Errorf("method name: %w", err)
	}
	switch method {
	case params.MethodInsertKYCAllowanceCap:
		capNumber, err := args.U512(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		return &SetAllowanceCap{Cap: capNumber}, nil

	case params.MethodInsertSnapshotRecord:
		legacyAddress, err := args.String(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		amount, err := args.U512(2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		return &RecordLegacyBalance{LegacyAddress: legacyAddress, Amount: amount}, nil

	case params.MethodInsertKYCData, params.MethodUpdateKYCLevel:
		pubkey, err := args.PublicKey(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		level, err := args.U512(2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		if method == params.MethodInsertKYCData {
			return &RegisterAccount{PublicKey: pubkey, KYCLevel: level}, nil
		}
		return &UpdateKycLevel{PublicKey: pubkey, KYCLevel: level}, nil

	case params.MethodGetToken:
		service, err := args.Key(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		addresses, err := args.StringList(2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		messages, err := args.StringList(3)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		signatures, err := args.StringList(4)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		return &RedeemToken{
			Service:    service,
			Addresses:  addresses,
			Messages:   messages,
			Signatures: signatures,
		}, nil
	}
	return nil, fmt.Errorf("method %q: %w", method, apierror.UnknownProxyApi)
}

// Encode is the inverse of Decode: it renders cmd as the argument list a
// caller submits to the proxy.
func Encode(cmd Command) (host.Args, error) {
	switch c := cmd.(type) {
	case *SetAllowanceCap:
		capValue, err := u512Arg(c.Cap)
		if err != nil {
			return nil, err
		}
		return host.Args{host.String(c.Method()), capValue}, nil
	case *RecordLegacyBalance:
		amount, err := u512Arg(c.Amount)
		if err != nil {
			return nil, err
		}
		return host.Args{host.String(c.Method()), host.String(c.LegacyAddress), amount}, nil
	case *RegisterAccount:
		level, err := u512Arg(c.KYCLevel)
		if err != nil {
			return nil, err
		}
		return host.Args{host.String(c.Method()), host.PublicKeyValue(c.PublicKey), level}, nil
	case *UpdateKycLevel:
		level, err := u512Arg(c.KYCLevel)
		if err != nil {
			return nil, err
		}
		return host.Args{host.String(c.Method()), host.PublicKeyValue(c.PublicKey), level}, nil
	case *RedeemToken:
		return host.Args{
			host.String(c.Method()),
			host.KeyValue(c.Service),
			host.StringList(c.Addresses),
			host.StringList(c.Messages),
			host.StringList(c.Signatures),
		}, nil
	}
	return nil, fmt.Errorf("encode %T: %w", cmd, apierror.UnknownProxyApi)
}
