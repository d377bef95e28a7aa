package host

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tos-network/swapproxy/apierror"
)

const (
	argsPrefix  = "SWPARGS"
	argsVersion = uint8(1)
)

// ErrInvalidArgs is returned when an encoded argument list is malformed.
var ErrInvalidArgs = errors.New("host: invalid argument payload")

type wireValue struct {
	Kind    uint8
	Payload []byte
}

type argsEnvelope struct {
	Version uint8
	Args    []wireValue
}

// EncodeArgs serializes an argument list for the call boundary.
func EncodeArgs(args Args) ([]byte, error) {
	env := argsEnvelope{Version: argsVersion, Args: make([]wireValue, len(args))}
	for i, v := range args {
		payload, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrInvalidArgs, i, err)
		}
		env.Args[i] = wireValue{Kind: uint8(v.kind), Payload: payload}
	}
	body, err := rlp.EncodeToBytes(&env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	out := make([]byte, len(argsPrefix)+len(body))
	copy(out, argsPrefix)
	copy(out[len(argsPrefix):], body)
	return out, nil
}

// DecodeArgs parses bytes produced by EncodeArgs. Malformed input is reported
// as InvalidArgument so that it aborts like any other mistyped argument.
func DecodeArgs(data []byte) (Args, error) {
	if len(data) <= len(argsPrefix) || !bytes.Equal(data[:len(argsPrefix)], []byte(argsPrefix)) {
		return nil, fmt.Errorf("%w: missing prefix: %w", ErrInvalidArgs, apierror.InvalidArgument)
	}
	var env argsEnvelope
	if err := rlp.DecodeBytes(data[len(argsPrefix):], &env); err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrInvalidArgs, err, apierror.InvalidArgument)
	}
	if env.Version != argsVersion {
		return nil, fmt.Errorf("%w: version %d: %w", ErrInvalidArgs, env.Version, apierror.InvalidArgument)
	}
	args := make(Args, len(env.Args))
	for i, w := range env.Args {
		v, err := decodeValue(Kind(w.Kind), w.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v: %w", ErrInvalidArgs, i, err, apierror.InvalidArgument)
		}
		args[i] = v
	}
	return args, nil
}

func encodeValue(v Value) ([]byte, error) {
	switch v.kind {
	case KindUnit:
		return nil, nil
	case KindString:
		return []byte(v.str), nil
	case KindU512:
		return v.num.Bytes(), nil
	case KindPublicKey:
		return common.CopyBytes(v.pub[:]), nil
	case KindKey:
		out := make([]byte, 1+common.HashLength)
		out[0] = byte(v.key.Tag)
		copy(out[1:], v.key.Bytes[:])
		return out, nil
	case KindStringList:
		return rlp.EncodeToBytes(v.list)
	}
	return nil, fmt.Errorf("unknown kind %d", v.kind)
}

func decodeValue(kind Kind, payload []byte) (Value, error) {
	switch kind {
	case KindUnit:
		if len(payload) != 0 {
			return Value{}, errors.New("unit with payload")
		}
		return Unit, nil
	case KindString:
		if !utf8.Valid(payload) {
			return Value{}, errors.New("string is not utf-8")
		}
		return String(string(payload)), nil
	case KindU512:
		if len(payload) > 64 || (len(payload) > 0 && payload[0] == 0) {
			return Value{}, errors.New("non-canonical u512")
		}
		return U512(new(big.Int).SetBytes(payload))
	case KindPublicKey:
		if len(payload) != PublicKeyLength {
			return Value{}, ErrInvalidPublicKey
		}
		var pk PublicKey
		copy(pk[:], payload)
		return PublicKeyValue(pk), nil
	case KindKey:
		if len(payload) != 1+common.HashLength {
			return Value{}, ErrInvalidKey
		}
		tag := KeyTag(payload[0])
		if _, ok := keyPrefixes[tag]; !ok {
			return Value{}, ErrInvalidKey
		}
		return KeyValue(Key{Tag: tag, Bytes: common.BytesToHash(payload[1:])}), nil
	case KindStringList:
		var list []string
		if err := rlp.DecodeBytes(payload, &list); err != nil {
			return Value{}, err
		}
		return StringList(list), nil
	}
	return Value{}, fmt.Errorf("unknown kind %d", kind)
}
