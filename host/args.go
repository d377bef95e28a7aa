package host

import (
	"fmt"
	"math/big"

	"github.com/tos-network/swapproxy/apierror"
)

// Args is the positional argument list of a call.
type Args []Value

// get returns argument i if present and of the wanted kind. A missing
// argument reports MissingArgument, a mistyped one InvalidArgument.
func (a Args) get(i int, want Kind) (Value, error) {
	if i < 0 || i >= len(a) {
		return Value{}, fmt.Errorf("argument %d: %w", i, apierror.MissingArgument)
	}
	if v := a[i]; v.kind == want {
		return v, nil
	}
	return Value{}, fmt.Errorf("argument %d: want %s, have %s: %w", i, want, a[i].kind, apierror.InvalidArgument)
}

// String reads argument i as a string.
func (a Args) String(i int) (string, error) {
	v, err := a.get(i, KindString)
	if err != nil {
		return "", err
	}
	return v.str, nil
}

// U512 reads argument i as an unsigned 512-bit integer.
func (a Args) U512(i int) (*big.Int, error) {
	v, err := a.get(i, KindU512)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(v.num), nil
}

// PublicKey reads argument i as a public key.
func (a Args) PublicKey(i int) (PublicKey, error) {
	v, err := a.get(i, KindPublicKey)
	if err != nil {
		return PublicKey{}, err
	}
	return v.pub, nil
}

// Key reads argument i as a key.
func (a Args) Key(i int) (Key, error) {
	v, err := a.get(i, KindKey)
	if err != nil {
		return Key{}, err
	}
	return v.key, nil
}

// StringList reads argument i as a list of strings.
func (a Args) StringList(i int) ([]string, error) {
	v, err := a.get(i, KindStringList)
	if err != nil {
		return nil, err
	}
	list, _ := v.AsStringList()
	return list, nil
}
