package host

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Kind identifies the type carried by a Value.
type Kind uint8

const (
	KindUnit Kind = iota
	KindString
	KindU512
	KindPublicKey
	KindKey
	KindStringList
)

var kindNames = map[Kind]string{
	KindUnit:       "unit",
	KindString:     "string",
	KindU512:       "u512",
	KindPublicKey:  "pubkey",
	KindKey:        "key",
	KindStringList: "strings",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MaxU512 is the largest value representable as a U512.
var MaxU512 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 512), big.NewInt(1))

var (
	ErrU512Range        = errors.New("host: value out of u512 range")
	ErrInvalidPublicKey = errors.New("host: invalid public key")
	ErrInvalidKey       = errors.New("host: invalid key")
)

// PublicKeyLength is the byte length of a new-chain public key.
const PublicKeyLength = 32

// PublicKey identifies a new-chain account.
type PublicKey [PublicKeyLength]byte

// Account returns the ledger address controlled by the public key.
func (p PublicKey) Account() common.Address {
	return common.BytesToAddress(crypto.Keccak256(p[:])[12:])
}

func (p PublicKey) String() string { return "0x" + hex.EncodeToString(p[:]) }

// ParsePublicKey decodes a 0x-prefixed or bare hex public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != PublicKeyLength {
		return pk, fmt.Errorf("%w: %q", ErrInvalidPublicKey, s)
	}
	copy(pk[:], b)
	return pk, nil
}

// KeyTag distinguishes the variants of a Key.
type KeyTag uint8

const (
	// KeyAccount names a ledger account.
	KeyAccount KeyTag = iota
	// KeyHash names an installed service.
	KeyHash
	// KeyURef names a value-holding purse.
	KeyURef
)

var keyPrefixes = map[KeyTag]string{
	KeyAccount: "account-",
	KeyHash:    "hash-",
	KeyURef:    "uref-",
}

// Key is an opaque reference to an account, a service or a purse.
// Account and purse addresses are right-aligned in Bytes.
type Key struct {
	Tag   KeyTag
	Bytes common.Hash
}

// AccountKey returns the Key of a ledger account.
func AccountKey(addr common.Address) Key {
	return Key{Tag: KeyAccount, Bytes: common.BytesToHash(addr.Bytes())}
}

// HashKey returns the Key of an installed service.
func HashKey(h common.Hash) Key { return Key{Tag: KeyHash, Bytes: h} }

// URefKey returns the Key of a purse.
func URefKey(addr common.Address) Key {
	return Key{Tag: KeyURef, Bytes: common.BytesToHash(addr.Bytes())}
}

// Address returns the account or purse address carried by the key.
func (k Key) Address() common.Address { return common.BytesToAddress(k.Bytes[12:]) }

func (k Key) String() string {
	p, ok := keyPrefixes[k.Tag]
	if !ok {
		return fmt.Sprintf("key(%d)-%x", uint8(k.Tag), k.Bytes)
	}
	if k.Tag == KeyHash {
		return p + k.Bytes.Hex()
	}
	return p + k.Address().Hex()
}

// ParseKey decodes the textual form produced by Key.String.
func ParseKey(s string) (Key, error) {
	for tag, p := range keyPrefixes {
		if !strings.HasPrefix(s, p) {
			continue
		}
		raw := strings.TrimPrefix(s, p)
		if tag == KeyHash {
			b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
			if err != nil || len(b) != common.HashLength {
				return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
			}
			return HashKey(common.BytesToHash(b)), nil
		}
		if !common.IsHexAddress(raw) {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
		return Key{Tag: tag, Bytes: common.BytesToHash(common.HexToAddress(raw).Bytes())}, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

// Value is a typed argument or return value crossing a call boundary.
type Value struct {
	kind Kind
	str  string
	num  *big.Int
	pub  PublicKey
	key  Key
	list []string
}

// Unit is the empty value returned by calls without a result.
var Unit = Value{kind: KindUnit}

func String(s string) Value { return Value{kind: KindString, str: s} }

// U512 returns a U512 value. It fails when n is negative or wider than 512 bits.
func U512(n *big.Int) (Value, error) {
	if n == nil || n.Sign() < 0 || n.Cmp(MaxU512) > 0 {
		return Value{}, ErrU512Range
	}
	return Value{kind: KindU512, num: new(big.Int).Set(n)}, nil
}

// MustU512 is like U512 but panics on range errors. Intended for constants.
func MustU512(n *big.Int) Value {
	v, err := U512(n)
	if err != nil {
		panic(err)
	}
	return v
}

func U512FromUint64(n uint64) Value {
	return Value{kind: KindU512, num: new(big.Int).SetUint64(n)}
}

func PublicKeyValue(pk PublicKey) Value { return Value{kind: KindPublicKey, pub: pk} }

func KeyValue(k Key) Value { return Value{kind: KindKey, key: k} }

func StringList(list []string) Value {
	cp := make([]string, len(list))
	copy(cp, list)
	return Value{kind: KindStringList, list: cp}
}

// Kind returns the type of the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsU512() (*big.Int, bool) {
	if v.kind != KindU512 {
		return nil, false
	}
	return new(big.Int).Set(v.num), true
}

func (v Value) AsPublicKey() (PublicKey, bool) { return v.pub, v.kind == KindPublicKey }

func (v Value) AsKey() (Key, bool) { return v.key, v.kind == KindKey }

func (v Value) AsStringList() ([]string, bool) {
	if v.kind != KindStringList {
		return nil, false
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp, true
}
