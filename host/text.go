package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidArgText is returned when a textual argument cannot be parsed.
var ErrInvalidArgText = errors.New("host: invalid argument text")

// ParseArg parses the textual form "kind:value" used by the command line and
// world files. Supported kinds: string, u512, pubkey, key, strings (JSON array)
// and unit.
func ParseArg(s string) (Value, error) {
	kind, raw, ok := strings.Cut(s, ":")
	if !ok {
		return Value{}, fmt.Errorf("%w: %q has no kind prefix", ErrInvalidArgText, s)
	}
	switch kind {
	case "string":
		return String(raw), nil
	case "u512":
		n, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return Value{}, fmt.Errorf("%w: bad u512 %q", ErrInvalidArgText, raw)
		}
		return U512(n)
	case "pubkey":
		pk, err := ParsePublicKey(raw)
		if err != nil {
			return Value{}, err
		}
		return PublicKeyValue(pk), nil
	case "key":
		k, err := ParseKey(raw)
		if err != nil {
			return Value{}, err
		}
		return KeyValue(k), nil
	case "strings":
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return Value{}, fmt.Errorf("%w: bad string list %q: %v", ErrInvalidArgText, raw, err)
		}
		return StringList(list), nil
	case "unit":
		return Unit, nil
	}
	return Value{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgText, kind)
}

// ParseArgs parses every element of ss with ParseArg.
func ParseArgs(ss []string) (Args, error) {
	args := make(Args, 0, len(ss))
	for i, s := range ss {
		v, err := ParseArg(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// FormatArg renders v in the form accepted by ParseArg.
func FormatArg(v Value) string {
	switch v.kind {
	case KindString:
		return "string:" + v.str
	case KindU512:
		return "u512:" + v.num.String()
	case KindPublicKey:
		return "pubkey:" + v.pub.String()
	case KindKey:
		return "key:" + v.key.String()
	case KindStringList:
		b, _ := json.Marshal(v.list)
		return "strings:" + string(b)
	}
	return "unit:"
}
