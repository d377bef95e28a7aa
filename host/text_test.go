package host

import (
	"errors"
	"testing"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		out  string // canonical FormatArg rendering
	}{
		{"string:get_token", KindString, "string:get_token"},
		{"string:", KindString, "string:"},
		{"string:a:b", KindString, "string:a:b"},
		{"u512:1000", KindU512, "u512:1000"},
		{"u512:0x10", KindU512, "u512:16"},
		{"pubkey:0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000000", KindPublicKey, "pubkey:0xab00000000000000000000000000000000000000000000000000000000000000"},
		{"key:uref-0x0000000000000000000000000000000048444332", KindKey, "key:uref-0x0000000000000000000000000000000048444332"},
		{`strings:["a","b"]`, KindStringList, `strings:["a","b"]`},
		{"strings:[]", KindStringList, "strings:[]"},
		{"unit:", KindUnit, "unit:"},
	}
	for _, tt := range tests {
		v, err := ParseArg(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if v.Kind() != tt.kind {
			t.Fatalf("%q: kind mismatch: have %s, want %s", tt.in, v.Kind(), tt.kind)
		}
		if have := FormatArg(v); have != tt.out {
			t.Fatalf("%q: format mismatch: have %s, want %s", tt.in, have, tt.out)
		}
	}
}

func TestParseArgErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"get_token", ErrInvalidArgText},
		{"float:1.5", ErrInvalidArgText},
		{"u512:-1", ErrU512Range},
		{"u512:ten", ErrInvalidArgText},
		{"pubkey:0x1234", ErrInvalidPublicKey},
		{"key:contract-0x00", ErrInvalidKey},
		{"strings:a,b", ErrInvalidArgText},
	}
	for _, tt := range tests {
		if _, err := ParseArg(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("%q: error mismatch: have %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestParseArgsReportsIndex(t *testing.T) {
	_, err := ParseArgs([]string{"string:ok", "bogus"})
	if !errors.Is(err, ErrInvalidArgText) {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "argument 1: "; len(err.Error()) < len(want) || err.Error()[:len(want)] != want {
		t.Fatalf("error does not name the argument: %v", err)
	}
}
