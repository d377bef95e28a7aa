package swap

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

func TestLegacyAddress(t *testing.T) {
	key, _ := crypto.GenerateKey()
	addr := LegacyAddress(&key.PublicKey)
	if !strings.HasPrefix(addr, LegacyAddressPrefix) {
		t.Fatalf("missing prefix: %s", addr)
	}
	raw, err := base58.Decode(strings.TrimPrefix(addr, LegacyAddressPrefix))
	if err != nil {
		t.Fatalf("address is not base58: %v", err)
	}
	if len(raw) != 20 {
		t.Fatalf("address body length mismatch: have %d, want 20", len(raw))
	}
	other, _ := crypto.GenerateKey()
	if LegacyAddress(&other.PublicKey) == addr {
		t.Fatalf("distinct keys share an address")
	}
}

func TestParseLegacyPubkey(t *testing.T) {
	key, _ := crypto.GenerateKey()
	want := LegacyAddress(&key.PublicKey)

	for _, enc := range []string{
		hex.EncodeToString(crypto.CompressPubkey(&key.PublicKey)),
		"0x" + hex.EncodeToString(crypto.FromECDSAPub(&key.PublicKey)),
	} {
		pub, err := ParseLegacyPubkey(enc)
		if err != nil {
			t.Fatalf("%s: %v", enc, err)
		}
		if have := LegacyAddress(pub); have != want {
			t.Fatalf("address mismatch: have %s, want %s", have, want)
		}
	}
	for _, bad := range []string{"", "zz", "0x0102", hex.EncodeToString(make([]byte, 33))} {
		if _, err := ParseLegacyPubkey(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestLegacySignature(t *testing.T) {
	key, _ := crypto.GenerateKey()
	sig, err := SignLegacyMessage(key, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !verifyLegacySignature(&key.PublicKey, "hello", sig) {
		t.Fatalf("65-byte signature rejected")
	}
	// Drop the recovery byte.
	if !verifyLegacySignature(&key.PublicKey, "hello", sig[:len(sig)-2]) {
		t.Fatalf("64-byte signature rejected")
	}
	if verifyLegacySignature(&key.PublicKey, "goodbye", sig) {
		t.Fatalf("signature accepted for another message")
	}
	if verifyLegacySignature(&key.PublicKey, "hello", "0x1234") {
		t.Fatalf("short signature accepted")
	}
}
