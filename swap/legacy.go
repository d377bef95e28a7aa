package swap

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

var errLegacyKey = errors.New("swap: invalid legacy public key")

// LegacyAddress derives the legacy-chain address of pub:
// "legacy1" + base58(keccak256(compressed pubkey)[12:]).
func LegacyAddress(pub *ecdsa.PublicKey) string {
	h := crypto.Keccak256(crypto.CompressPubkey(pub))
	return LegacyAddressPrefix + base58.Encode(h[12:])
}

// ParseLegacyPubkey decodes a hex secp256k1 public key in compressed (33
// bytes) or uncompressed (65 bytes) form.
func ParseLegacyPubkey(s string) (*ecdsa.PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errLegacyKey
	}
	switch len(b) {
	case 33:
		return crypto.DecompressPubkey(b)
	case 65:
		return crypto.UnmarshalPubkey(b)
	}
	return nil, errLegacyKey
}

// SignLegacyMessage signs keccak256(message) with key and returns the hex
// signature accepted by get_token.
func SignLegacyMessage(key *ecdsa.PrivateKey, message string) (string, error) {
	sig, err := crypto.Sign(crypto.Keccak256([]byte(message)), key)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(sig), nil
}

// verifyLegacySignature checks that sigHex is a signature of keccak256(message)
// by pub. Both the 64-byte [R || S] and the 65-byte [R || S || V] forms are
// accepted.
func verifyLegacySignature(pub *ecdsa.PublicKey, message, sigHex string) bool {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || (len(sig) != 64 && len(sig) != 65) {
		return false
	}
	return crypto.VerifySignature(crypto.CompressPubkey(pub), crypto.Keccak256([]byte(message)), sig[:64])
}
