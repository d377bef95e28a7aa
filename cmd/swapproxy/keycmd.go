package main

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/cmd/utils"
	"github.com/tos-network/swapproxy/swap"
)

const defaultMnemonicBits = 128

var (
	legacyKeyCommand = &cli.Command{
		Action:    legacyKey,
		Name:      "legacy-key",
		Usage:     "Derive a legacy key pair and address from a mnemonic",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.MnemonicFlag,
			utils.PassphraseFlag,
			utils.IndexFlag,
		},
		Description: `
Derive a legacy-chain key pair from a BIP-39 mnemonic. When no mnemonic is
given a new one is generated and printed. The public key and legacy address
are the values expected by insert_snapshot_record and get_token.`,
	}
	signCommand = &cli.Command{
		Action:    signMessage,
		Name:      "sign",
		Usage:     "Sign messages with a mnemonic-derived legacy key",
		ArgsUsage: "<message>...",
		Flags: []cli.Flag{
			utils.MnemonicFlag,
			utils.PassphraseFlag,
			utils.IndexFlag,
		},
		Description: `
Sign every message with the legacy key selected by --mnemonic and --index and
print one signature per line, in the form accepted by get_token.`,
	}
)

func generateMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// deriveLegacyKey returns the secp256k1 key keccak256(seed || index).
func deriveLegacyKey(mnemonic, passphrase string, index uint64) (*ecdsa.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return crypto.ToECDSA(crypto.Keccak256(seed, idx[:]))
}

func legacyKey(ctx *cli.Context) error {
	mnemonic := ctx.String(utils.MnemonicFlag.Name)
	if mnemonic == "" {
		var err error
		if mnemonic, err = generateMnemonic(defaultMnemonicBits); err != nil {
			return err
		}
	}
	key, err := deriveLegacyKey(mnemonic, ctx.String(utils.PassphraseFlag.Name), ctx.Uint64(utils.IndexFlag.Name))
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	fmt.Fprintln(w, "Mnemonic:      ", mnemonic)
	fmt.Fprintln(w, "Index:         ", ctx.Uint64(utils.IndexFlag.Name))
	fmt.Fprintln(w, "Public key:    ", "0x"+hex.EncodeToString(crypto.CompressPubkey(&key.PublicKey)))
	fmt.Fprintln(w, "Legacy address:", swap.LegacyAddress(&key.PublicKey))
	return nil
}

func signMessage(ctx *cli.Context) error {
	mnemonic := ctx.String(utils.MnemonicFlag.Name)
	if mnemonic == "" {
		return fmt.Errorf("--%s is required", utils.MnemonicFlag.Name)
	}
	if !ctx.Args().Present() {
		return fmt.Errorf("no message given")
	}
	key, err := deriveLegacyKey(mnemonic, ctx.String(utils.PassphraseFlag.Name), ctx.Uint64(utils.IndexFlag.Name))
	if err != nil {
		return err
	}
	for _, msg := range ctx.Args().Slice() {
		sig, err := swap.SignLegacyMessage(key, msg)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, sig)
	}
	return nil
}
