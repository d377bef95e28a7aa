package swap

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

var allowanceCapSlot = common.BytesToHash(crypto.Keccak256([]byte("swap\x00allowanceCap")))

// snapshotSlot hashes ("swap" || 0x00 || "snapshot" || 0x00 || len[8B] || legacy || 0x00 || field).
func snapshotSlot(legacy string, field string) common.Hash {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(len(legacy)))
	key := make([]byte, 0, 23+len(legacy)+len(field))
	key = append(key, "swap\x00snapshot\x00"...)
	key = append(key, l[:]...)
	key = append(key, legacy...)
	key = append(key, 0x00)
	key = append(key, field...)
	return common.BytesToHash(crypto.Keccak256(key))
}

// kycSlot hashes (addr[20B] || 0x00 || "kyc" || 0x00 || field).
func kycSlot(addr common.Address, field string) common.Hash {
	key := make([]byte, 0, 26+len(field))
	key = append(key, addr.Bytes()...)
	key = append(key, "\x00kyc\x00"...)
	key = append(key, field...)
	return common.BytesToHash(crypto.Keccak256(key))
}

func readBig(db vm.StateDB, owner common.Address, slot common.Hash) *big.Int {
	return db.GetState(owner, slot).Big()
}

func writeBig(db vm.StateDB, owner common.Address, slot common.Hash, n *big.Int) {
	db.SetState(owner, slot, common.BigToHash(n))
}

func readBool(db vm.StateDB, owner common.Address, slot common.Hash) bool {
	return db.GetState(owner, slot)[31] != 0
}

func writeBool(db vm.StateDB, owner common.Address, slot common.Hash, v bool) {
	var word common.Hash
	if v {
		word[31] = 1
	}
	db.SetState(owner, slot, word)
}

// ReadAllowanceCap returns the allowance cap stored under owner.
func ReadAllowanceCap(db vm.StateDB, owner common.Address) *big.Int {
	return readBig(db, owner, allowanceCapSlot)
}

func writeAllowanceCap(db vm.StateDB, owner common.Address, capNumber *big.Int) {
	writeBig(db, owner, allowanceCapSlot, capNumber)
}

// ReadSnapshot returns the snapshot recorded for a legacy address.
func ReadSnapshot(db vm.StateDB, owner common.Address, legacy string) Snapshot {
	return Snapshot{
		Amount:  readBig(db, owner, snapshotSlot(legacy, "amount")),
		Swapped: readBool(db, owner, snapshotSlot(legacy, "swapped")),
	}
}

func writeSnapshotAmount(db vm.StateDB, owner common.Address, legacy string, amount *big.Int) {
	writeBig(db, owner, snapshotSlot(legacy, "amount"), amount)
}

func markSwapped(db vm.StateDB, owner common.Address, legacy string) {
	writeBool(db, owner, snapshotSlot(legacy, "swapped"), true)
}

// ReadKYC returns the KYC record of a new-chain account.
func ReadKYC(db vm.StateDB, owner common.Address, account common.Address) KYCRecord {
	return KYCRecord{
		Level:      readBig(db, owner, kycSlot(account, "level")).Uint64(),
		Registered: readBool(db, owner, kycSlot(account, "registered")),
	}
}

func writeKYC(db vm.StateDB, owner common.Address, account common.Address, level *big.Int) {
	writeBig(db, owner, kycSlot(account, "level"), level)
	writeBool(db, owner, kycSlot(account, "registered"), true)
}
