// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trs implements the token-release-schedule contract family: the
// shared persistence core over the WordStore plus the use, state and query
// precompiled handlers layered on it.
//
// A token-release contract (address prefix 0xC0) owns a specs record, an
// owner record, per-account deposit balances spread over up to sixteen
// double-word rows, a multi-row total-balance accumulator and a doubly
// linked list of depositors. The byte layout of every record is
// consensus-critical; see keys.go for the key scheme.
package trs

import (
	"encoding/binary"
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/aionnetwork/precompile/contract"
)

// Metadata byte flags of an account record. The null bit marks a null next
// pointer, the valid bit marks list membership; the low nibble holds the
// account's deposit-balance row count.
const (
	nullBit      byte = 0x80
	validBit     byte = 0x40
	rowCountMask byte = 0x0F
)

// MaxDepositRows bounds the number of double-word rows a single account's
// deposit balance may occupy.
const MaxDepositRows = 16

// Specs record byte offsets within its single word.
const (
	specsPercentLen    = 9
	specsTestOffset    = 9
	specsDirectOffset  = 10
	specsPrecOffset    = 11
	specsPeriodsOffset = 12
	specsLockedOffset  = 14
	specsLiveOffset    = 15
)

// SpecsRecord is the decoded policy descriptor of a token-release contract.
// Percent is the raw unsigned value; the effective fraction is
// Percent * 10^-Precision percent.
type SpecsRecord struct {
	Percent         *big.Int
	IsTest          bool
	IsDirectDeposit bool
	Precision       uint8
	Periods         uint16
	IsLocked        bool
	IsLive          bool
}

// getSpecs reads the specs record. It reports false when c is not a
// token-release contract or no specs were ever written.
func getSpecs(state contract.WordStore, c contract.Address) (SpecsRecord, bool) {
	if !c.IsTRS() {
		return SpecsRecord{}, false
	}
	v, ok := state.GetStorageValue(c, specsKey())
	if !ok {
		return SpecsRecord{}, false
	}
	return SpecsRecord{
		Percent:         new(big.Int).SetBytes(v[:specsPercentLen]),
		IsTest:          v[specsTestOffset] == 1,
		IsDirectDeposit: v[specsDirectOffset] == 1,
		Precision:       v[specsPrecOffset],
		Periods:         binary.BigEndian.Uint16(v[specsPeriodsOffset : specsPeriodsOffset+2]),
		IsLocked:        v[specsLockedOffset] == 1,
		IsLive:          v[specsLiveOffset] == 1,
	}, true
}

// setSpecs writes the specs record once; a second write is refused. Percent
// is truncated to its low nine bytes.
func setSpecs(state contract.WordStore, c contract.Address, isTest, isDirectDeposit bool, periods uint16, percent *big.Int, precision uint8) bool {
	if _, ok := state.GetStorageValue(c, specsKey()); ok {
		return false
	}

	pct := percent.Bytes()
	if len(pct) > specsPercentLen {
		pct = pct[len(pct)-specsPercentLen:]
	}

	var v [contract.SingleWordSize]byte
	copy(v[:specsPercentLen], common.LeftPadBytes(pct, specsPercentLen))
	if isTest {
		v[specsTestOffset] = 1
	}
	if isDirectDeposit {
		v[specsDirectOffset] = 1
	}
	v[specsPrecOffset] = precision
	binary.BigEndian.PutUint16(v[specsPeriodsOffset:], periods)
	state.SetStorageValue(c, specsKey(), v[:])
	return true
}

// setLock marks the contract locked.
func setLock(state contract.WordStore, c contract.Address) {
	setSpecsFlag(state, c, specsLockedOffset)
}

// setLive marks the contract live.
func setLive(state contract.WordStore, c contract.Address) {
	setSpecsFlag(state, c, specsLiveOffset)
}

func setSpecsFlag(state contract.WordStore, c contract.Address, offset int) {
	v, ok := state.GetStorageValue(c, specsKey())
	if !ok {
		contract.Fatal("flag write on contract %s without specs", c.Hex())
	}
	v[offset] = 1
	state.SetStorageValue(c, specsKey(), v)
}

// getOwner reads the contract owner.
func getOwner(state contract.WordStore, c contract.Address) (contract.Address, bool) {
	v, ok := state.GetStorageValue(c, ownerKey())
	if !ok {
		return contract.Address{}, false
	}
	return contract.BytesToAddress(v), true
}

// setOwner records the owner once; a second write is refused.
func setOwner(state contract.WordStore, c, owner contract.Address) bool {
	if _, ok := state.GetStorageValue(c, ownerKey()); ok {
		return false
	}
	state.SetStorageValue(c, ownerKey(), owner.Bytes())
	return true
}

// metaKind is the decoded presence state of an account record: never
// written, logically deleted from the depositor list, or live in it.
type metaKind uint8

const (
	metaAbsent metaKind = iota
	metaDeleted
	metaLive
)

// accountMeta is the decoded account metadata record. raw preserves the
// stored word so re-encoding is bit-exact.
type accountMeta struct {
	kind     metaKind
	nullNext bool
	rowCount uint8
	next     *contract.Address
	raw      [contract.DoubleWordSize]byte
}

func readAccountMeta(state contract.WordStore, c, account contract.Address) accountMeta {
	v, ok := state.GetStorageValue(c, nextKey(account))
	if !ok {
		return accountMeta{kind: metaAbsent}
	}

	var m accountMeta
	copy(m.raw[:], v)
	m.rowCount = v[0] & rowCountMask
	if v[0]&validBit == 0 {
		m.kind = metaDeleted
		return m
	}
	m.kind = metaLive
	m.nullNext = v[0]&nullBit != 0
	if !m.nullNext {
		next := contract.AccountFromBody(v[1:])
		m.next = &next
	}
	return m
}

// getDepositBalance returns the account's deposit balance, zero when the
// account is absent from the depositor list or logically deleted.
func getDepositBalance(state contract.WordStore, c, account contract.Address) *big.Int {
	meta := readAccountMeta(state, c, account)
	if meta.kind != metaLive {
		return new(big.Int)
	}
	return readBalanceRows(state, c, int(meta.rowCount), func(row uint8) contract.StorageKey {
		return balanceRowKey(account, row)
	})
}

// setDepositBalance canonicalises balance into double-word rows and writes
// them along with the account's row count. Balances below one are a no-op
// (zero is represented by the absence of rows); a balance wider than
// MaxDepositRows rows is refused. The list pointers are not touched here: a
// fresh record carries only the null bit (no valid bit), and an existing
// record keeps its null bit and next pointer and gains the valid bit.
func setDepositBalance(state contract.WordStore, c, account contract.Address, balance *big.Int) bool {
	if balance.Sign() < 1 {
		return true
	}

	aligned := toDoubleWordAligned(balance)
	rows := len(aligned) / contract.DoubleWordSize
	if rows > MaxDepositRows {
		return false
	}
	for i := 0; i < rows; i++ {
		state.SetStorageValue(c, balanceRowKey(account, uint8(i)),
			aligned[i*contract.DoubleWordSize:(i+1)*contract.DoubleWordSize])
	}

	var v [contract.DoubleWordSize]byte
	if old, ok := state.GetStorageValue(c, nextKey(account)); ok {
		copy(v[:], old)
		v[0] = (old[0] & nullBit) | validBit | (byte(rows) & rowCountMask)
	} else {
		v[0] = nullBit | (byte(rows) & rowCountMask)
	}
	state.SetStorageValue(c, nextKey(account), v[:])
	return true
}

// getTotalBalance returns the contract's total deposited balance.
func getTotalBalance(state contract.WordStore, c contract.Address) *big.Int {
	v, ok := state.GetStorageValue(c, fundsSpecsKey())
	if !ok {
		return new(big.Int)
	}
	rows := int(binary.BigEndian.Uint32(v[contract.SingleWordSize-4:]))
	return readBalanceRows(state, c, rows, func(row uint8) contract.StorageKey {
		return totalRowKey(uint32(row))
	})
}

// setTotalBalance writes the total-balance rows and their row count. A
// negative total is an accounting invariant breach.
func setTotalBalance(state contract.WordStore, c contract.Address, balance *big.Int) {
	if balance.Sign() < 0 {
		contract.Fatal("negative total balance %s on contract %s", balance, c.Hex())
	}

	rows := 0
	if balance.Sign() > 0 {
		aligned := toDoubleWordAligned(balance)
		rows = len(aligned) / contract.DoubleWordSize
		for i := 0; i < rows; i++ {
			state.SetStorageValue(c, totalRowKey(uint32(i)),
				aligned[i*contract.DoubleWordSize:(i+1)*contract.DoubleWordSize])
		}
	}

	var v [contract.SingleWordSize]byte
	binary.BigEndian.PutUint32(v[contract.SingleWordSize-4:], uint32(rows))
	state.SetStorageValue(c, fundsSpecsKey(), v[:])
}

func readBalanceRows(state contract.WordStore, c contract.Address, rows int, key func(uint8) contract.StorageKey) *big.Int {
	buf := make([]byte, 0, rows*contract.DoubleWordSize)
	for i := 0; i < rows; i++ {
		row, ok := state.GetStorageValue(c, key(uint8(i)))
		if !ok {
			contract.Fatal("contract %s is missing balance row %d of %d", c.Hex(), i, rows)
		}
		buf = append(buf, row...)
	}
	return contract.DecodeUnsigned(buf)
}

// toDoubleWordAligned returns the unsigned big-endian encoding of a positive
// balance, zero-left-padded to the next double-word boundary. The top row of
// the result always carries at least one non-zero byte.
func toDoubleWordAligned(balance *big.Int) []byte {
	b := balance.Bytes()
	width := (len(b) + contract.DoubleWordSize - 1) / contract.DoubleWordSize * contract.DoubleWordSize
	return common.LeftPadBytes(b, width)
}
