// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"encoding/binary"

	"github.com/aionnetwork/precompile/contract"
)

// Storage key derivation for a token-release contract. The key high byte
// discriminates the record kind; all of it is consensus-critical:
//
//	0xF0                     single  owner address
//	0xE0                     single  specs record
//	0x91                     single  total-balance specs (row count)
//	0x90 ‖ row(4 BE)         single  total-balance row
//	0x70                     single  depositor list head
//	0xB0|row ‖ acct body     double  deposit-balance row for an account
//	0x60 ‖ acct body         double  list previous-pointer for an account
//	acct address             double  account metadata + next-pointer
//
// Row indexes sit big-endian in the low 4 bytes of single-word keys.

func specsKey() contract.StorageKey {
	var k contract.Word
	k[0] = 0xE0
	return contract.SingleKey(k)
}

func ownerKey() contract.StorageKey {
	var k contract.Word
	k[0] = 0xF0
	return contract.SingleKey(k)
}

func fundsSpecsKey() contract.StorageKey {
	var k contract.Word
	k[0] = 0x91
	return contract.SingleKey(k)
}

func totalRowKey(row uint32) contract.StorageKey {
	var k contract.Word
	k[0] = 0x90
	binary.BigEndian.PutUint32(k[contract.SingleWordSize-4:], row)
	return contract.SingleKey(k)
}

func listHeadKey() contract.StorageKey {
	var k contract.Word
	k[0] = 0x70
	return contract.SingleKey(k)
}

func balanceRowKey(account contract.Address, row uint8) contract.StorageKey {
	var k contract.DoubleWord
	k[0] = 0xB0 | (row & 0x0F)
	copy(k[1:], account[1:])
	return contract.DoubleKey(k)
}

func prevKey(account contract.Address) contract.StorageKey {
	var k contract.DoubleWord
	k[0] = 0x60
	copy(k[1:], account[1:])
	return contract.DoubleKey(k)
}

// nextKey addresses the account metadata + next-pointer record: the key is
// the account address itself.
func nextKey(account contract.Address) contract.StorageKey {
	return contract.DoubleKey(contract.DoubleWord(account))
}
