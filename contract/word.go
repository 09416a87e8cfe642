// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/core/tracing"
)

// Storage word widths. Every value a precompiled contract persists is either
// a single word or a double word; the store must preserve the width on
// round-trip.
const (
	SingleWordSize = 16
	DoubleWordSize = 32
)

// Word is a single 16-byte storage word.
type Word [SingleWordSize]byte

// DoubleWord is a 32-byte storage word.
type DoubleWord [DoubleWordSize]byte

// StorageKey is a width-preserving storage key. Precompiled contracts address
// their state with both 16-byte and 32-byte keys; the key width is part of
// the consensus-critical layout, so keys are opaque values constructed only
// through SingleKey and DoubleKey.
type StorageKey struct {
	buf    [DoubleWordSize]byte
	double bool
}

// SingleKey returns a 16-byte storage key.
func SingleKey(k Word) StorageKey {
	var s StorageKey
	copy(s.buf[:SingleWordSize], k[:])
	return s
}

// DoubleKey returns a 32-byte storage key.
func DoubleKey(k DoubleWord) StorageKey {
	return StorageKey{buf: k, double: true}
}

// IsDouble reports whether the key is 32 bytes wide.
func (k StorageKey) IsDouble() bool { return k.double }

// Bytes returns a copy of the key bytes at its native width.
func (k StorageKey) Bytes() []byte {
	n := SingleWordSize
	if k.double {
		n = DoubleWordSize
	}
	b := make([]byte, n)
	copy(b, k.buf[:n])
	return b
}

// WordStore is the word-addressed state cache a precompiled contract runs
// against. It is the only stateful collaborator: handlers buffer writes in
// the store and commit them with Flush on success, or roll back to a
// snapshot on failure, so that no non-success outcome mutates state.
//
// Values passed to SetStorageValue must be exactly one word or one double
// word long; anything else is an internal invariant breach.
type WordStore interface {
	GetStorageValue(addr Address, key StorageKey) ([]byte, bool)
	SetStorageValue(addr Address, key StorageKey, value []byte)

	GetBalance(addr Address) *uint256.Int
	AddBalance(addr Address, amount *uint256.Int, reason tracing.BalanceChangeReason)
	SubBalance(addr Address, amount *uint256.Int, reason tracing.BalanceChangeReason)

	GetNonce(addr Address) uint64
	IncrementNonce(addr Address)

	CreateAccount(addr Address)
	AccountExists(addr Address) bool

	Snapshot() int
	RevertToSnapshot(id int)

	// Flush commits buffered writes to the enclosing cache. On a root
	// store Flush is a no-op.
	Flush()
}
