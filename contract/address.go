// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"encoding/hex"
	"strings"
)

// AddressSize is the length of an Aion account address in bytes.
const AddressSize = 32

// Address prefixes. The first byte of an address identifies the account
// class; the remaining 31 bytes are the address body.
const (
	// PrefixAccount marks externally-owned and ordinary accounts,
	// including multi-signature wallets.
	PrefixAccount byte = 0xA0

	// PrefixTRS marks token-release-schedule contracts.
	PrefixTRS byte = 0xC0
)

// Address is a 32-byte Aion account identifier.
type Address [AddressSize]byte

// ZeroAddress is the all-zero address.
var ZeroAddress = Address{}

// BytesToAddress returns the address formed from b, left-truncating or
// zero-left-padding to 32 bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressSize {
		b = b[len(b)-AddressSize:]
	}
	copy(a[AddressSize-len(b):], b)
	return a
}

// HexToAddress parses a hex string (with or without a 0x prefix) into an
// address. A string that is not valid hex yields the zero address.
func HexToAddress(s string) Address {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}
	}
	return BytesToAddress(b)
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// Prefix returns the account-class byte.
func (a Address) Prefix() byte { return a[0] }

// Body returns a copy of the 31-byte address body.
func (a Address) Body() []byte {
	b := make([]byte, AddressSize-1)
	copy(b, a[1:])
	return b
}

// IsAccount reports whether the address carries the ordinary-account prefix.
func (a Address) IsAccount() bool { return a[0] == PrefixAccount }

// IsTRS reports whether the address carries the TRS contract prefix.
func (a Address) IsTRS() bool { return a[0] == PrefixTRS }

// Hex returns the 0x-prefixed hex rendering of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// AccountFromBody reconstructs an ordinary-account address from a 31-byte
// body, as the depositor linked list stores its pointers.
func AccountFromBody(body []byte) Address {
	var a Address
	a[0] = PrefixAccount
	copy(a[1:], body)
	return a
}
