// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// Scalar codecs. Two encodings of big integers appear in the consensus
// formats and must not be confused:
//
//   - the signed minimal two's-complement big-endian form used in signed
//     messages (zero is the single byte 0x00, a positive value with its high
//     bit set gains a leading 0x00);
//   - the unsigned big-endian form used for stored balances, padded on read
//     with a leading zero sentinel so the decoded value is non-negative.

// EncodeSigned returns the minimal two's-complement big-endian encoding of x.
func EncodeSigned(x *big.Int) []byte {
	switch x.Sign() {
	case 0:
		return []byte{0x00}
	case 1:
		b := x.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0x00}, b...)
		}
		return b
	}

	// Negative: find the shortest width n with x >= -2^(8n-1), then encode
	// x + 2^(8n).
	n := (x.BitLen() + 7) / 8
	for {
		bound := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
		if x.Cmp(new(big.Int).Neg(bound)) >= 0 {
			break
		}
		n++
	}
	val := new(big.Int).Add(x, new(big.Int).Lsh(big.NewInt(1), uint(8*n)))
	return common.LeftPadBytes(val.Bytes(), n)
}

// DecodeSigned interprets b as a two's-complement big-endian integer. An
// empty slice decodes to zero.
func DecodeSigned(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	x := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}

// DecodeUnsigned interprets b as an unsigned big-endian integer, as if a
// zero sentinel byte were prepended.
func DecodeUnsigned(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// EncodeUnsignedPadded returns the unsigned big-endian encoding of a
// non-negative x, zero-left-padded to width bytes. It is fatal to pass a
// negative value or one that does not fit.
func EncodeUnsignedPadded(x *big.Int, width int) []byte {
	if x.Sign() < 0 {
		Fatal("unsigned encoding of negative value %s", x)
	}
	b := x.Bytes()
	if len(b) > width {
		Fatal("value %s does not fit %d bytes", x, width)
	}
	return common.LeftPadBytes(b, width)
}
