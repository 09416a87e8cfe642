// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package edverify implements the ed25519 signature-check precompiled
// contract. It is stateless: the input carries a 32-byte message, the
// signer's 32-byte public key and the 64-byte signature, and the output is
// the public key on success or the all-zero word on mismatch, so contract
// code can compare the result against an expected signer.
package edverify

import (
	"errors"

	"github.com/aionnetwork/precompile/contract"
)

// ContractAddress is the dispatch address of the ed25519 verify precompile.
var ContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000010")

// Input layout: message(32) ‖ publicKey(32) ‖ signature(64).
const (
	messageLen = 32
	inputLen   = messageLen + contract.Ed25519PublicKeySize + contract.Ed25519SignatureSize
)

// Cost is the flat energy charge of a verification.
const Cost uint64 = 3_000

var ErrInvalidInputLength = errors.New("invalid ed25519 verify input length")

// Singleton instance
var EDVerifyPrecompile = &edVerifyPrecompile{crypto: contract.DefaultCrypto}

var _ contract.PrecompiledContract = (*edVerifyPrecompile)(nil)

type edVerifyPrecompile struct {
	crypto contract.CryptoProvider
}

// Address returns the precompile dispatch address.
func (p *edVerifyPrecompile) Address() contract.Address {
	return ContractAddress
}

// Run verifies one signature. It never touches state.
func (p *edVerifyPrecompile) Run(_ contract.WordStore, _ contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if r := contract.CheckNrgCost(nrgLimit, Cost); r != nil {
		return r
	}
	if len(input) != inputLen {
		return contract.Fail()
	}

	message := input[:messageLen]
	publicKey := input[messageLen : messageLen+contract.Ed25519PublicKeySize]
	signature := input[messageLen+contract.Ed25519PublicKeySize:]

	output := make([]byte, contract.Ed25519PublicKeySize)
	if p.crypto.Verify(publicKey, message, signature) {
		copy(output, publicKey)
	}
	return contract.Succeed(nrgLimit-Cost, output)
}
