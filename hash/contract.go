// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hash implements the chain hash precompiled contract. Operation
// 0x00 returns the domain-separated 32-byte chain hash (the same function
// that derives account addresses); operation 0x01 returns a raw 64-byte
// blake3 digest.
package hash

import (
	"errors"

	"github.com/zeebo/blake3"

	"github.com/aionnetwork/precompile/contract"
)

// ContractAddress is the dispatch address of the hash precompile.
var ContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000011")

// Operation selectors (first byte of input)
const (
	OpHash256 byte = 0x00
	OpHash512 byte = 0x01
)

// MaxInputLength bounds the hashed payload: 2 MiB.
const MaxInputLength = 2 * 1024 * 1024

// Energy costs: a flat base plus a per-word charge, with a surcharge for
// the wide digest.
const (
	GasBase        uint64 = 30
	GasPerWord     uint64 = 6
	GasWide512     uint64 = 20
	DigestLength32        = 32
	DigestLength64        = 64
)

var (
	ErrInvalidOperation  = errors.New("invalid hash operation selector")
	ErrInvalidDataLength = errors.New("invalid hash data length")
)

// Singleton instance
var HashPrecompile = &hashPrecompile{crypto: contract.DefaultCrypto}

var _ contract.PrecompiledContract = (*hashPrecompile)(nil)

type hashPrecompile struct {
	crypto contract.CryptoProvider
}

// Address returns the precompile dispatch address.
func (p *hashPrecompile) Address() contract.Address {
	return ContractAddress
}

// RequiredNrg returns the energy cost of hashing input, including its
// operation byte.
func (p *hashPrecompile) RequiredNrg(input []byte) uint64 {
	if len(input) < 2 {
		return GasBase
	}
	dataWords := (uint64(len(input)-1) + contract.SingleWordSize - 1) / contract.SingleWordSize
	cost := GasBase + dataWords*GasPerWord
	if input[0] == OpHash512 {
		cost += GasWide512
	}
	return cost
}

// Run hashes the payload after the operation byte. It never touches state.
func (p *hashPrecompile) Run(_ contract.WordStore, _ contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	cost := p.RequiredNrg(input)
	if r := contract.CheckNrgCost(nrgLimit, cost); r != nil {
		return r
	}
	if len(input) < 2 || len(input)-1 > MaxInputLength {
		return contract.Fail()
	}

	data := input[1:]
	switch input[0] {
	case OpHash256:
		digest := p.crypto.Hash32(data)
		return contract.Succeed(nrgLimit-cost, digest[:])

	case OpHash512:
		digest := blake3.Sum512(data)
		return contract.Succeed(nrgLimit-cost, digest[:])

	default:
		return contract.Fail()
	}
}
