// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"math/big"

	"github.com/aionnetwork/precompile/contract"
)

// QueryContractAddress is the dispatch address of the read-only
// token-release query precompile.
var QueryContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000212")

// Query operation tags.
const (
	OpIsLive                 byte = 0x00
	OpIsLocked               byte = 0x01
	OpIsDirectDepositEnabled byte = 0x02
	OpDepositBalance         byte = 0x03
	OpTotalBalance           byte = 0x04
)

// Singleton instance
var QueryPrecompile = &queryPrecompile{}

var _ contract.PrecompiledContract = (*queryPrecompile)(nil)

type queryPrecompile struct{}

// Address returns the precompile dispatch address.
func (p *queryPrecompile) Address() contract.Address {
	return QueryContractAddress
}

// Run answers a read-only query. The store is never mutated.
func (p *queryPrecompile) Run(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if r := contract.CheckNrg(nrgLimit); r != nil {
		return r
	}
	if len(input) < 1+contract.AddressSize {
		return contract.Fail()
	}
	c := contract.BytesToAddress(input[1 : 1+contract.AddressSize])

	specs, ok := getSpecs(state, c)
	if !ok {
		return contract.Fail()
	}

	switch input[0] {
	case OpIsLive:
		if len(input) != 1+contract.AddressSize {
			return contract.Fail()
		}
		return contract.Succeed(nrgLimit-contract.CostTx, boolWord(specs.IsLive))

	case OpIsLocked:
		if len(input) != 1+contract.AddressSize {
			return contract.Fail()
		}
		return contract.Succeed(nrgLimit-contract.CostTx, boolWord(specs.IsLocked))

	case OpIsDirectDepositEnabled:
		if len(input) != 1+contract.AddressSize {
			return contract.Fail()
		}
		return contract.Succeed(nrgLimit-contract.CostTx, boolWord(specs.IsDirectDeposit))

	case OpDepositBalance:
		if len(input) != 1+2*contract.AddressSize {
			return contract.Fail()
		}
		account := contract.BytesToAddress(input[1+contract.AddressSize:])
		return contract.Succeed(nrgLimit-contract.CostTx, balanceWord(getDepositBalance(state, c, account)))

	case OpTotalBalance:
		if len(input) != 1+contract.AddressSize {
			return contract.Fail()
		}
		return contract.Succeed(nrgLimit-contract.CostTx, balanceWord(getTotalBalance(state, c)))

	default:
		return contract.Fail()
	}
}

func boolWord(v bool) []byte {
	out := make([]byte, contract.DoubleWordSize)
	if v {
		out[contract.DoubleWordSize-1] = 1
	}
	return out
}

func balanceWord(balance *big.Int) []byte {
	if balance.Sign() == 0 {
		return make([]byte, contract.DoubleWordSize)
	}
	return toDoubleWordAligned(balance)
}
