// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"encoding/binary"
	"math/big"

	"github.com/aionnetwork/precompile/contract"
)

// StateContractAddress is the dispatch address of the token-release state
// precompile (contract creation and lifecycle transitions).
var StateContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000210")

// State-contract operation tags.
const (
	OpCreate byte = 0x00
	OpLock   byte = 0x01
	OpStart  byte = 0x02
)

// Create frame: tag ‖ isTest(1) ‖ isDirectDeposit(1) ‖ periods(2 BE) ‖
// precision(1) ‖ percent(9).
const createInputLen = 1 + 1 + 1 + 2 + 1 + specsPercentLen

// MaxPrecision bounds the decimal shift applied to the percent value.
const MaxPrecision = 18

// Singleton instance
var StatePrecompile = &statePrecompile{crypto: contract.DefaultCrypto}

var _ contract.PrecompiledContract = (*statePrecompile)(nil)

type statePrecompile struct {
	crypto contract.CryptoProvider
}

// Address returns the precompile dispatch address.
func (p *statePrecompile) Address() contract.Address {
	return StateContractAddress
}

// Run executes a lifecycle operation. Contracts move unlocked → locked →
// live, one way only.
func (p *statePrecompile) Run(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if r := contract.CheckNrg(nrgLimit); r != nil {
		return r
	}
	if len(input) < 1 {
		return contract.Fail()
	}

	switch input[0] {
	case OpCreate:
		return p.create(state, caller, input, nrgLimit)
	case OpLock:
		return p.lock(state, caller, input, nrgLimit)
	case OpStart:
		return p.start(state, caller, input, nrgLimit)
	default:
		return contract.Fail()
	}
}

// create deploys a new token-release contract owned by the caller. The
// contract address is the chain hash of caller ‖ nonce with the first byte
// forced to the TRS prefix, so each creation by the same caller yields a
// fresh deterministic address.
func (p *statePrecompile) create(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if len(input) != createInputLen {
		return contract.Fail()
	}
	isTest, isDirect := input[1], input[2]
	if isTest > 1 || isDirect > 1 {
		return contract.Fail()
	}
	periods := binary.BigEndian.Uint16(input[3:5])
	if periods == 0 {
		return contract.Fail()
	}
	precision := input[5]
	if precision > MaxPrecision {
		return contract.Fail()
	}
	percent := new(big.Int).SetBytes(input[6:])

	// The release fraction may not exceed 100%.
	limit := new(big.Int).Mul(big.NewInt(100),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil))
	if percent.Cmp(limit) > 0 {
		return contract.Fail()
	}

	preimage := make([]byte, 0, contract.AddressSize+8)
	preimage = append(preimage, caller.Bytes()...)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], state.GetNonce(caller))
	preimage = append(preimage, nonce[:]...)

	h := p.crypto.Hash32(preimage)
	h[0] = contract.PrefixTRS
	c := contract.Address(h)

	if _, ok := getSpecs(state, c); ok {
		return contract.Fail()
	}

	state.CreateAccount(c)
	if !setSpecs(state, c, isTest == 1, isDirect == 1, periods, percent, precision) {
		contract.Fatal("specs already present on fresh contract %s", c.Hex())
	}
	if !setOwner(state, c, caller) {
		contract.Fatal("owner already present on fresh contract %s", c.Hex())
	}
	state.IncrementNonce(caller)
	state.Flush()

	return contract.Succeed(nrgLimit-contract.CostTx, c.Bytes())
}

// lock freezes deposits and refunds; only the owner of an unlocked,
// not-yet-live contract may lock it.
func (p *statePrecompile) lock(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	c, specs, r := p.ownedContract(state, caller, input)
	if r != nil {
		return r
	}
	if specs.IsLocked || specs.IsLive {
		return contract.Fail()
	}

	setLock(state, c)
	state.Flush()
	return contract.Succeed(nrgLimit-contract.CostTx, nil)
}

// start makes a locked contract live, opening the withdrawal phase.
func (p *statePrecompile) start(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	c, specs, r := p.ownedContract(state, caller, input)
	if r != nil {
		return r
	}
	if !specs.IsLocked || specs.IsLive {
		return contract.Fail()
	}

	setLive(state, c)
	state.Flush()
	return contract.Succeed(nrgLimit-contract.CostTx, nil)
}

func (p *statePrecompile) ownedContract(state contract.WordStore, caller contract.Address, input []byte) (contract.Address, SpecsRecord, *contract.Result) {
	if len(input) != 1+contract.AddressSize {
		return contract.Address{}, SpecsRecord{}, contract.Fail()
	}
	c := contract.BytesToAddress(input[1:])
	specs, ok := getSpecs(state, c)
	if !ok {
		return contract.Address{}, SpecsRecord{}, contract.Fail()
	}
	if owner, _ := getOwner(state, c); caller != owner {
		return contract.Address{}, SpecsRecord{}, contract.Fail()
	}
	return c, specs, nil
}
