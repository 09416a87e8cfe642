// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/core/tracing"

	"github.com/aionnetwork/precompile/contract"
)

// UseContractAddress is the dispatch address of the token-release use
// precompile (deposits and refunds).
var UseContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000211")

// Use-contract operation tags.
const (
	OpDeposit byte = 0x00
	OpRefund  byte = 0x01
)

// Frame lengths: tag ‖ contract(32) ‖ amount(128), and with an extra
// account(32) for refunds.
const (
	depositInputLen = 1 + contract.AddressSize + 128
	refundInputLen  = 1 + 2*contract.AddressSize + 128
	useAmountLen    = 128
)

// Singleton instance
var UsePrecompile = &usePrecompile{}

var _ contract.PrecompiledContract = (*usePrecompile)(nil)

type usePrecompile struct{}

// Address returns the precompile dispatch address.
func (p *usePrecompile) Address() contract.Address {
	return UseContractAddress
}

// Run executes a use operation against a token-release contract.
func (p *usePrecompile) Run(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if r := contract.CheckNrg(nrgLimit); r != nil {
		return r
	}
	if len(input) < 1 {
		return contract.Fail()
	}

	switch input[0] {
	case OpDeposit:
		return p.deposit(state, caller, input, nrgLimit)
	case OpRefund:
		return p.refund(state, caller, input, nrgLimit)
	default:
		return contract.Fail()
	}
}

// deposit moves funds from the caller into a token-release contract while
// it is unlocked and not yet live, enrolling the caller in the depositor
// list on first deposit. A zero deposit succeeds without enrolling.
func (p *usePrecompile) deposit(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if len(input) != depositInputLen {
		return contract.Fail()
	}
	c := contract.BytesToAddress(input[1 : 1+contract.AddressSize])
	amount := contract.DecodeUnsigned(input[1+contract.AddressSize:])

	specs, ok := getSpecs(state, c)
	if !ok {
		return contract.Fail()
	}
	if owner, _ := getOwner(state, c); caller != owner && !specs.IsDirectDeposit {
		return contract.Fail()
	}
	if specs.IsLocked || specs.IsLive {
		return contract.Fail()
	}

	if state.GetBalance(caller).ToBig().Cmp(amount) < 0 {
		return contract.FailInsufficientBalance()
	}
	if amount.Sign() == 0 {
		return contract.Succeed(nrgLimit-contract.CostTx, nil)
	}

	snap := state.Snapshot()

	wasListed := readAccountMeta(state, c, caller).kind == metaLive
	newBalance := new(big.Int).Add(getDepositBalance(state, c, caller), amount)
	if !setDepositBalance(state, c, caller, newBalance) {
		state.RevertToSnapshot(snap)
		return contract.Fail()
	}
	if !wasListed {
		listAddToHead(state, c, caller)
	}
	setTotalBalance(state, c, new(big.Int).Add(getTotalBalance(state, c), amount))

	// amount <= caller balance, so the word conversion is exact.
	amountWord, _ := uint256.FromBig(amount)
	state.SubBalance(caller, amountWord, tracing.BalanceChangeTransfer)
	state.AddBalance(c, amountWord, tracing.BalanceChangeTransfer)
	state.Flush()

	return contract.Succeed(nrgLimit-contract.CostTx, nil)
}

// refund lets the contract owner return deposited funds to an account
// before the contract locks. A refund that empties the account's deposit
// logically deletes it from the depositor list.
func (p *usePrecompile) refund(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if len(input) != refundInputLen {
		return contract.Fail()
	}
	c := contract.BytesToAddress(input[1 : 1+contract.AddressSize])
	account := contract.BytesToAddress(input[1+contract.AddressSize : 1+2*contract.AddressSize])
	amount := contract.DecodeUnsigned(input[1+2*contract.AddressSize:])

	specs, ok := getSpecs(state, c)
	if !ok {
		return contract.Fail()
	}
	if owner, _ := getOwner(state, c); caller != owner {
		return contract.Fail()
	}
	if specs.IsLocked || specs.IsLive {
		return contract.Fail()
	}
	if readAccountMeta(state, c, account).kind != metaLive {
		return contract.Fail()
	}

	balance := getDepositBalance(state, c, account)
	if balance.Cmp(amount) < 0 {
		return contract.Fail()
	}
	if amount.Sign() == 0 {
		return contract.Succeed(nrgLimit-contract.CostTx, nil)
	}

	newBalance := new(big.Int).Sub(balance, amount)
	if newBalance.Sign() == 0 {
		listRemove(state, c, account)
	} else if !setDepositBalance(state, c, account, newBalance) {
		return contract.Fail()
	}
	setTotalBalance(state, c, new(big.Int).Sub(getTotalBalance(state, c), amount))

	amountWord, overflow := uint256.FromBig(amount)
	if overflow {
		contract.Fatal("refund amount %s exceeds account balance width", amount)
	}
	state.SubBalance(c, amountWord, tracing.BalanceChangeTransfer)
	state.AddBalance(account, amountWord, tracing.BalanceChangeTransfer)
	state.Flush()

	return contract.Succeed(nrgLimit-contract.CostTx, nil)
}
