// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package msc implements the multi-signature wallet precompiled contract:
// an on-chain M-of-N wallet with deterministic address derivation, ed25519
// composite signatures and nonce discipline. All wallet state lives in the
// WordStore; the handler itself is stateless.
//
// Wallet storage layout (single-word keys under the wallet address, the key
// high byte discriminates the field):
//
//	0x00..0x3f ‖ i(8 BE)  owner i, bytes 0..15
//	0x40..0x7f ‖ i(8 BE)  owner i, bytes 16..31
//	0x80                  meta: threshold(8 BE) ‖ owner count(8 BE)
package msc

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/core/tracing"

	"github.com/aionnetwork/precompile/contract"
)

// ContractAddress is the dispatch address of the multi-signature precompile.
var ContractAddress = contract.HexToAddress("0x0000000000000000000000000000000000000000000000000000000000000200")

// Wallet bounds.
const (
	MinOwners    = 2
	MaxOwners    = 10
	MinThreshold = 2
)

// Operation tags (first input byte).
const (
	OpCreateWallet    byte = 0x00
	OpSendTransaction byte = 0x01
)

// Field widths of the send-transaction frame.
const (
	thresholdLen = 8
	amountLen    = 128
	nrgPriceLen  = 8
)

// Diagnostic errors; invalid inputs surface to callers only as FAILURE
// results.
var (
	ErrBadFraming        = errors.New("malformed multi-sig input frame")
	ErrThreshold         = errors.New("threshold out of range")
	ErrDuplicateOwner    = errors.New("duplicate owner")
	ErrOwnerIsWallet     = errors.New("owner is itself a multi-sig wallet")
	ErrCallerNotOwner    = errors.New("caller is not an owner")
	ErrWalletExists      = errors.New("wallet already exists")
	ErrNotAWallet        = errors.New("destination is not a multi-sig wallet")
	ErrBadSignature      = errors.New("signature does not verify")
	ErrSignerNotOwner    = errors.New("signer is not an owner")
	ErrDuplicateSigner   = errors.New("duplicate signer")
	ErrTooFewSignatures  = errors.New("fewer signatures than threshold")
	ErrTooManySignatures = errors.New("more signatures than owners")
)

// Singleton instance
var MultiSigPrecompile = &mscPrecompile{crypto: contract.DefaultCrypto}

var _ contract.PrecompiledContract = (*mscPrecompile)(nil)

type mscPrecompile struct {
	crypto contract.CryptoProvider
}

// Address returns the precompile dispatch address.
func (p *mscPrecompile) Address() contract.Address {
	return ContractAddress
}

// Run executes a multi-signature operation. The first input byte selects the
// operation; everything after it is the operation payload.
func (p *mscPrecompile) Run(state contract.WordStore, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	if r := contract.CheckNrg(nrgLimit); r != nil {
		return r
	}
	if len(input) < 2 {
		return contract.Fail()
	}

	switch input[0] {
	case OpCreateWallet:
		return p.createWallet(state, caller, input[1:], nrgLimit)
	case OpSendTransaction:
		return p.sendTransaction(state, caller, input[1:], nrgLimit)
	default:
		return contract.Fail()
	}
}

// createWallet handles tag 0x00:
//
//	threshold(8 BE) ‖ owner_1(32) ‖ ... ‖ owner_n(32)
//
// The wallet address is the chain hash of the whole payload with its first
// byte forced to the ordinary-account prefix, so creation is deterministic
// in its inputs.
func (p *mscPrecompile) createWallet(state contract.WordStore, caller contract.Address, payload []byte, nrgLimit uint64) *contract.Result {
	if len(payload) < thresholdLen+MinOwners*contract.AddressSize ||
		(len(payload)-thresholdLen)%contract.AddressSize != 0 {
		return contract.Fail()
	}
	n := (len(payload) - thresholdLen) / contract.AddressSize
	if n < MinOwners || n > MaxOwners {
		return contract.Fail()
	}

	threshold := binary.BigEndian.Uint64(payload[:thresholdLen])
	if threshold < MinThreshold || threshold > uint64(n) {
		return contract.Fail()
	}

	owners := make([]contract.Address, n)
	seen := make(map[contract.Address]struct{}, n)
	callerIsOwner := false
	for i := range owners {
		off := thresholdLen + i*contract.AddressSize
		owner := contract.BytesToAddress(payload[off : off+contract.AddressSize])

		if _, dup := seen[owner]; dup {
			return contract.Fail()
		}
		seen[owner] = struct{}{}

		// An owner may not itself be a wallet: the TRS prefix is
		// reserved, and an account with a wallet meta record is one.
		if owner.IsTRS() || isWallet(state, owner) {
			return contract.Fail()
		}
		if owner == caller {
			callerIsOwner = true
		}
		owners[i] = owner
	}
	if !callerIsOwner {
		return contract.Fail()
	}

	wallet := p.deriveWalletAddress(payload)
	if isWallet(state, wallet) {
		// Identical creation inputs: the wallet already exists.
		return contract.Fail()
	}

	for i, owner := range owners {
		state.SetStorageValue(wallet, ownerLowKey(uint64(i)), owner[:contract.SingleWordSize])
		state.SetStorageValue(wallet, ownerHighKey(uint64(i)), owner[contract.SingleWordSize:])
	}
	var meta [contract.SingleWordSize]byte
	binary.BigEndian.PutUint64(meta[:8], threshold)
	binary.BigEndian.PutUint64(meta[8:], uint64(n))
	state.SetStorageValue(wallet, walletMetaKey(), meta[:])
	state.CreateAccount(wallet)
	state.Flush()

	return contract.Succeed(nrgLimit-contract.CostTx, wallet.Bytes())
}

// sendTransaction handles tag 0x01:
//
//	wallet(32) ‖ sig_1(96) ‖ ... ‖ sig_k(96) ‖ amount(128 BE) ‖ nrgPrice(8 BE) ‖ to(32)
//
// Every signature must cover the canonical message
//
//	nonce ‖ to ‖ amount ‖ nrgLimit(8 BE) ‖ nrgPrice(8 BE)
//
// with nonce and amount in minimal two's-complement form.
func (p *mscPrecompile) sendTransaction(state contract.WordStore, caller contract.Address, payload []byte, nrgLimit uint64) *contract.Result {
	fixed := contract.AddressSize + amountLen + nrgPriceLen + contract.AddressSize
	if len(payload) < fixed+contract.SignatureSize ||
		(len(payload)-fixed)%contract.SignatureSize != 0 {
		return contract.Fail()
	}
	k := (len(payload) - fixed) / contract.SignatureSize
	if k > MaxOwners {
		return contract.Fail()
	}

	wallet := contract.BytesToAddress(payload[:contract.AddressSize])
	sigs := payload[contract.AddressSize : contract.AddressSize+k*contract.SignatureSize]
	rest := payload[contract.AddressSize+k*contract.SignatureSize:]
	amountBytes := rest[:amountLen]
	nrgPrice := binary.BigEndian.Uint64(rest[amountLen : amountLen+nrgPriceLen])
	to := contract.BytesToAddress(rest[amountLen+nrgPriceLen:])

	if !wallet.IsAccount() || !isWallet(state, wallet) {
		return contract.Fail()
	}

	amount := contract.DecodeSigned(amountBytes)
	if amount.Sign() < 0 {
		return contract.Fail()
	}

	threshold, owners := readWallet(state, wallet)
	ownerSet := make(map[contract.Address]struct{}, len(owners))
	for _, owner := range owners {
		ownerSet[owner] = struct{}{}
	}
	if _, ok := ownerSet[caller]; !ok {
		return contract.Fail()
	}

	msg := p.signedMessage(state, wallet, to, amount, nrgLimit, nrgPrice)

	signers := make(map[contract.Address]struct{}, k)
	for i := 0; i < k; i++ {
		pub, sig, ok := contract.SplitSignature(sigs[i*contract.SignatureSize : (i+1)*contract.SignatureSize])
		if !ok || !p.crypto.Verify(pub, msg, sig) {
			return contract.Fail()
		}
		signer := p.crypto.AddressFromPublicKey(pub)
		if _, ok := ownerSet[signer]; !ok {
			return contract.Fail()
		}
		if _, dup := signers[signer]; dup {
			return contract.Fail()
		}
		signers[signer] = struct{}{}
	}
	if uint64(k) < threshold || k > len(owners) {
		return contract.Fail()
	}

	amountWord, overflow := uint256.FromBig(amount)
	if overflow || state.GetBalance(wallet).Lt(amountWord) {
		return contract.FailInsufficientBalance()
	}

	state.SubBalance(wallet, amountWord, tracing.BalanceChangeTransfer)
	state.AddBalance(to, amountWord, tracing.BalanceChangeTransfer)
	state.IncrementNonce(wallet)
	state.Flush()

	return contract.Succeed(nrgLimit-contract.CostTx, nil)
}

// signedMessage builds the canonical message all signers must have signed.
func (p *mscPrecompile) signedMessage(state contract.WordStore, wallet, to contract.Address, amount *big.Int, nrgLimit, nrgPrice uint64) []byte {
	nonce := new(big.Int).SetUint64(state.GetNonce(wallet))

	var limit, price [8]byte
	binary.BigEndian.PutUint64(limit[:], nrgLimit)
	binary.BigEndian.PutUint64(price[:], nrgPrice)

	msg := contract.EncodeSigned(nonce)
	msg = append(msg, to.Bytes()...)
	msg = append(msg, contract.EncodeSigned(amount)...)
	msg = append(msg, limit[:]...)
	msg = append(msg, price[:]...)
	return msg
}

// deriveWalletAddress hashes threshold ‖ owners and forces the
// ordinary-account prefix.
func (p *mscPrecompile) deriveWalletAddress(payload []byte) contract.Address {
	h := p.crypto.Hash32(payload)
	h[0] = contract.PrefixAccount
	return contract.Address(h)
}

// readWallet loads the threshold and owner list of an existing wallet. The
// meta record is known present; a missing owner row past this point is
// storage corruption.
func readWallet(state contract.WordStore, wallet contract.Address) (threshold uint64, owners []contract.Address) {
	meta, ok := state.GetStorageValue(wallet, walletMetaKey())
	if !ok {
		contract.Fatal("wallet %s lost its meta record", wallet.Hex())
	}
	threshold = binary.BigEndian.Uint64(meta[:8])
	count := binary.BigEndian.Uint64(meta[8:])
	if count < MinOwners || count > MaxOwners {
		contract.Fatal("wallet %s has owner count %d", wallet.Hex(), count)
	}

	owners = make([]contract.Address, count)
	for i := uint64(0); i < count; i++ {
		low, okLow := state.GetStorageValue(wallet, ownerLowKey(i))
		high, okHigh := state.GetStorageValue(wallet, ownerHighKey(i))
		if !okLow || !okHigh {
			contract.Fatal("wallet %s is missing owner row %d", wallet.Hex(), i)
		}
		var owner contract.Address
		copy(owner[:contract.SingleWordSize], low)
		copy(owner[contract.SingleWordSize:], high)
		owners[i] = owner
	}
	return threshold, owners
}

// isWallet reports whether addr carries a wallet meta record.
func isWallet(state contract.WordStore, addr contract.Address) bool {
	_, ok := state.GetStorageValue(addr, walletMetaKey())
	return ok
}

func ownerLowKey(i uint64) contract.StorageKey {
	var k contract.Word
	k[0] = byte(i)
	binary.BigEndian.PutUint64(k[8:], i)
	return contract.SingleKey(k)
}

func ownerHighKey(i uint64) contract.StorageKey {
	var k contract.Word
	k[0] = 0x40 | byte(i)
	binary.BigEndian.PutUint64(k[8:], i)
	return contract.SingleKey(k)
}

func walletMetaKey() contract.StorageKey {
	var k contract.Word
	k[0] = 0x80
	return contract.SingleKey(k)
}
