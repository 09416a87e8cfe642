// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msc

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/core/tracing"
	"github.com/stretchr/testify/require"

	"github.com/aionnetwork/precompile/contract"
)

func newKey(seed byte) (ed25519.PublicKey, ed25519.PrivateKey, contract.Address) {
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv, contract.DefaultCrypto.AddressFromPublicKey(pub)
}

func createInput(threshold uint64, owners ...contract.Address) []byte {
	input := make([]byte, 0, 9+32*len(owners))
	input = append(input, OpCreateWallet)
	var t [8]byte
	binary.BigEndian.PutUint64(t[:], threshold)
	input = append(input, t[:]...)
	for _, owner := range owners {
		input = append(input, owner.Bytes()...)
	}
	return input
}

func sendInput(wallet contract.Address, sigs [][]byte, amount *big.Int, nrgPrice uint64, to contract.Address) []byte {
	input := []byte{OpSendTransaction}
	input = append(input, wallet.Bytes()...)
	for _, sig := range sigs {
		input = append(input, sig...)
	}
	input = append(input, contract.EncodeUnsignedPadded(amount, amountLen)...)
	var price [8]byte
	binary.BigEndian.PutUint64(price[:], nrgPrice)
	input = append(input, price[:]...)
	input = append(input, to.Bytes()...)
	return input
}

func signedMessage(nonce, amount *big.Int, to contract.Address, nrgLimit, nrgPrice uint64) []byte {
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

func composite(priv ed25519.PrivateKey, msg []byte) []byte {
	pub := priv.Public().(ed25519.PublicKey)
	sig := append([]byte(nil), pub...)
	return append(sig, ed25519.Sign(priv, msg)...)
}

// setupWallet creates the S1 wallet: three keys, threshold 2, caller = A1.
func setupWallet(t *testing.T) (*contract.StateCache, contract.Address, []ed25519.PrivateKey, []contract.Address) {
	t.Helper()
	state := contract.NewStateCache()

	privs := make([]ed25519.PrivateKey, 3)
	owners := make([]contract.Address, 3)
	for i := range privs {
		_, privs[i], owners[i] = newKey(byte(i + 1))
	}

	r := MultiSigPrecompile.Run(state, owners[0], createInput(2, owners...), 100_000)
	require.Equal(t, contract.Success, r.Code)
	return state, contract.BytesToAddress(r.Output), privs, owners
}

func TestCreateWalletMinimum(t *testing.T) {
	state := contract.NewStateCache()

	privs := make([]ed25519.PrivateKey, 3)
	owners := make([]contract.Address, 3)
	for i := range privs {
		_, privs[i], owners[i] = newKey(byte(i + 1))
	}

	input := createInput(2, owners...)
	r := MultiSigPrecompile.Run(state, owners[0], input, 100_000)

	require.Equal(t, contract.Success, r.Code)
	require.Equal(t, uint64(100_000-21_000), r.NrgLeft)

	expected := contract.DefaultCrypto.Hash32(input[1:])
	expected[0] = contract.PrefixAccount
	require.Equal(t, expected[:], r.Output)

	wallet := contract.BytesToAddress(r.Output)
	require.True(t, wallet.IsAccount())
	require.True(t, state.AccountExists(wallet))
	require.True(t, state.GetBalance(wallet).IsZero())
	require.Zero(t, state.GetNonce(wallet))

	meta, ok := state.GetStorageValue(wallet, walletMetaKey())
	require.True(t, ok)
	require.Equal(t, uint64(2), binary.BigEndian.Uint64(meta[:8]))
	require.Equal(t, uint64(3), binary.BigEndian.Uint64(meta[8:]))

	for i, owner := range owners {
		low, ok := state.GetStorageValue(wallet, ownerLowKey(uint64(i)))
		require.True(t, ok)
		high, ok := state.GetStorageValue(wallet, ownerHighKey(uint64(i)))
		require.True(t, ok)
		require.Equal(t, owner.Bytes(), append(low, high...))
	}
}

func TestCreateWalletDeterministicAddress(t *testing.T) {
	_, _, a1 := newKey(1)
	_, _, a2 := newKey(2)
	_, _, a3 := newKey(3)
	input := createInput(2, a1, a2, a3)

	first := MultiSigPrecompile.Run(contract.NewStateCache(), a1, input, 100_000)
	second := MultiSigPrecompile.Run(contract.NewStateCache(), a1, input, 100_000)
	require.Equal(t, contract.Success, first.Code)
	require.Equal(t, first.Output, second.Output)
}

func TestCreateWalletSecondCreateFails(t *testing.T) {
	state := contract.NewStateCache()
	_, _, a1 := newKey(1)
	_, _, a2 := newKey(2)
	_, _, a3 := newKey(3)
	input := createInput(2, a1, a2, a3)

	r := MultiSigPrecompile.Run(state, a1, input, 100_000)
	require.Equal(t, contract.Success, r.Code)

	r = MultiSigPrecompile.Run(state, a1, input, 100_000)
	require.Equal(t, contract.Failure, r.Code)
}

func TestCreateWalletEnergyBounds(t *testing.T) {
	state := contract.NewStateCache()
	_, _, a1 := newKey(1)
	_, _, a2 := newKey(2)
	input := createInput(2, a1, a2)

	r := MultiSigPrecompile.Run(state, a1, input, contract.CostTx-1)
	require.Equal(t, contract.OutOfNrg, r.Code)
	require.Zero(t, r.NrgLeft)

	r = MultiSigPrecompile.Run(state, a1, input, contract.TxNrgMax+1)
	require.Equal(t, contract.InvalidNrgLimit, r.Code)
	require.Equal(t, contract.TxNrgMax+1, r.NrgLeft)
}

func TestCreateWalletRejects(t *testing.T) {
	_, _, a1 := newKey(1)
	_, _, a2 := newKey(2)
	_, _, a3 := newKey(3)
	_, _, stranger := newKey(9)

	trs := a2
	trs[0] = contract.PrefixTRS

	eleven := make([]contract.Address, 11)
	for i := range eleven {
		_, _, eleven[i] = newKey(byte(0x20 + i))
	}
	eleven[0] = a1

	tests := []struct {
		name   string
		caller contract.Address
		input  []byte
	}{
		{"nil input", a1, nil},
		{"empty input", a1, []byte{}},
		{"operation only", a1, []byte{OpCreateWallet}},
		{"unknown tag", a1, append([]byte{0x07}, createInput(2, a1, a2)[1:]...)},
		{"threshold below minimum", a1, createInput(1, a1, a2)},
		{"threshold above owner count", a1, createInput(3, a1, a2)},
		{"single owner", a1, createInput(2, a1)},
		{"too many owners", a1, createInput(2, eleven...)},
		{"duplicate owners", a1, createInput(2, a1, a2, a2)},
		{"owner with contract prefix", a1, createInput(2, a1, trs)},
		{"caller not an owner", stranger, createInput(2, a1, a2, a3)},
		{"truncated owner", a1, createInput(2, a1, a2)[:40]},
		{"trailing byte", a1, append(createInput(2, a1, a2), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MultiSigPrecompile.Run(contract.NewStateCache(), tt.caller, tt.input, 100_000)
			require.Equal(t, contract.Failure, r.Code)
		})
	}
}

func TestCreateWalletOwnerIsWallet(t *testing.T) {
	state, wallet, _, owners := setupWallet(t)
	_, _, other := newKey(8)

	r := MultiSigPrecompile.Run(state, owners[0], createInput(2, owners[0], wallet, other), 100_000)
	require.Equal(t, contract.Failure, r.Code)
}

// S2: exact-threshold send.
func TestSendTransaction(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(100_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(10_000_000_000)
	amount := big.NewInt(10)

	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}

	r := MultiSigPrecompile.Run(state, owners[0], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)

	require.Equal(t, contract.Success, r.Code)
	require.Equal(t, uint64(100_000-21_000), r.NrgLeft)
	require.Equal(t, uint256.NewInt(99_990), state.GetBalance(wallet))
	require.Equal(t, uint256.NewInt(10), state.GetBalance(dest))
	require.Equal(t, uint64(1), state.GetNonce(wallet))
}

func TestSendTransactionAllOwnersSign(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(500), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(80_000), uint64(1)
	amount := big.NewInt(100)

	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg), composite(privs[2], msg)}

	r := MultiSigPrecompile.Run(state, owners[2], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)
	require.Equal(t, contract.Success, r.Code)
	require.Equal(t, uint256.NewInt(400), state.GetBalance(wallet))
}

// S3: a signer signed over the wrong nonce.
func TestSendTransactionWrongNonce(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(100_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(10_000_000_000)
	amount := big.NewInt(10)

	good := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	bad := signedMessage(big.NewInt(-1), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], good), composite(privs[1], bad)}

	r := MultiSigPrecompile.Run(state, owners[0], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)

	require.Equal(t, contract.Failure, r.Code)
	require.Equal(t, uint256.NewInt(100_000), state.GetBalance(wallet))
	require.True(t, state.GetBalance(dest).IsZero())
	require.Zero(t, state.GetNonce(wallet))
}

// S4: sufficient valid signatures, but the caller is not an owner.
func TestSendTransactionCallerNotOwner(t *testing.T) {
	state, wallet, privs, _ := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(100_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)
	_, _, stranger := newKey(9)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(10_000_000_000)
	amount := big.NewInt(10)

	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}

	r := MultiSigPrecompile.Run(state, stranger, sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)

	require.Equal(t, contract.Failure, r.Code)
	require.Equal(t, uint256.NewInt(100_000), state.GetBalance(wallet))
	require.Zero(t, state.GetNonce(wallet))
}

func TestSendTransactionInsufficientBalance(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(5), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(1)
	amount := big.NewInt(10)

	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}

	r := MultiSigPrecompile.Run(state, owners[0], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)

	require.Equal(t, contract.InsufficientBalance, r.Code)
	require.Zero(t, r.NrgLeft)
	require.Equal(t, uint256.NewInt(5), state.GetBalance(wallet))
}

func TestSendTransactionRejects(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(100_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)
	_, phonyPriv, _ := newKey(9)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(10_000_000_000)
	amount := big.NewInt(10)
	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)

	sign := func(privs ...ed25519.PrivateKey) [][]byte {
		out := make([][]byte, len(privs))
		for i, priv := range privs {
			out[i] = composite(priv, msg)
		}
		return out
	}

	notAWallet := dest

	tests := []struct {
		name  string
		input []byte
	}{
		{"one signature below threshold", sendInput(wallet, sign(privs[0]), amount, nrgPrice, dest)},
		{"duplicate signer", sendInput(wallet, sign(privs[0], privs[0]), amount, nrgPrice, dest)},
		{"phony signer among valid ones", sendInput(wallet, sign(privs[0], phonyPriv), amount, nrgPrice, dest)},
		{"destination is not a wallet", sendInput(notAWallet, sign(privs[0], privs[1]), amount, nrgPrice, dest)},
		{"no signatures at all", sendInput(wallet, nil, amount, nrgPrice, dest)},
	}

	full := sendInput(wallet, sign(privs[0], privs[1]), amount, nrgPrice, dest)
	truncations := []struct {
		name string
		cut  int
	}{
		{"truncated destination", 1},
		{"truncated nrg price", 33},
		{"truncated amount", 70},
		{"truncated signature", 180},
	}
	for _, tr := range truncations {
		tests = append(tests, struct {
			name  string
			input []byte
		}{tr.name, full[:len(full)-tr.cut]})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MultiSigPrecompile.Run(state, owners[0], tt.input, nrgLimit)
			require.Equal(t, contract.Failure, r.Code)
			require.Equal(t, uint256.NewInt(100_000), state.GetBalance(wallet))
			require.Zero(t, state.GetNonce(wallet))
		})
	}
}

func TestSendTransactionNegativeAmount(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(100_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(100_000), uint64(1)
	amount := big.NewInt(10)
	msg := signedMessage(big.NewInt(0), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}

	input := sendInput(wallet, sigs, amount, nrgPrice, dest)
	// Force the high bit of the 128-byte amount field: decodes negative.
	input[1+32+2*96] = 0x80

	r := MultiSigPrecompile.Run(state, owners[0], input, nrgLimit)
	require.Equal(t, contract.Failure, r.Code)
}

func TestSendTransactionNonceAdvances(t *testing.T) {
	state, wallet, privs, owners := setupWallet(t)
	state.AddBalance(wallet, uint256.NewInt(1_000), tracing.BalanceChangeTransfer)
	_, _, dest := newKey(7)

	const nrgLimit, nrgPrice = uint64(50_000), uint64(1)
	amount := big.NewInt(1)

	for nonce := int64(0); nonce < 3; nonce++ {
		msg := signedMessage(big.NewInt(nonce), amount, dest, nrgLimit, nrgPrice)
		sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}
		r := MultiSigPrecompile.Run(state, owners[0], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)
		require.Equal(t, contract.Success, r.Code, "nonce %d", nonce)
	}

	// Replaying the last message no longer verifies.
	msg := signedMessage(big.NewInt(2), amount, dest, nrgLimit, nrgPrice)
	sigs := [][]byte{composite(privs[0], msg), composite(privs[1], msg)}
	r := MultiSigPrecompile.Run(state, owners[0], sendInput(wallet, sigs, amount, nrgPrice, dest), nrgLimit)
	require.Equal(t, contract.Failure, r.Code)

	require.Equal(t, uint64(3), state.GetNonce(wallet))
	require.Equal(t, uint256.NewInt(3), state.GetBalance(dest))
	require.Equal(t, uint256.NewInt(997), state.GetBalance(wallet))
}
