// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aionnetwork/precompile/contract"
	"github.com/aionnetwork/precompile/edverify"
	"github.com/aionnetwork/precompile/hash"
	"github.com/aionnetwork/precompile/modules"
	"github.com/aionnetwork/precompile/msc"
	"github.com/aionnetwork/precompile/trs"
)

func TestMetadataMatchesModules(t *testing.T) {
	// The metadata table and the per-package dispatch addresses must
	// agree.
	require.Equal(t, edverify.ContractAddress, contract.HexToAddress(EDVerifyAddress))
	require.Equal(t, hash.ContractAddress, contract.HexToAddress(HashAddress))
	require.Equal(t, msc.ContractAddress, contract.HexToAddress(MultiSigAddress))
	require.Equal(t, trs.StateContractAddress, contract.HexToAddress(TRSStateAddress))
	require.Equal(t, trs.UseContractAddress, contract.HexToAddress(TRSUseAddress))
	require.Equal(t, trs.QueryContractAddress, contract.HexToAddress(TRSQueryAddress))

	for _, info := range AllPrecompiles {
		addr := contract.HexToAddress(info.Address)
		require.True(t, IsPrecompiled(addr), "%s is not registered", info.Name)
		require.True(t, modules.ReservedAddress(addr), "%s is outside the reserved window", info.Name)
		require.Equal(t, addr, GetPrecompileAddress(info.Name))
	}

	require.Equal(t, contract.Address{}, GetPrecompileAddress("UNKNOWN"))
}

func TestAllModulesRegistered(t *testing.T) {
	require.Len(t, modules.RegisteredModules(), len(AllPrecompiles))
}

func TestExecuteDispatches(t *testing.T) {
	r := New()
	state := contract.NewStateCache()
	caller := contract.BytesToAddress([]byte{0xA0, 1})

	input := append([]byte{hash.OpHash256}, []byte("dispatch")...)
	result := r.Execute(state, hash.ContractAddress, caller, input, 10_000)

	require.Equal(t, contract.Success, result.Code)
	expected := contract.DefaultCrypto.Hash32([]byte("dispatch"))
	require.Equal(t, expected[:], result.Output)
}

func TestExecuteUnknownDestination(t *testing.T) {
	r := New()
	dest := contract.HexToAddress("0x7777")

	result := r.Execute(contract.NewStateCache(), dest, contract.Address{}, nil, 10_000)
	require.Equal(t, contract.Failure, result.Code)
}

func TestExecuteStatefulRoundTrip(t *testing.T) {
	r := New()
	state := contract.NewStateCache()

	// Create a token-release contract through the dispatcher.
	owner := contract.BytesToAddress([]byte{0xA0, 9})
	input := make([]byte, 15)
	input[0] = 0x00 // create
	input[2] = 1    // direct deposits
	binary.BigEndian.PutUint16(input[3:5], 4)
	input[14] = 25 // percent

	result := r.Execute(state, trs.StateContractAddress, owner, input, 100_000)
	require.Equal(t, contract.Success, result.Code)
	require.Len(t, result.Output, contract.AddressSize)
	require.Equal(t, contract.PrefixTRS, result.Output[0])
}
