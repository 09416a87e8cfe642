// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aionnetwork/precompile/contract"
)

type stubContract struct {
	addr contract.Address
}

func (s *stubContract) Address() contract.Address { return s.addr }

func (s *stubContract) Run(_ contract.WordStore, _ contract.Address, _ []byte, nrgLimit uint64) *contract.Result {
	return contract.Succeed(nrgLimit, nil)
}

func stubModule(key string, low byte) Module {
	addr := contract.BytesToAddress([]byte{0x40, low})
	return Module{ConfigKey: key, Address: addr, Contract: &stubContract{addr: addr}}
}

// isolateRegistry gives the test a fresh registration table and restores the
// built-ins afterwards.
func isolateRegistry(t *testing.T) {
	t.Helper()
	savedByKey, savedByAddr := modulesByKey, modulesByAddr
	modulesByKey = make(map[string]Module)
	modulesByAddr = make(map[contract.Address]Module)
	t.Cleanup(func() {
		modulesByKey, modulesByAddr = savedByKey, savedByAddr
	})
}

func TestReservedAddress(t *testing.T) {
	tests := []struct {
		name     string
		addr     contract.Address
		reserved bool
	}{
		{"zero address", contract.ZeroAddress, false},
		{"first system address", contract.HexToAddress("0x01"), true},
		{"ed25519 verify", contract.HexToAddress("0x10"), true},
		{"multi-sig", contract.HexToAddress("0x0200"), true},
		{"window end", contract.HexToAddress("0xffff"), true},
		{"past the window", contract.HexToAddress("0x010000"), false},
		{"ordinary account", contract.BytesToAddress([]byte{0xA0, 1}), false},
		{"token release contract", contract.BytesToAddress([]byte{0xC0, 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.reserved, ReservedAddress(tt.addr))
		})
	}
}

func TestRegisterModuleConflicts(t *testing.T) {
	isolateRegistry(t)

	require.NoError(t, RegisterModule(stubModule("first", 0x01)))

	require.Error(t, RegisterModule(stubModule("first", 0x02)), "duplicate name")
	require.Error(t, RegisterModule(stubModule("second", 0x01)), "duplicate address")

	require.Error(t, RegisterModule(Module{ConfigKey: "zero"}), "zero address")

	outside := Module{ConfigKey: "outside", Address: contract.BytesToAddress([]byte{0xA0, 1})}
	require.Error(t, RegisterModule(outside), "address outside the system window")
}

func TestRegisteredModulesSortedBySelector(t *testing.T) {
	isolateRegistry(t)

	require.NoError(t, RegisterModule(stubModule("c", 0x30)))
	require.NoError(t, RegisterModule(stubModule("a", 0x10)))
	require.NoError(t, RegisterModule(stubModule("b", 0x20)))

	mods := RegisteredModules()
	require.Len(t, mods, 3)
	require.Equal(t, "a", mods[0].ConfigKey)
	require.Equal(t, "b", mods[1].ConfigKey)
	require.Equal(t, "c", mods[2].ConfigKey)
}

func TestLookup(t *testing.T) {
	isolateRegistry(t)

	mod := stubModule("lookup", 0x42)
	require.NoError(t, RegisterModule(mod))

	got, ok := GetPrecompileModule("lookup")
	require.True(t, ok)
	require.Equal(t, mod.Address, got.Address)

	got, ok = GetPrecompileModuleByAddress(mod.Address)
	require.True(t, ok)
	require.Equal(t, "lookup", got.ConfigKey)

	_, ok = GetPrecompileModule("missing")
	require.False(t, ok)
	_, ok = GetPrecompileModuleByAddress(contract.HexToAddress("0x7777"))
	require.False(t, ok)
}
