// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modules tracks the registered precompiled contracts and the
// address window reserved for them.
package modules

import (
	"fmt"
	"sort"

	"github.com/aionnetwork/precompile/contract"
)

// Precompiled contracts live in a single system window: the 32-byte
// addresses whose first 30 bytes are zero, selector 0x0001 through 0xffff.
// Ordinary accounts (prefix 0xA0) and token-release contracts (prefix 0xC0)
// can never fall inside it.
//
//	0x0010-0x00ff  stateless crypto (ed25519 verify, chain hash)
//	0x0200-0x020f  multi-signature wallets
//	0x0210-0x021f  token release schedule family

// ReservedAddress reports whether addr lies in the system window.
func ReservedAddress(addr contract.Address) bool {
	for _, b := range addr[:contract.AddressSize-2] {
		if b != 0 {
			return false
		}
	}
	return selector(addr) != 0
}

// selector extracts the low two bytes that identify a system contract.
func selector(addr contract.Address) uint16 {
	return uint16(addr[contract.AddressSize-2])<<8 | uint16(addr[contract.AddressSize-1])
}

var (
	modulesByKey  = make(map[string]Module)
	modulesByAddr = make(map[contract.Address]Module)
)

// RegisterModule adds a precompiled contract module to the dispatch tables.
// The address must be inside the system window, and both the address and the
// config key must be unclaimed.
func RegisterModule(stm Module) error {
	if !ReservedAddress(stm.Address) {
		return fmt.Errorf("address %s is outside the system window", stm.Address)
	}
	if _, taken := modulesByKey[stm.ConfigKey]; taken {
		return fmt.Errorf("name %s already used by a precompiled contract", stm.ConfigKey)
	}
	if _, taken := modulesByAddr[stm.Address]; taken {
		return fmt.Errorf("address %s already used by a precompiled contract", stm.Address)
	}

	modulesByKey[stm.ConfigKey] = stm
	modulesByAddr[stm.Address] = stm
	return nil
}

// MustRegisterModule is RegisterModule for init-time registration of the
// built-in contracts, where a conflict is a programming error.
func MustRegisterModule(stm Module) {
	if err := RegisterModule(stm); err != nil {
		panic(err)
	}
}

// GetPrecompileModuleByAddress looks a module up by dispatch address.
func GetPrecompileModuleByAddress(address contract.Address) (Module, bool) {
	stm, ok := modulesByAddr[address]
	return stm, ok
}

// GetPrecompileModule looks a module up by config key.
func GetPrecompileModule(key string) (Module, bool) {
	stm, ok := modulesByKey[key]
	return stm, ok
}

// RegisteredModules returns the registered modules ordered by selector, so
// iteration is deterministic.
func RegisteredModules() []Module {
	mods := make([]Module, 0, len(modulesByAddr))
	for _, stm := range modulesByAddr {
		mods = append(mods, stm)
	}
	sort.Slice(mods, func(i, j int) bool {
		return selector(mods[i].Address) < selector(mods[j].Address)
	})
	return mods
}
