// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry is the canonical index of the precompiled contracts and
// the VM-facing dispatcher over them. Importing it registers every built-in
// precompile module.
package registry

import (
	log "github.com/luxfi/log"

	"github.com/aionnetwork/precompile/contract"
	"github.com/aionnetwork/precompile/edverify"
	"github.com/aionnetwork/precompile/hash"
	"github.com/aionnetwork/precompile/modules"

	// Registered for dispatch by import.
	_ "github.com/aionnetwork/precompile/msc"
	_ "github.com/aionnetwork/precompile/trs"
)

// ============================================================================
// PRECOMPILED CONTRACT ADDRESS SCHEME
// ============================================================================
//
// Precompiled contracts live in the system window: 32-byte addresses whose
// first 30 bytes are zero. The low two bytes select the contract:
//
//   0x00II  stateless crypto    (II = item)
//   0x02II  stateful contracts  (II = item)
//
// Ordinary accounts carry the 0xA0 prefix and token-release contracts the
// 0xC0 prefix, so the window can never collide with user state.
const (
	// Stateless crypto (0x0010-0x00ff)
	EDVerifyAddress = "0x0000000000000000000000000000000000000000000000000000000000000010" // ed25519 verify
	HashAddress     = "0x0000000000000000000000000000000000000000000000000000000000000011" // chain hash

	// Stateful contracts (0x0200-0x02ff)
	MultiSigAddress = "0x0000000000000000000000000000000000000000000000000000000000000200" // M-of-N wallet
	TRSStateAddress = "0x0000000000000000000000000000000000000000000000000000000000000210" // TRS create/lock/start
	TRSUseAddress   = "0x0000000000000000000000000000000000000000000000000000000000000211" // TRS deposit/refund
	TRSQueryAddress = "0x0000000000000000000000000000000000000000000000000000000000000212" // TRS views
)

// PrecompileInfo contains metadata about a precompiled contract
type PrecompileInfo struct {
	Address     string
	Name        string
	Description string
	NrgBase     uint64
}

// AllPrecompiles lists the built-in precompiled contracts with their metadata
var AllPrecompiles = []PrecompileInfo{
	{EDVerifyAddress, "ED_VERIFY", "ed25519 signature verification", edverify.Cost},
	{HashAddress, "CHAIN_HASH", "domain-separated chain hash", hash.GasBase},
	{MultiSigAddress, "MULTI_SIG", "M-of-N multi-signature wallet", contract.CostTx},
	{TRSStateAddress, "TRS_STATE", "token release schedule lifecycle", contract.CostTx},
	{TRSUseAddress, "TRS_USE", "token release schedule deposits", contract.CostTx},
	{TRSQueryAddress, "TRS_QUERY", "token release schedule views", contract.CostTx},
}

// precompilesByName indexes the metadata table once at package init.
var precompilesByName = func() map[string]PrecompileInfo {
	byName := make(map[string]PrecompileInfo, len(AllPrecompiles))
	for _, p := range AllPrecompiles {
		byName[p.Name] = p
	}
	return byName
}()

// GetPrecompileAddress returns the address for a precompiled contract by
// name, or the zero address for an unknown name.
func GetPrecompileAddress(name string) contract.Address {
	p, ok := precompilesByName[name]
	if !ok {
		return contract.Address{}
	}
	return contract.HexToAddress(p.Address)
}

// IsPrecompiled reports whether a destination address hosts a precompiled
// contract.
func IsPrecompiled(addr contract.Address) bool {
	_, ok := modules.GetPrecompileModuleByAddress(addr)
	return ok
}

// Registry dispatches precompiled invocations by destination address. It is
// the single entry point the VM executor calls.
type Registry struct {
	log log.Logger
}

// New returns a dispatcher over the registered modules.
func New() *Registry {
	return &Registry{log: log.NewTestLogger(log.InfoLevel)}
}

// Execute runs the precompiled contract at dest. An unknown destination is a
// failed invocation, not an engine error.
func (r *Registry) Execute(state contract.WordStore, dest, caller contract.Address, input []byte, nrgLimit uint64) *contract.Result {
	mod, ok := modules.GetPrecompileModuleByAddress(dest)
	if !ok {
		r.log.Warn("no precompiled contract at destination", "dest", dest.Hex())
		return contract.Fail()
	}

	r.log.Debug("executing precompiled contract",
		"name", mod.ConfigKey, "caller", caller.Hex(), "nrgLimit", nrgLimit, "inputLen", len(input))
	result := mod.Contract.Run(state, caller, input, nrgLimit)
	r.log.Debug("precompiled contract finished",
		"name", mod.ConfigKey, "code", result.Code.String(), "nrgLeft", result.NrgLeft)
	return result
}
