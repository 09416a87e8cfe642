// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"github.com/aionnetwork/precompile/contract"
)

// Module pairs a precompiled contract with its dispatch address and the key
// it is known by in chain configuration.
type Module struct {
	// ConfigKey is the unique name of the precompile.
	ConfigKey string

	// Address is the fixed 32-byte dispatch address.
	Address contract.Address

	// Contract is the stateless handler singleton.
	Contract contract.PrecompiledContract

	// Configure prepares state for the precompile at genesis; nil when the
	// precompile needs none.
	Configure func(state contract.WordStore, addr contract.Address) error
}
