// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msc

import (
	"github.com/aionnetwork/precompile/contract"
	"github.com/aionnetwork/precompile/modules"
)

// ConfigKey is the name the multi-signature precompile is registered under.
const ConfigKey = "multiSigWallet"

func init() {
	modules.MustRegisterModule(modules.Module{
		ConfigKey: ConfigKey,
		Address:   ContractAddress,
		Contract:  MultiSigPrecompile,
	})
}
