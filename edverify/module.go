// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package edverify

import (
	"github.com/aionnetwork/precompile/modules"
)

// ConfigKey is the name the ed25519 verify precompile is registered under.
const ConfigKey = "edVerify"

func init() {
	modules.MustRegisterModule(modules.Module{
		ConfigKey: ConfigKey,
		Address:   ContractAddress,
		Contract:  EDVerifyPrecompile,
	})
}
