// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hash

import (
	"github.com/aionnetwork/precompile/modules"
)

// ConfigKey is the name the hash precompile is registered under.
const ConfigKey = "chainHash"

func init() {
	modules.MustRegisterModule(modules.Module{
		ConfigKey: ConfigKey,
		Address:   ContractAddress,
		Contract:  HashPrecompile,
	})
}
