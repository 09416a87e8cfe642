// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"github.com/aionnetwork/precompile/modules"
)

// Registration keys of the token-release precompile family.
const (
	StateConfigKey = "trsState"
	UseConfigKey   = "trsUse"
	QueryConfigKey = "trsQuery"
)

func init() {
	for _, m := range []modules.Module{
		{ConfigKey: StateConfigKey, Address: StateContractAddress, Contract: StatePrecompile},
		{ConfigKey: UseConfigKey, Address: UseContractAddress, Contract: UsePrecompile},
		{ConfigKey: QueryConfigKey, Address: QueryContractAddress, Contract: QueryPrecompile},
	} {
		modules.MustRegisterModule(m)
	}
}
