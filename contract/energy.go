// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

// Energy constants. CostTx is the flat charge every stateful precompiled
// operation pre-charges; TxNrgMax is the VM's per-transaction energy cap.
const (
	CostTx   uint64 = 21_000
	TxNrgMax uint64 = 2_000_000
)

// CheckNrg applies the standard energy preconditions for an operation
// costing CostTx. It returns nil when the limit is acceptable.
func CheckNrg(nrgLimit uint64) *Result {
	return CheckNrgCost(nrgLimit, CostTx)
}

// CheckNrgCost applies the energy preconditions for an operation with the
// given flat cost:
//
//   - below cost the caller is out of energy and keeps nothing;
//   - above TxNrgMax the limit itself is invalid and the caller keeps all of
//     it.
func CheckNrgCost(nrgLimit, cost uint64) *Result {
	if nrgLimit < cost {
		return &Result{Code: OutOfNrg}
	}
	if nrgLimit > TxNrgMax {
		return &Result{Code: InvalidNrgLimit, NrgLeft: nrgLimit}
	}
	return nil
}
