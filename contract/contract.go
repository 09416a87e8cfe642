// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the collaborator interfaces and shared plumbing
// for the Aion precompiled contracts: the word-addressed WordStore, the
// CryptoProvider, energy accounting, scalar codecs, and the Result type every
// precompiled entry point returns.
package contract

import (
	"errors"
	"fmt"
)

// ResultCode is the outcome kind of a precompiled invocation. Every
// recoverable error becomes a ResultCode; nothing is returned as a Go error
// past the precompiled boundary.
type ResultCode uint8

const (
	Success ResultCode = iota
	Failure
	OutOfNrg
	InvalidNrgLimit
	InsufficientBalance
)

func (c ResultCode) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case OutOfNrg:
		return "OUT_OF_NRG"
	case InvalidNrgLimit:
		return "INVALID_NRG_LIMIT"
	case InsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	default:
		return fmt.Sprintf("ResultCode(%d)", uint8(c))
	}
}

// Result is the outcome of a precompiled invocation.
type Result struct {
	Code    ResultCode
	NrgLeft uint64
	Output  []byte
}

// Succeed returns a SUCCESS result carrying the remaining energy and output.
func Succeed(nrgLeft uint64, output []byte) *Result {
	return &Result{Code: Success, NrgLeft: nrgLeft, Output: output}
}

// Fail returns a FAILURE result. Failed invocations consume all energy.
func Fail() *Result {
	return &Result{Code: Failure}
}

// FailInsufficientBalance returns an INSUFFICIENT_BALANCE result. Like
// FAILURE it consumes all energy.
func FailInsufficientBalance() *Result {
	return &Result{Code: InsufficientBalance}
}

// PrecompiledContract is a state transition handler at a fixed address.
// Run is invoked by the VM exactly once per transaction on the VM's
// execution thread; implementations hold no mutable state of their own and
// must leave the store unmutated on any non-Success result.
type PrecompiledContract interface {
	Address() Address
	Run(state WordStore, caller Address, input []byte, nrgLimit uint64) *Result
}

// ErrFatal is the root of engine-level invariant breaches: corrupted word
// widths, negative accumulators, missing records that earlier checks
// guarantee present. These are assertions, not user-visible outcomes, and
// abort execution instead of producing a FAILURE result.
var ErrFatal = errors.New("precompiled invariant violated")

// Fatal aborts execution with an ErrFatal-wrapped error.
func Fatal(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrFatal, fmt.Sprintf(format, args...)))
}
