// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trs

import (
	"github.com/aionnetwork/precompile/contract"
)

// The depositor list is a doubly linked list threaded through the account
// metadata records. Pointers store a 31-byte address body behind a flag
// byte whose high bit marks null; bodies reconstruct to ordinary-account
// addresses. Accounts enter at the head on their first deposit and leave by
// logical deletion only.

// getListHead returns the current head account, nil when the list is empty
// or the head record was never written.
func getListHead(state contract.WordStore, c contract.Address) *contract.Address {
	v, ok := state.GetStorageValue(c, listHeadKey())
	if !ok || v[0]&nullBit != 0 {
		return nil
	}
	head := contract.AccountFromBody(v[1:])
	return &head
}

// setListHead writes the head pointer; nil stores the null sentinel.
func setListHead(state contract.WordStore, c contract.Address, head *contract.Address) {
	state.SetStorageValue(c, listHeadKey(), encodePointer(head))
}

// getListPrev returns the predecessor of a listed account, nil at the head.
// A listed account always has a previous-pointer record; its absence is
// storage corruption.
func getListPrev(state contract.WordStore, c, account contract.Address) *contract.Address {
	v, ok := state.GetStorageValue(c, prevKey(account))
	if !ok {
		contract.Fatal("account %s has no previous-pointer record", account.Hex())
	}
	if v[0]&nullBit != 0 {
		return nil
	}
	prev := contract.AccountFromBody(v[1:])
	return &prev
}

// setListPrev writes the predecessor pointer; nil stores the null sentinel.
func setListPrev(state contract.WordStore, c, account contract.Address, prev *contract.Address) {
	state.SetStorageValue(c, prevKey(account), encodePointer(prev))
}

// getListNext returns the successor of an account along with its raw
// metadata byte. ok is false when the account has no metadata record.
func getListNext(state contract.WordStore, c, account contract.Address) (next *contract.Address, meta byte, ok bool) {
	m := readAccountMeta(state, c, account)
	if m.kind == metaAbsent {
		return nil, 0, false
	}
	return m.next, m.raw[0], true
}

// setListNext writes the successor pointer and metadata byte of an account.
// oldMeta supplies the row-count nibble to preserve. When isValid is false
// the record becomes the all-zero INVALID sentinel: the entry is logically
// deleted and no longer scanned.
func setListNext(state contract.WordStore, c, account contract.Address, oldMeta byte, next *contract.Address, isValid bool) {
	var v [contract.DoubleWordSize]byte
	if isValid {
		if next == nil {
			v[0] = nullBit | validBit | (oldMeta & rowCountMask)
		} else {
			v[0] = validBit | (oldMeta & rowCountMask)
			copy(v[1:], next[1:])
		}
	}
	state.SetStorageValue(c, nextKey(account), v[:])
}

// listAddToHead inserts an account at the head of the depositor list. For
// live entries the null bit of the metadata byte doubles as the "already in
// list" signal, so only a live entry with a null next pointer (the tail) is
// left in place; a live entry that has a successor is not detected and is
// inserted again.
func listAddToHead(state contract.WordStore, c, account contract.Address) {
	meta := readAccountMeta(state, c, account)
	if meta.kind == metaLive && meta.nullNext {
		return
	}

	head := getListHead(state, c)
	if head == nil {
		setListNext(state, c, account, meta.raw[0], nil, true)
	} else {
		setListNext(state, c, account, meta.raw[0], head, true)
		setListPrev(state, c, *head, &account)
	}
	setListHead(state, c, &account)
	setListPrev(state, c, account, nil)
}

// listRemove logically deletes a live account: its neighbours are re-linked
// around it and its metadata record becomes the INVALID sentinel. The
// previous-pointer record is left behind; it is unreachable once the entry
// is invalid.
func listRemove(state contract.WordStore, c, account contract.Address) {
	meta := readAccountMeta(state, c, account)
	if meta.kind != metaLive {
		contract.Fatal("removal of unlisted account %s", account.Hex())
	}

	prev := getListPrev(state, c, account)
	if prev == nil {
		setListHead(state, c, meta.next)
	} else {
		prevMeta := readAccountMeta(state, c, *prev)
		setListNext(state, c, *prev, prevMeta.raw[0], meta.next, true)
	}
	if meta.next != nil {
		setListPrev(state, c, *meta.next, prev)
	}
	setListNext(state, c, account, meta.raw[0], nil, false)
}

func encodePointer(target *contract.Address) []byte {
	var v [contract.DoubleWordSize]byte
	if target == nil {
		v[0] = nullBit
	} else {
		copy(v[1:], target[1:])
	}
	return v[:]
}
