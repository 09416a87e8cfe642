// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
)

// StateCache is a layered in-memory WordStore. Each precompiled invocation
// runs against a child cache: reads fall through to the parent, writes stay
// local until Flush commits them upward. Snapshots journal the local layer so
// a handler can roll back everything it wrote before returning a non-success
// result.
type StateCache struct {
	parent *StateCache

	storage  map[Address]map[StorageKey][]byte
	balances map[Address]*uint256.Int
	nonces   map[Address]uint64
	accounts map[Address]struct{}

	snapshots []cacheLayer
}

type cacheLayer struct {
	storage  map[Address]map[StorageKey][]byte
	balances map[Address]*uint256.Int
	nonces   map[Address]uint64
	accounts map[Address]struct{}
}

var _ WordStore = (*StateCache)(nil)

// NewStateCache returns an empty root cache.
func NewStateCache() *StateCache {
	s := &StateCache{}
	s.reset()
	return s
}

// Child returns a scoped write cursor over s.
func (s *StateCache) Child() *StateCache {
	c := &StateCache{parent: s}
	c.reset()
	return c
}

func (s *StateCache) reset() {
	s.storage = make(map[Address]map[StorageKey][]byte)
	s.balances = make(map[Address]*uint256.Int)
	s.nonces = make(map[Address]uint64)
	s.accounts = make(map[Address]struct{})
	s.snapshots = nil
}

func (s *StateCache) GetStorageValue(addr Address, key StorageKey) ([]byte, bool) {
	if rows, ok := s.storage[addr]; ok {
		if v, ok := rows[key]; ok {
			return common.CopyBytes(v), true
		}
	}
	if s.parent != nil {
		return s.parent.GetStorageValue(addr, key)
	}
	return nil, false
}

func (s *StateCache) SetStorageValue(addr Address, key StorageKey, value []byte) {
	if len(value) != SingleWordSize && len(value) != DoubleWordSize {
		Fatal("storage value of width %d", len(value))
	}
	rows, ok := s.storage[addr]
	if !ok {
		rows = make(map[StorageKey][]byte)
		s.storage[addr] = rows
	}
	rows[key] = common.CopyBytes(value)
}

func (s *StateCache) GetBalance(addr Address) *uint256.Int {
	if bal, ok := s.balances[addr]; ok {
		return bal.Clone()
	}
	if s.parent != nil {
		return s.parent.GetBalance(addr)
	}
	return uint256.NewInt(0)
}

func (s *StateCache) AddBalance(addr Address, amount *uint256.Int, _ tracing.BalanceChangeReason) {
	s.balances[addr] = new(uint256.Int).Add(s.GetBalance(addr), amount)
}

func (s *StateCache) SubBalance(addr Address, amount *uint256.Int, _ tracing.BalanceChangeReason) {
	bal := s.GetBalance(addr)
	if bal.Lt(amount) {
		Fatal("balance underflow on %s", addr.Hex())
	}
	s.balances[addr] = new(uint256.Int).Sub(bal, amount)
}

func (s *StateCache) GetNonce(addr Address) uint64 {
	if n, ok := s.nonces[addr]; ok {
		return n
	}
	if s.parent != nil {
		return s.parent.GetNonce(addr)
	}
	return 0
}

func (s *StateCache) IncrementNonce(addr Address) {
	s.nonces[addr] = s.GetNonce(addr) + 1
}

func (s *StateCache) CreateAccount(addr Address) {
	s.accounts[addr] = struct{}{}
}

func (s *StateCache) AccountExists(addr Address) bool {
	if _, ok := s.accounts[addr]; ok {
		return true
	}
	if s.parent != nil {
		return s.parent.AccountExists(addr)
	}
	return false
}

// Snapshot records the local layer and returns an identifier for
// RevertToSnapshot.
func (s *StateCache) Snapshot() int {
	id := len(s.snapshots)
	s.snapshots = append(s.snapshots, s.copyLayer())
	return id
}

// RevertToSnapshot discards every local write made after the snapshot was
// taken.
func (s *StateCache) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.snapshots) {
		Fatal("unknown snapshot %d", id)
	}
	layer := s.snapshots[id]
	s.storage = layer.storage
	s.balances = layer.balances
	s.nonces = layer.nonces
	s.accounts = layer.accounts
	s.snapshots = s.snapshots[:id]
}

// Flush commits the local layer into the parent and clears it. Flushing the
// root cache is a no-op.
func (s *StateCache) Flush() {
	if s.parent == nil {
		return
	}
	for addr, rows := range s.storage {
		for key, v := range rows {
			s.parent.SetStorageValue(addr, key, v)
		}
	}
	for addr, bal := range s.balances {
		s.parent.balances[addr] = bal.Clone()
	}
	for addr, n := range s.nonces {
		s.parent.nonces[addr] = n
	}
	for addr := range s.accounts {
		s.parent.CreateAccount(addr)
	}
	s.reset()
}

func (s *StateCache) copyLayer() cacheLayer {
	layer := cacheLayer{
		storage:  make(map[Address]map[StorageKey][]byte, len(s.storage)),
		balances: make(map[Address]*uint256.Int, len(s.balances)),
		nonces:   make(map[Address]uint64, len(s.nonces)),
		accounts: make(map[Address]struct{}, len(s.accounts)),
	}
	for addr, rows := range s.storage {
		dup := make(map[StorageKey][]byte, len(rows))
		for key, v := range rows {
			dup[key] = common.CopyBytes(v)
		}
		layer.storage[addr] = dup
	}
	for addr, bal := range s.balances {
		layer.balances[addr] = bal.Clone()
	}
	for addr, n := range s.nonces {
		layer.nonces[addr] = n
	}
	for addr := range s.accounts {
		layer.accounts[addr] = struct{}{}
	}
	return layer
}
