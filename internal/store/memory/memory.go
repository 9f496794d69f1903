package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/chainsink/geyser-sink/internal/store"
)

// Memory is a store without persistence. It applies the same conflict rules as the postgres store
// and is used for dry runs.
type Memory struct {
	mu           sync.RWMutex
	accounts     map[string]store.Account
	slotStatuses map[int64]store.SlotStatus
	blocks       []store.Block
}

func New() *Memory {
	return &Memory{
		accounts:     map[string]store.Account{},
		slotStatuses: map[int64]store.SlotStatus{},
	}
}

func (m *Memory) UpsertAccount(_ context.Context, account *store.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := string(account.Pubkey)
	stored, found := m.accounts[key]
	if found && !account.IsNewerThan(&stored) {
		return nil
	}

	m.accounts[key] = cloneAccount(account)

	return nil
}

func (m *Memory) UpsertSlotStatus(_ context.Context, slotStatus *store.SlotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *slotStatus
	if slotStatus.Parent != nil {
		parent := *slotStatus.Parent
		s.Parent = &parent
	}
	m.slotStatuses[slotStatus.Slot] = s

	return nil
}

func (m *Memory) InsertBlock(_ context.Context, block *store.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := *block
	b.Rewards = slices.Clone(block.Rewards)
	m.blocks = append(m.blocks, b)

	return nil
}

func (m *Memory) GetAccount(pubkey []byte) (*store.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, found := m.accounts[string(pubkey)]
	if !found {
		return nil, false
	}

	return &account, true
}

func (m *Memory) GetSlotStatus(slot int64) (*store.SlotStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slotStatus, found := m.slotStatuses[slot]
	if !found {
		return nil, false
	}

	return &slotStatus, true
}

func (m *Memory) GetBlocks() []store.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.blocks)
}

func (m *Memory) IsConnected() bool                 { return true }
func (m *Memory) Reconnect(_ context.Context) error { return nil }
func (m *Memory) Ping(_ context.Context) error      { return nil }
func (m *Memory) Close() error                      { return nil }

func cloneAccount(account *store.Account) store.Account {
	a := *account
	a.Pubkey = slices.Clone(account.Pubkey)
	a.Owner = slices.Clone(account.Owner)
	a.Data = slices.Clone(account.Data)
	a.TxnSignature = slices.Clone(account.TxnSignature)

	return a
}
