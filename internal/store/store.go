package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrFailedToOpenDB    = errors.New("failed to open postgres database")
	ErrNotConnected      = errors.New("store is not connected")
	ErrFailedToPrepare   = errors.New("failed to prepare statement")
	ErrFailedToExecute   = errors.New("failed to execute statement")
	ErrFailedToReconnect = errors.New("failed to reconnect to store")
)

// SinkStore persists the canonical records. Writes are idempotent: replaying a record never
// regresses the stored state.
type SinkStore interface {
	UpsertAccount(ctx context.Context, account *Account) error
	UpsertSlotStatus(ctx context.Context, slotStatus *SlotStatus) error
	InsertBlock(ctx context.Context, block *Block) error

	// IsConnected reports the last known connection state without a round trip.
	IsConnected() bool
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type Account struct {
	Pubkey       []byte
	Owner        []byte
	Lamports     int64
	Executable   bool
	RentEpoch    int64
	Data         []byte
	Slot         int64
	WriteVersion int64
	TxnSignature []byte
}

// IsNewerThan reports whether a supersedes other by (slot, write_version).
func (a *Account) IsNewerThan(other *Account) bool {
	if other == nil {
		return true
	}

	return a.Slot > other.Slot || (a.Slot == other.Slot && a.WriteVersion > other.WriteVersion)
}

func (a *Account) String() string {
	return fmt.Sprintf("Account{pubkey: %x, owner: %x, slot: %d, write_version: %d, lamports: %d}", a.Pubkey, a.Owner, a.Slot, a.WriteVersion, a.Lamports)
}

type SlotStatusType string

const (
	SlotStatusProcessed SlotStatusType = "Processed"
	SlotStatusConfirmed SlotStatusType = "Confirmed"
	SlotStatusRooted    SlotStatusType = "Rooted"
)

func (s SlotStatusType) IsValid() bool {
	switch s {
	case SlotStatusProcessed, SlotStatusConfirmed, SlotStatusRooted:
		return true
	}

	return false
}

type SlotStatus struct {
	Slot   int64
	Parent *int64
	Status SlotStatusType
}

type RewardType string

const (
	RewardTypeFee     RewardType = "Fee"
	RewardTypeRent    RewardType = "Rent"
	RewardTypeStaking RewardType = "Staking"
	RewardTypeVoting  RewardType = "Voting"
)

func (r RewardType) IsValid() bool {
	switch r {
	case RewardTypeFee, RewardTypeRent, RewardTypeStaking, RewardTypeVoting:
		return true
	}

	return false
}

type Reward struct {
	Pubkey      string      `json:"pubkey"`
	Lamports    int64       `json:"lamports"`
	PostBalance int64       `json:"post_balance"`
	RewardType  *RewardType `json:"reward_type"`
	Commission  *int16      `json:"commission"`
}

type Block struct {
	Slot        int64
	Blockhash   string
	Rewards     []Reward
	BlockTime   *int64
	BlockHeight *int64
}
