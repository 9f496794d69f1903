package memory

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainsink/geyser-sink/internal/store"
)

func TestUpsertAccount(t *testing.T) {
	tt := []struct {
		name    string
		updates []store.Account

		expectedLamports     int64
		expectedWriteVersion int64
	}{
		{
			name: "out of order within slot",
			updates: []store.Account{
				{Slot: 5, WriteVersion: 2, Lamports: 100},
				{Slot: 5, WriteVersion: 1, Lamports: 200},
			},
			expectedLamports:     100,
			expectedWriteVersion: 2,
		},
		{
			name: "newer slot wins over higher write version",
			updates: []store.Account{
				{Slot: 5, WriteVersion: 9, Lamports: 100},
				{Slot: 6, WriteVersion: 1, Lamports: 300},
			},
			expectedLamports:     300,
			expectedWriteVersion: 1,
		},
		{
			name: "replay of same version is a no-op",
			updates: []store.Account{
				{Slot: 5, WriteVersion: 2, Lamports: 100},
				{Slot: 5, WriteVersion: 2, Lamports: 500},
			},
			expectedLamports:     100,
			expectedWriteVersion: 2,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			sut := New()

			// when
			for _, update := range tc.updates {
				update.Pubkey = []byte("P1")
				require.NoError(t, sut.UpsertAccount(context.Background(), &update))
			}

			// then
			actual, found := sut.GetAccount([]byte("P1"))
			require.True(t, found)
			require.Equal(t, tc.expectedLamports, actual.Lamports)
			require.Equal(t, tc.expectedWriteVersion, actual.WriteVersion)
		})
	}
}

func TestUpsertAccountArbitraryOrder(t *testing.T) {
	// given
	var updates []*store.Account
	for slot := int64(1); slot <= 4; slot++ {
		for wv := int64(1); wv <= 4; wv++ {
			updates = append(updates, &store.Account{Pubkey: []byte("P1"), Slot: slot, WriteVersion: wv, Lamports: slot*10 + wv})
		}
	}

	r := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		sut := New()
		r.Shuffle(len(updates), func(a, b int) { updates[a], updates[b] = updates[b], updates[a] })

		// when
		for _, update := range updates {
			require.NoError(t, sut.UpsertAccount(context.Background(), update))
		}

		// then
		actual, found := sut.GetAccount([]byte("P1"))
		require.True(t, found)
		require.Equal(t, int64(44), actual.Lamports)
	}
}

func TestUpsertSlotStatus(t *testing.T) {
	// given
	sut := New()
	parent := int64(9)

	// when
	require.NoError(t, sut.UpsertSlotStatus(context.Background(), &store.SlotStatus{Slot: 10, Parent: &parent, Status: store.SlotStatusProcessed}))
	require.NoError(t, sut.UpsertSlotStatus(context.Background(), &store.SlotStatus{Slot: 10, Status: store.SlotStatusRooted}))

	// then
	actual, found := sut.GetSlotStatus(10)
	require.True(t, found)
	require.Nil(t, actual.Parent)
	require.Equal(t, store.SlotStatusRooted, actual.Status)

	_, found = sut.GetSlotStatus(11)
	require.False(t, found)
}

func TestInsertBlock(t *testing.T) {
	// given
	sut := New()
	block := &store.Block{Slot: 3, Blockhash: "hash", Rewards: []store.Reward{{Pubkey: "a", Lamports: 1}}}

	// when
	require.NoError(t, sut.InsertBlock(context.Background(), block))
	require.NoError(t, sut.InsertBlock(context.Background(), block))
	block.Rewards[0].Lamports = 99

	// then
	blocks := sut.GetBlocks()
	require.Len(t, blocks, 2)
	require.Equal(t, int64(1), blocks[0].Rewards[0].Lamports)
	require.True(t, sut.IsConnected())
	require.NoError(t, sut.Ping(context.Background()))
	require.NoError(t, sut.Reconnect(context.Background()))
	require.NoError(t, sut.Close())
}
