package postgresql

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chainsink/geyser-sink/internal/store"
	testutils "github.com/chainsink/geyser-sink/internal/test_utils"
)

const (
	migrationsPath = "file://migrations"
)

var dbInfo string

type accountRow struct {
	Pubkey       []byte    `db:"pubkey"`
	Owner        []byte    `db:"owner"`
	Lamports     int64     `db:"lamports"`
	Slot         int64     `db:"slot"`
	Executable   bool      `db:"executable"`
	RentEpoch    int64     `db:"rent_epoch"`
	Data         []byte    `db:"data"`
	WriteVersion int64     `db:"write_version"`
	UpdatedOn    time.Time `db:"updated_on"`
	TxnSignature []byte    `db:"txn_signature"`
}

type slotRow struct {
	Slot      int64         `db:"slot"`
	Parent    sql.NullInt64 `db:"parent"`
	Status    string        `db:"status"`
	UpdatedOn time.Time     `db:"updated_on"`
}

type blockRow struct {
	Slot        int64         `db:"slot"`
	Blockhash   string        `db:"blockhash"`
	Rewards     string        `db:"rewards"`
	BlockTime   sql.NullInt64 `db:"block_time"`
	BlockHeight sql.NullInt64 `db:"block_height"`
}

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		os.Exit(0)
	}

	os.Exit(testmain(m))
}

func testmain(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("failed to create pool: %v", err)
		return 1
	}

	port := "5438"
	resource, connStr, err := testutils.RunAndMigratePostgresql(pool, port, "geyser_sink", migrationsPath)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer func() {
		err = pool.Purge(resource)
		if err != nil {
			log.Printf("failed to purge pool: %v", err)
		}
	}()

	dbInfo = connStr
	return m.Run()
}

func readAccount(t *testing.T, db *sqlx.DB, pubkey []byte) accountRow {
	t.Helper()

	var row accountRow
	err := db.Get(&row, "SELECT pubkey, owner, lamports, slot, executable, rent_epoch, data, write_version, updated_on, txn_signature FROM account WHERE pubkey = $1", pubkey)
	require.NoError(t, err)

	return row
}

func TestPostgresDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	now := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)
	ctx := context.Background()

	postgresDB, err := New(dbInfo, 10, 10, WithNow(func() time.Time { return now }))
	require.NoError(t, err)
	defer postgresDB.Close()

	require.True(t, postgresDB.IsConnected())
	require.NoError(t, postgresDB.Ping(ctx))

	db := sqlx.NewDb(testutils.OpenDB(t, dbInfo), "postgres")

	pubkey := []byte{1, 1, 1, 1, 1}
	owner := []byte{9, 9, 9, 9, 9}

	t.Run("upsert account - insert new", func(t *testing.T) {
		// given
		defer testutils.PruneTables(t, db.DB, "account")

		account := &store.Account{
			Pubkey:       []byte{3, 3, 3},
			Owner:        owner,
			Lamports:     42,
			RentEpoch:    1,
			Slot:         9,
			WriteVersion: 1,
			TxnSignature: []byte{7, 7},
		}

		// when
		err := postgresDB.UpsertAccount(ctx, account)

		// then
		require.NoError(t, err)

		row := readAccount(t, db, account.Pubkey)
		require.Equal(t, int64(42), row.Lamports)
		require.Equal(t, int64(9), row.Slot)
		require.Equal(t, []byte{}, row.Data)
		require.Equal(t, []byte{7, 7}, row.TxnSignature)
		require.Equal(t, now, row.UpdatedOn.UTC())
	})

	t.Run("upsert account - version guard", func(t *testing.T) {
		tt := []struct {
			name         string
			slot         int64
			writeVersion int64

			expectedLamports     int64
			expectedWriteVersion int64
		}{
			{
				name:                 "same slot, lower write version",
				slot:                 5,
				writeVersion:         1,
				expectedLamports:     100,
				expectedWriteVersion: 2,
			},
			{
				name:                 "same slot, same write version",
				slot:                 5,
				writeVersion:         2,
				expectedLamports:     100,
				expectedWriteVersion: 2,
			},
			{
				name:                 "lower slot, higher write version",
				slot:                 4,
				writeVersion:         10,
				expectedLamports:     100,
				expectedWriteVersion: 2,
			},
			{
				name:                 "same slot, higher write version",
				slot:                 5,
				writeVersion:         3,
				expectedLamports:     200,
				expectedWriteVersion: 3,
			},
			{
				name:                 "higher slot, lower write version",
				slot:                 6,
				writeVersion:         1,
				expectedLamports:     200,
				expectedWriteVersion: 1,
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				// given
				defer testutils.PruneTables(t, db.DB, "account")
				testutils.LoadFixtures(t, db.DB, "fixtures/upsert_account")

				// when
				err := postgresDB.UpsertAccount(ctx, &store.Account{
					Pubkey:       pubkey,
					Owner:        owner,
					Lamports:     200,
					Slot:         tc.slot,
					WriteVersion: tc.writeVersion,
					Data:         []byte{2},
				})

				// then
				require.NoError(t, err)

				row := readAccount(t, db, pubkey)
				require.Equal(t, tc.expectedLamports, row.Lamports)
				require.Equal(t, tc.expectedWriteVersion, row.WriteVersion)
			})
		}
	})

	t.Run("upsert account - out of order delivery", func(t *testing.T) {
		// given
		defer testutils.PruneTables(t, db.DB, "account")

		newer := &store.Account{Pubkey: []byte("P1"), Owner: owner, Slot: 5, WriteVersion: 2, Lamports: 100}
		stale := &store.Account{Pubkey: []byte("P1"), Owner: owner, Slot: 5, WriteVersion: 1, Lamports: 200}

		// when
		require.NoError(t, postgresDB.UpsertAccount(ctx, newer))
		require.NoError(t, postgresDB.UpsertAccount(ctx, stale))

		// then
		row := readAccount(t, db, []byte("P1"))
		require.Equal(t, int64(100), row.Lamports)
		require.Equal(t, int64(2), row.WriteVersion)
	})

	t.Run("upsert slot status - overwrite", func(t *testing.T) {
		// given
		defer testutils.PruneTables(t, db.DB, "slot")
		testutils.LoadFixtures(t, db.DB, "fixtures/upsert_slot_status")

		// when
		err := postgresDB.UpsertSlotStatus(ctx, &store.SlotStatus{Slot: 10, Status: store.SlotStatusRooted})
		require.NoError(t, err)
		err = postgresDB.UpsertSlotStatus(ctx, &store.SlotStatus{Slot: 11, Parent: testutils.PtrTo(int64(10)), Status: store.SlotStatusProcessed})
		require.NoError(t, err)

		// then
		var rows []slotRow
		err = db.Select(&rows, "SELECT slot, parent, status, updated_on FROM slot ORDER BY slot")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		require.Equal(t, int64(10), rows[0].Slot)
		require.False(t, rows[0].Parent.Valid)
		require.Equal(t, "Rooted", rows[0].Status)
		require.Equal(t, now, rows[0].UpdatedOn.UTC())

		require.Equal(t, int64(11), rows[1].Slot)
		require.Equal(t, sql.NullInt64{Int64: 10, Valid: true}, rows[1].Parent)
		require.Equal(t, "Processed", rows[1].Status)
	})

	t.Run("insert block", func(t *testing.T) {
		// given
		defer testutils.PruneTables(t, db.DB, "block")

		rewardType := store.RewardTypeVoting
		block := &store.Block{
			Slot:      20,
			Blockhash: "5Dq3mR4yrXb9ykgvNeNYcC1Fj9aUwEBLa8BXs3Ly6GjQ",
			Rewards: []store.Reward{
				{Pubkey: "Vote111111111111111111111111111111111111111", Lamports: -5, PostBalance: 1000, RewardType: &rewardType},
			},
			BlockHeight: testutils.PtrTo(int64(18)),
		}

		// when
		require.NoError(t, postgresDB.InsertBlock(ctx, block))
		require.NoError(t, postgresDB.InsertBlock(ctx, block))

		// then
		var rows []blockRow
		err := db.Select(&rows, "SELECT slot, blockhash, rewards::TEXT AS rewards, block_time, block_height FROM block")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		require.Equal(t, int64(20), rows[0].Slot)
		require.Equal(t, block.Blockhash, rows[0].Blockhash)
		require.False(t, rows[0].BlockTime.Valid)
		require.Equal(t, sql.NullInt64{Int64: 18, Valid: true}, rows[0].BlockHeight)
		require.JSONEq(t, `[{"pubkey":"Vote111111111111111111111111111111111111111","lamports":-5,"post_balance":1000,"reward_type":"Voting","commission":null}]`, rows[0].Rewards)
	})

	t.Run("reconnect", func(t *testing.T) {
		// given
		require.NoError(t, postgresDB.Close())
		require.False(t, postgresDB.IsConnected())

		// when
		err := postgresDB.Reconnect(ctx)

		// then
		require.NoError(t, err)
		require.True(t, postgresDB.IsConnected())
		require.NoError(t, postgresDB.Ping(ctx))
	})
}

func TestNewUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// given
	sut, err := New("host=127.0.0.1 port=1 user=nobody password=nobody dbname=none sslmode=disable connect_timeout=1", 1, 1)
	require.NoError(t, err)
	defer sut.Close()

	// then
	require.False(t, sut.IsConnected())

	err = sut.Reconnect(context.Background())
	require.ErrorIs(t, err, store.ErrFailedToReconnect)
	require.False(t, sut.IsConnected())

	err = sut.UpsertAccount(context.Background(), &store.Account{Pubkey: []byte{1}, Owner: []byte{2}})
	require.ErrorIs(t, err, store.ErrFailedToPrepare)
}

func TestWithTracer(t *testing.T) {
	// given
	opt := WithTracer(attribute.String("service", "geyser-sink"))
	sut := &PostgreSQL{}

	// when
	opt(sut)

	// then
	require.True(t, sut.tracingEnabled)
	require.Len(t, sut.tracingAttributes, 2)
	require.Equal(t, attribute.String("service", "geyser-sink"), sut.tracingAttributes[0])
	require.Equal(t, attribute.Key("file"), sut.tracingAttributes[1].Key)
	require.True(t, strings.HasSuffix(sut.tracingAttributes[1].Value.AsString(), "postgres_test.go"))
}
