package postgresql

import (
	"context"

	"github.com/chainsink/geyser-sink/internal/store"
	"github.com/chainsink/geyser-sink/internal/tracing"
)

// An existing row is only replaced by an update with a greater (slot, write_version).
const upsertAccountQuery = `
	INSERT INTO account AS acct (pubkey, slot, owner, lamports, executable, rent_epoch, data, write_version, updated_on, txn_signature)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (pubkey) DO UPDATE SET
		slot = EXCLUDED.slot
		,owner = EXCLUDED.owner
		,lamports = EXCLUDED.lamports
		,executable = EXCLUDED.executable
		,rent_epoch = EXCLUDED.rent_epoch
		,data = EXCLUDED.data
		,write_version = EXCLUDED.write_version
		,updated_on = EXCLUDED.updated_on
		,txn_signature = EXCLUDED.txn_signature
	WHERE acct.slot < EXCLUDED.slot
		OR (acct.slot = EXCLUDED.slot AND acct.write_version < EXCLUDED.write_version)
`

func (p *PostgreSQL) UpsertAccount(ctx context.Context, account *store.Account) (err error) {
	ctx, span := tracing.StartTracing(ctx, "UpsertAccount", p.tracingEnabled, p.tracingAttributes...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	data := account.Data
	if data == nil {
		data = []byte{}
	}

	return p.exec(ctx, upsertAccountQuery,
		account.Pubkey,
		account.Slot,
		account.Owner,
		account.Lamports,
		account.Executable,
		account.RentEpoch,
		data,
		account.WriteVersion,
		p.now().UTC(),
		account.TxnSignature,
	)
}
