package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/chainsink/geyser-sink/internal/store"
	"github.com/chainsink/geyser-sink/internal/tracing"
)

var ErrFailedToEncodeRewards = errors.New("failed to encode rewards")

const insertBlockQuery = `
	INSERT INTO block (slot, blockhash, rewards, block_time, block_height, updated_on)
	VALUES ($1, $2, $3::JSONB, $4, $5, $6)
`

func (p *PostgreSQL) InsertBlock(ctx context.Context, block *store.Block) (err error) {
	ctx, span := tracing.StartTracing(ctx, "InsertBlock", p.tracingEnabled, p.tracingAttributes...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	rewards := block.Rewards
	if rewards == nil {
		rewards = []store.Reward{}
	}

	rewardsJSON, err := json.Marshal(rewards)
	if err != nil {
		return errors.Join(ErrFailedToEncodeRewards, err)
	}

	return p.exec(ctx, insertBlockQuery,
		block.Slot,
		block.Blockhash,
		string(rewardsJSON),
		nullInt64(block.BlockTime),
		nullInt64(block.BlockHeight),
		p.now().UTC(),
	)
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}
