package postgresql

import (
	"context"

	"github.com/chainsink/geyser-sink/internal/store"
	"github.com/chainsink/geyser-sink/internal/tracing"
)

const upsertSlotStatusQuery = `
	INSERT INTO slot (slot, parent, status, updated_on)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (slot) DO UPDATE SET
		parent = EXCLUDED.parent
		,status = EXCLUDED.status
		,updated_on = EXCLUDED.updated_on
`

func (p *PostgreSQL) UpsertSlotStatus(ctx context.Context, slotStatus *store.SlotStatus) (err error) {
	ctx, span := tracing.StartTracing(ctx, "UpsertSlotStatus", p.tracingEnabled, p.tracingAttributes...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	return p.exec(ctx, upsertSlotStatusQuery,
		slotStatus.Slot,
		nullInt64(slotStatus.Parent),
		string(slotStatus.Status),
		p.now().UTC(),
	)
}
