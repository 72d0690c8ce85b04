package migrations

import (
	"context"
	"database/sql"

	"github.com/avachat/avachat/internal/client/seed"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedFixtures, downSeedFixtures)
}

// upSeedFixtures inserts deterministic fixture rows. It is a no-op unless
// seeding has been enabled (debug configurations only).
func upSeedFixtures(ctx context.Context, tx *sql.Tx) error {
	if !seed.Enabled() {
		return nil
	}
	return seed.Apply(ctx, tx)
}

func downSeedFixtures(ctx context.Context, tx *sql.Tx) error {
	if !seed.Enabled() {
		return nil
	}
	return seed.Remove(ctx, tx)
}
