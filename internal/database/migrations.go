package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations bootstraps the catalog schema. Every statement is idempotent
// so this can run on each startup. The UNIQUE constraint on stock_code backs
// the idempotent upsert: concurrent batches cannot create two vehicles for
// the same code.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []struct {
		name string
		sql  string
	}{
		{
			name: "create vehicles table",
			sql: `
				CREATE TABLE IF NOT EXISTS vehicles (
					id UUID PRIMARY KEY,
					stock_code TEXT NOT NULL UNIQUE,
					name TEXT NOT NULL,
					fuel_type TEXT NOT NULL DEFAULT '',
					transmission TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					base_price NUMERIC(12,2),
					cover_image_url TEXT,
					gallery_image_urls JSONB NOT NULL DEFAULT '[]',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
		},
		{
			name: "create variations table",
			sql: `
				CREATE TABLE IF NOT EXISTS variations (
					id UUID PRIMARY KEY,
					vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
					mileage_allowance TEXT NOT NULL DEFAULT '',
					term TEXT NOT NULL DEFAULT '',
					price NUMERIC(12,2) NOT NULL DEFAULT 0,
					status TEXT NOT NULL DEFAULT 'published',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
		},
		{
			name: "create variations vehicle index",
			sql:  `CREATE INDEX IF NOT EXISTS idx_variations_vehicle ON variations(vehicle_id)`,
		},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}
	return nil
}
