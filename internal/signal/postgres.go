package signal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores the flag as a single row in a sync_flags table, shared
// with whatever mutates donation data out of band.
type Postgres struct {
	pool *pgxpool.Pool
	name string
}

func NewPostgres(pool *pgxpool.Pool, name string) *Postgres {
	if name == "" {
		name = FlagName
	}
	return &Postgres{pool: pool, name: name}
}

// Init creates the flags table when it does not exist yet.
func (p *Postgres) Init(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS sync_flags (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("signal: init flags table: %w", err)
	}
	return nil
}

func (p *Postgres) Dirty(ctx context.Context) (bool, error) {
	row := p.pool.QueryRow(ctx, `
SELECT value FROM sync_flags WHERE name = $1;
`, p.name)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("signal: read flag: %w", err)
	}
	return value == sentinelDirty, nil
}

func (p *Postgres) Reset(ctx context.Context) error {
	return p.write(ctx, sentinelClean)
}

// MarkDirty flips the flag, standing in for the external mutator.
func (p *Postgres) MarkDirty(ctx context.Context) error {
	return p.write(ctx, sentinelDirty)
}

func (p *Postgres) write(ctx context.Context, sentinel string) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO sync_flags (name, value)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value;
`, p.name, sentinel)
	if err != nil {
		return fmt.Errorf("signal: write flag: %w", err)
	}
	return nil
}
