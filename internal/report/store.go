package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS localization_changes (
	run_id       UUID        NOT NULL,
	path         TEXT        NOT NULL,
	replacements INTEGER     NOT NULL,
	rules        TEXT[]      NOT NULL,
	before_hash  TEXT        NOT NULL,
	after_hash   TEXT        NOT NULL,
	dry_run      BOOLEAN     NOT NULL DEFAULT FALSE,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, path)
)`

// PGStore persists change reports in PostgreSQL so successive passes over a
// working copy can be audited.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store backed by pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// EnsureSchema creates the report table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create report schema: %w", err)
	}
	return nil
}

// Save writes all changes of one run in a single transaction.
func (s *PGStore) Save(ctx context.Context, runID string, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range changes {
		rules := c.Rules
		if rules == nil {
			rules = []string{}
		}
		batch.Queue(`
			INSERT INTO localization_changes (run_id, path, replacements, rules, before_hash, after_hash, dry_run)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (run_id, path) DO UPDATE SET
				replacements = EXCLUDED.replacements,
				rules        = EXCLUDED.rules,
				before_hash  = EXCLUDED.before_hash,
				after_hash   = EXCLUDED.after_hash,
				dry_run      = EXCLUDED.dry_run`,
			runID, c.Path, c.Replacements, rules, c.BeforeHash, c.AfterHash, c.DryRun,
		)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save change report: %w", err)
	}

	log.Info().Str("run_id", runID).Int("changes", len(changes)).Msg("Stored change report")
	return nil
}

// Load returns the changes recorded for runID, ordered by path.
func (s *PGStore) Load(ctx context.Context, runID string) ([]Change, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT path, replacements, rules, before_hash, after_hash, dry_run
		FROM localization_changes
		WHERE run_id = $1
		ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query change report: %w", err)
	}

	changes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Change, error) {
		var c Change
		err := row.Scan(&c.Path, &c.Replacements, &c.Rules, &c.BeforeHash, &c.AfterHash, &c.DryRun)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan change report: %w", err)
	}
	return changes, nil
}
