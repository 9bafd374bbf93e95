package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upSolutions, downSolutions)
}

func upSolutions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table solutions
		(
			solution_id serial primary key,
			request_key text not null unique,
			edition varchar not null check (edition in ('java', 'bedrock')),
			mode varchar not null check (mode in ('lvl', 'xp')),
			solvable boolean not null,
			total_cost_lvl int,
			total_cost_xp double precision,
			request jsonb not null,
			result jsonb,
			created_at timestamp with time zone not null default now()
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create solutions table")
		return err
	}

	return nil
}

func downSolutions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists solutions;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop solutions table")
		return err
	}

	return nil
}
