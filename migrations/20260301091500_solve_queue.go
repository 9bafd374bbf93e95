package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upSolveQueue, downSolveQueue)
}

func upSolveQueue(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table solve_queue
		(
			queue_id serial primary key,
			request_key text not null,
			request jsonb not null,
			priority int not null default 10,
			status varchar not null check (status in ('Queued', 'Processing', 'Completed', 'Failed')),
			solution_id int,
			created_at timestamp with time zone not null default now(),
			started_at timestamp with time zone,
			completed_at timestamp with time zone,
			error_message text
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create solve_queue table")
		return err
	}

	// highest priority first, oldest first
	_, err = tx.ExecContext(ctx, `
		create index idx_solve_queue_polling on solve_queue(status, priority desc, created_at asc)
		where status in ('Queued', 'Processing');`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create index on solve_queue table")
		return err
	}

	_, err = tx.ExecContext(ctx, `create index idx_solve_queue_lookup on solve_queue(request_key, status);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create lookup index on solve_queue table")
		return err
	}

	return nil
}

func downSolveQueue(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists solve_queue;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop solve_queue table")
		return err
	}

	return nil
}
