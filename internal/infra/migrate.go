package infra

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL DEFAULT 'standard',
		payload JSONB NOT NULL,
		state TEXT NOT NULL DEFAULT 'waiting',
		priority INT NOT NULL DEFAULT 0,
		attempts INT NOT NULL DEFAULT 0,
		max_attempts INT NOT NULL DEFAULT 3,
		run_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		claimed_at TIMESTAMPTZ,
		failure_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_claim
		ON tasks (kind, state, priority, created_at)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		queue_task_id UUID,
		status TEXT NOT NULL DEFAULT 'pending',
		progress INT NOT NULL DEFAULT 0,
		topic TEXT NOT NULL,
		platform TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		pattern_digest JSONB,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_queue_task_id ON jobs (queue_task_id)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		variant_number INT NOT NULL,
		agent_name TEXT NOT NULL,
		body TEXT NOT NULL,
		hashtags JSONB NOT NULL DEFAULT '[]',
		voice_fit INT NOT NULL DEFAULT 0,
		meta JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (job_id, variant_number)
	)`,
	`CREATE TABLE IF NOT EXISTS historical_posts (
		id UUID PRIMARY KEY,
		text TEXT NOT NULL,
		posted_at TIMESTAMPTZ NOT NULL,
		reactions INT NOT NULL DEFAULT 0,
		comments INT NOT NULL DEFAULT 0,
		reposts INT NOT NULL DEFAULT 0,
		viral_score INT NOT NULL DEFAULT 0,
		tier TEXT NOT NULL DEFAULT 'average'
	)`,
}

// Migrate applies the schema idempotently. It runs over database/sql with
// the lib/pq driver so it can execute before the pgx pool is constructed.
func Migrate(cfg *Config) error {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
