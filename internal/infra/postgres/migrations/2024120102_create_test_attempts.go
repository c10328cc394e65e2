package migrations

func init() {
	Migrations.MustRegister(
		exec(`CREATE TABLE IF NOT EXISTS test_attempts (
	seq                BIGSERIAL PRIMARY KEY,
	id                 TEXT NOT NULL UNIQUE,
	test_id            TEXT NOT NULL,
	candidate_id       TEXT NOT NULL,
	answers            JSONB NOT NULL,
	score              DOUBLE PRECISION NOT NULL,
	total_points       DOUBLE PRECISION NOT NULL,
	percentage         DOUBLE PRECISION NOT NULL,
	started_at         BIGINT NOT NULL,
	completed_at       BIGINT NOT NULL,
	time_spent_seconds BIGINT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS test_attempts_test_candidate_idx ON test_attempts (test_id, candidate_id)`,
			`CREATE INDEX IF NOT EXISTS test_attempts_candidate_idx ON test_attempts (candidate_id)`,
		),
		exec(`DROP TABLE IF EXISTS test_attempts`),
	)
}
