package migrations

func init() {
	Migrations.MustRegister(
		exec(`CREATE TABLE IF NOT EXISTS coding_questions (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	created_by TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	data       JSONB NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS coding_questions_created_by_idx ON coding_questions (created_by)`,
		),
		exec(`DROP TABLE IF EXISTS coding_questions`),
	)
}
