package migrations

func init() {
	Migrations.MustRegister(
		exec(`CREATE TABLE IF NOT EXISTS interviews (
	seq              BIGSERIAL,
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	start_time       BIGINT NOT NULL,
	end_time         BIGINT NOT NULL DEFAULT 0,
	status           TEXT NOT NULL,
	stream_call_id   TEXT NOT NULL UNIQUE,
	candidate_id     TEXT NOT NULL,
	interviewer_ids  JSONB NOT NULL,
	question_ids     JSONB NOT NULL DEFAULT '[]'::jsonb,
	aptitude_test_id TEXT NOT NULL DEFAULT ''
)`,
			`CREATE INDEX IF NOT EXISTS interviews_candidate_idx ON interviews (candidate_id)`,
			`CREATE INDEX IF NOT EXISTS interviews_aptitude_test_idx ON interviews (aptitude_test_id)`,
		),
		exec(`DROP TABLE IF EXISTS interviews`),
	)
}
