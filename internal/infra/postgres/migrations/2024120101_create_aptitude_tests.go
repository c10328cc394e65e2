package migrations

func init() {
	Migrations.MustRegister(
		exec(`CREATE TABLE IF NOT EXISTS aptitude_tests (
	seq                 BIGSERIAL,
	id                  TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	duration_minutes    INTEGER NOT NULL CHECK (duration_minutes > 0),
	questions           JSONB NOT NULL,
	total_points        DOUBLE PRECISION NOT NULL,
	is_active           BOOLEAN NOT NULL DEFAULT TRUE,
	is_question_set     BOOLEAN NOT NULL DEFAULT FALSE,
	assigned_candidates JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_by          TEXT NOT NULL,
	created_at          BIGINT NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS aptitude_tests_created_by_idx ON aptitude_tests (created_by)`,
			`CREATE INDEX IF NOT EXISTS aptitude_tests_active_idx ON aptitude_tests (is_active)`,
		),
		exec(`DROP TABLE IF EXISTS aptitude_tests`),
	)
}
