package snapshot

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations must stay sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	filter_id   TEXT NOT NULL,
	jql         TEXT NOT NULL DEFAULT '',
	issue_count INTEGER NOT NULL DEFAULT 0,
	payload     TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_snapshots_filter_created
	ON snapshots(filter_id, created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
