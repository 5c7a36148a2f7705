package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// This schema pertains to the 'moodlogdb' component.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS moodlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv_store (
    key VARCHAR(256) PRIMARY KEY,
    value TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);
`
)
