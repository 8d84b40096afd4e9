package archive

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the archive tables. Times are stored as Unix nanoseconds
// so both SQLite drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS translations (
    id TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    file TEXT,
    target TEXT NOT NULL,
    translated TEXT,
    parameters TEXT,
    query_hash TEXT,
    error TEXT,
    duration_ns INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at);
CREATE INDEX IF NOT EXISTS idx_translations_target ON translations(target);
CREATE INDEX IF NOT EXISTS idx_translations_document ON translations(document);
CREATE INDEX IF NOT EXISTS idx_translations_query_hash ON translations(query_hash);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, ?)
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
