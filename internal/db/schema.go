package db

// SchemaVersion is the current database schema version
const SchemaVersion = 2

const schema = `
-- Designs table
CREATE TABLE IF NOT EXISTS designs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- User parameters; position preserves enumeration order
CREATE TABLE IF NOT EXISTS parameters (
    id TEXT PRIMARY KEY,
    design_id TEXT NOT NULL,
    name TEXT NOT NULL,
    expression TEXT NOT NULL,
    unit TEXT NOT NULL DEFAULT '',
    comment TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (design_id) REFERENCES designs(id),
    UNIQUE(design_id, name)
);

-- Action log for undo support
CREATE TABLE IF NOT EXISTS action_log (
    id TEXT PRIMARY KEY,
    batch_id TEXT NOT NULL,
    action_type TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    previous_data TEXT DEFAULT '',
    new_data TEXT DEFAULT '',
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    undone INTEGER DEFAULT 0
);

-- Schema info
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_parameters_design ON parameters(design_id, position);
CREATE INDEX IF NOT EXISTS idx_action_log_batch ON action_log(batch_id);
`
