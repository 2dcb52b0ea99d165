package store

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TIMESTAMP NOT NULL,
    class TEXT NOT NULL,
    action TEXT NOT NULL,
    pid INTEGER,
    name TEXT,
    local_addr TEXT,
    remote_addr TEXT,
    status TEXT,
    process_created TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_class ON events(class);
CREATE INDEX IF NOT EXISTS idx_events_class_action ON events(class, action);
`
