package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id             TEXT PRIMARY KEY,
    project_id     TEXT NOT NULL,
    project_name   TEXT NOT NULL DEFAULT '',
    name           TEXT NOT NULL,
    kind           TEXT NOT NULL DEFAULT 'cost',
    contract       TEXT NOT NULL DEFAULT '',
    report_date    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id              TEXT PRIMARY KEY,
    report_id       TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    display_index   INTEGER NOT NULL DEFAULT 0,
    original_budget REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS line_items (
    id          TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    description TEXT NOT NULL DEFAULT '',
    amount      REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS variations (
    id          TEXT PRIMARY KEY,
    report_id   TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    tenant_id   TEXT NOT NULL DEFAULT '',
    code        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount      REAL NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS company_settings (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    name            TEXT NOT NULL,
    registration_no TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    email           TEXT NOT NULL DEFAULT '',
    website         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_categories_report ON categories(report_id);
CREATE INDEX IF NOT EXISTS idx_line_items_category ON line_items(category_id);
CREATE INDEX IF NOT EXISTS idx_variations_report ON variations(report_id);
`
