package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS savings (
    position        INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    category        TEXT NOT NULL,
    amount          REAL NOT NULL,
    maturity_amount REAL NOT NULL,
    start_date      TEXT,
    end_date        TEXT,
    comments        TEXT,
    attachment      TEXT
);

CREATE TABLE IF NOT EXISTS goals (
    position        INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    goal_type       TEXT,
    target_amount   REAL NOT NULL,
    current_amount  REAL NOT NULL,
    start_date      TEXT,
    target_date     TEXT,
    status          TEXT,
    priority        TEXT
);

CREATE TABLE IF NOT EXISTS fire_profile (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    data            TEXT NOT NULL,
    saved_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_savings_end ON savings(end_date);
CREATE INDEX IF NOT EXISTS idx_savings_category ON savings(category);
`
