package store

// The CHECK keeps the table single-slot: there is never more than one
// last-seen transaction.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS last_transaction (
    id                INTEGER PRIMARY KEY CHECK (id = 1),
    ref_no            TEXT NOT NULL,
    posting_date      TEXT,
    transaction_date  TEXT NOT NULL,
    credit_amount     TEXT NOT NULL,
    debit_amount      TEXT NOT NULL,
    description       TEXT,
    transaction_type  TEXT,
    saved_at          TEXT NOT NULL
);
`
