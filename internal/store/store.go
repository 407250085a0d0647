// Package store persists the single last-seen transaction used for
// duplicate detection.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/tdnguyendev/mbwatch/internal/model"
)

// Store is a SQLite-backed single-record tracker. The monitor loop is the
// only writer and the only reader.
type Store struct {
	db *sql.DB
}

// Open opens or creates the tracker database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Last loads the persisted last-seen transaction. ok is false when nothing
// has been saved yet.
func (s *Store) Last() (model.Transaction, bool, error) {
	row := s.db.QueryRow(`SELECT ref_no, posting_date, transaction_date,
		credit_amount, debit_amount, description, transaction_type
		FROM last_transaction WHERE id = 1`)

	var tx model.Transaction
	var postingDate, description, txType sql.NullString
	var credit, debit string

	err := row.Scan(&tx.RefNo, &postingDate, &tx.TransactionDate, &credit, &debit, &description, &txType)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, false, nil
	}
	if err != nil {
		return model.Transaction{}, false, err
	}

	tx.PostingDate = postingDate.String
	tx.Description = description.String
	tx.Type = txType.String
	if tx.CreditAmount, err = decimal.NewFromString(credit); err != nil {
		return model.Transaction{}, false, fmt.Errorf("corrupt credit amount %q: %w", credit, err)
	}
	if tx.DebitAmount, err = decimal.NewFromString(debit); err != nil {
		return model.Transaction{}, false, fmt.Errorf("corrupt debit amount %q: %w", debit, err)
	}
	return tx, true, nil
}

// SaveLast overwrites the persisted last-seen transaction.
func (s *Store) SaveLast(tx model.Transaction) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO last_transaction
		(id, ref_no, posting_date, transaction_date, credit_amount,
		 debit_amount, description, transaction_type, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.RefNo, tx.PostingDate, tx.TransactionDate,
		tx.CreditAmount.String(), tx.DebitAmount.String(),
		tx.Description, tx.Type,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
