// Package model defines the core data records shared across mbwatch.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single bank transaction as returned by the MB Bank
// transaction history endpoint. Records are immutable once fetched; dates
// stay in the bank's own string format so equality is exact.
type Transaction struct {
	RefNo           string
	PostingDate     string // "02/01/2006 15:04:05" bank-local
	TransactionDate string
	CreditAmount    decimal.Decimal
	DebitAmount     decimal.Decimal
	Description     string
	Type            string
}

// Same reports whether two transactions refer to the same bank event.
// RefNo is the primary key; TransactionDate guards against reference reuse.
func (t Transaction) Same(other Transaction) bool {
	return t.RefNo == other.RefNo && t.TransactionDate == other.TransactionDate
}

// IsZero reports whether the transaction is the empty record.
func (t Transaction) IsZero() bool {
	return t.RefNo == "" && t.TransactionDate == ""
}

// IsNew reports whether latest should trigger a notification given the
// persisted last-seen record. hasLast is false when no record was persisted
// yet, in which case everything is new.
func IsNew(latest Transaction, last Transaction, hasLast bool) bool {
	if !hasLast {
		return true
	}
	return !latest.Same(last)
}

// DailySummary aggregates one day of credits. Computed transiently at window
// close; never persisted.
type DailySummary struct {
	Date        string
	Count       int
	TotalCredit decimal.Decimal
}

// Summarize computes the daily aggregate over a fetched transaction list.
func Summarize(date time.Time, txs []Transaction) DailySummary {
	s := DailySummary{
		Date:        date.Format("02-01-2006"),
		TotalCredit: decimal.Zero,
	}
	for _, tx := range txs {
		s.Count++
		s.TotalCredit = s.TotalCredit.Add(tx.CreditAmount)
	}
	return s
}

// Balance is a single account balance row.
type Balance struct {
	AccountNumber string
	Name          string
	Available     decimal.Decimal
	Currency      string
}
