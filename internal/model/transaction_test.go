package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(ref, date string, credit int64) Transaction {
	return Transaction{
		RefNo:           ref,
		TransactionDate: date,
		CreditAmount:    decimal.NewFromInt(credit),
		Description:     "test transfer",
	}
}

func TestIsNew_FirstRecordAlwaysNew(t *testing.T) {
	latest := tx("FT25123001", "28/08/2026 09:15:00", 500_000)
	if !IsNew(latest, Transaction{}, false) {
		t.Fatal("IsNew = false with no persisted record, want true")
	}
}

func TestIsNew_IdenticalRecordIsNotNew(t *testing.T) {
	latest := tx("FT25123001", "28/08/2026 09:15:00", 500_000)
	if IsNew(latest, latest, true) {
		t.Fatal("IsNew = true for identical record, want false")
	}
}

func TestIsNew_RefNoChange(t *testing.T) {
	last := tx("FT25123001", "28/08/2026 09:15:00", 500_000)
	latest := tx("FT25123002", "28/08/2026 09:15:00", 500_000)
	if !IsNew(latest, last, true) {
		t.Fatal("IsNew = false for changed refNo, want true")
	}
}

func TestIsNew_ReusedRefNoLaterDate(t *testing.T) {
	last := tx("FT25123001", "28/08/2026 09:15:00", 500_000)
	latest := tx("FT25123001", "29/08/2026 10:00:00", 500_000)
	if !IsNew(latest, last, true) {
		t.Fatal("IsNew = false for reused refNo on a later date, want true")
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local)
	txs := []Transaction{
		tx("A", "28/08/2026 08:00:00", 100_000),
		tx("B", "28/08/2026 09:00:00", 250_000),
		tx("C", "28/08/2026 10:00:00", 0),
	}

	s := Summarize(day, txs)
	if s.Date != "28-08-2026" {
		t.Fatalf("Date = %q, want 28-08-2026", s.Date)
	}
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3", s.Count)
	}
	if !s.TotalCredit.Equal(decimal.NewFromInt(350_000)) {
		t.Fatalf("TotalCredit = %s, want 350000", s.TotalCredit)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local), nil)
	if s.Count != 0 || !s.TotalCredit.IsZero() {
		t.Fatalf("empty summary = %+v, want zero", s)
	}
}
