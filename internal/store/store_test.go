package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tdnguyendev/mbwatch/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestLast_EmptyStore(t *testing.T) {
	s, _ := openTestStore(t)

	_, ok, err := s.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if ok {
		t.Fatal("ok = true on empty store")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	want := model.Transaction{
		RefNo:           "FT25123001",
		PostingDate:     "28/08/2026 09:15:01",
		TransactionDate: "28/08/2026 09:15:00",
		CreditAmount:    decimal.NewFromInt(500_000),
		DebitAmount:     decimal.Zero,
		Description:     "NGUYEN VAN A chuyen tien - cam on!",
		Type:            "ACCOUNT",
	}
	if err := s.SaveLast(want); err != nil {
		t.Fatalf("SaveLast: %v", err)
	}

	got, ok, err := s.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !ok {
		t.Fatal("ok = false after save")
	}
	if got.RefNo != want.RefNo || got.TransactionDate != want.TransactionDate {
		t.Fatalf("round-trip keys = %q/%q, want %q/%q", got.RefNo, got.TransactionDate, want.RefNo, want.TransactionDate)
	}
	if !got.CreditAmount.Equal(want.CreditAmount) {
		t.Fatalf("CreditAmount = %s, want %s", got.CreditAmount, want.CreditAmount)
	}
	if got.Description != want.Description {
		t.Fatalf("Description = %q, want %q", got.Description, want.Description)
	}
	if !got.Same(want) {
		t.Fatal("round-tripped record not Same as original")
	}
}

func TestSaveLast_OverwritesSingleSlot(t *testing.T) {
	s, _ := openTestStore(t)

	first := model.Transaction{RefNo: "A", TransactionDate: "28/08/2026 09:00:00",
		CreditAmount: decimal.NewFromInt(1), DebitAmount: decimal.Zero}
	second := model.Transaction{RefNo: "B", TransactionDate: "28/08/2026 10:00:00",
		CreditAmount: decimal.NewFromInt(2), DebitAmount: decimal.Zero}

	if err := s.SaveLast(first); err != nil {
		t.Fatalf("SaveLast(first): %v", err)
	}
	if err := s.SaveLast(second); err != nil {
		t.Fatalf("SaveLast(second): %v", err)
	}

	got, ok, err := s.Last()
	if err != nil || !ok {
		t.Fatalf("Last: ok=%v err=%v", ok, err)
	}
	if got.RefNo != "B" {
		t.Fatalf("RefNo = %q, want B (overwrite)", got.RefNo)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM last_transaction").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tx := model.Transaction{RefNo: "FT1", TransactionDate: "28/08/2026 09:00:00",
		CreditAmount: decimal.NewFromInt(10_000), DebitAmount: decimal.Zero}
	if err := s.SaveLast(tx); err != nil {
		t.Fatalf("SaveLast: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Last()
	if err != nil || !ok {
		t.Fatalf("Last after reopen: ok=%v err=%v", ok, err)
	}
	if !got.Same(tx) {
		t.Fatalf("record after reopen = %+v", got)
	}
}
