package message

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tdnguyendev/mbwatch/internal/model"
	"github.com/tdnguyendev/mbwatch/internal/weather"
)

func TestTransaction(t *testing.T) {
	tx := model.Transaction{
		RefNo:           "FT25123001",
		TransactionDate: "28/08/2026 09:15:00",
		CreditAmount:    decimal.NewFromInt(500_000),
		Description:     "NGUYEN VAN A chuyen tien.",
	}

	msg := Transaction(tx, "MB Bank - 6886")

	if !strings.Contains(msg, `*500,000 VND*`) {
		t.Fatalf("message missing formatted amount:\n%s", msg)
	}
	if !strings.Contains(msg, `MB Bank \- 6886`) {
		t.Fatalf("account not escaped:\n%s", msg)
	}
	if !strings.Contains(msg, `chuyen tien\.`) {
		t.Fatalf("description not escaped:\n%s", msg)
	}
	if !strings.Contains(msg, "FT25123001") {
		t.Fatalf("message missing refNo:\n%s", msg)
	}
}

func TestDailySummary(t *testing.T) {
	s := model.DailySummary{Date: "28-08-2026", Count: 4, TotalCredit: decimal.NewFromInt(1_250_000)}
	msg := DailySummary(s)

	if !strings.Contains(msg, "*4*") {
		t.Fatalf("summary missing count:\n%s", msg)
	}
	if !strings.Contains(msg, `1,250,000 VND`) {
		t.Fatalf("summary missing total:\n%s", msg)
	}
	if !strings.Contains(msg, `28\-08\-2026`) {
		t.Fatalf("date not escaped:\n%s", msg)
	}
}

func TestDailySummary_NoTransactions(t *testing.T) {
	msg := DailySummary(model.DailySummary{Date: "28-08-2026", TotalCredit: decimal.Zero})
	if !strings.Contains(msg, "Không có giao dịch") {
		t.Fatalf("empty-day summary wrong:\n%s", msg)
	}
}

func TestWeather(t *testing.T) {
	var obs weather.Observation
	obs.Location.Name = "Hanoi"
	obs.Location.Country = "Vietnam"
	obs.Current.Condition.Text = "Partly cloudy"
	obs.Current.TempC = 33.5
	obs.Current.FeelsLikeC = 38.1
	obs.Current.LastUpdated = "2026-08-28 14:00"

	msg := Weather(&obs, 90*time.Minute)

	if !strings.Contains(msg, "⛅") {
		t.Fatalf("weather missing condition emoji:\n%s", msg)
	}
	if !strings.Contains(msg, `33\.5°C`) {
		t.Fatalf("weather missing escaped temp:\n%s", msg)
	}
	if !strings.Contains(msg, `1h 30m 0s`) {
		t.Fatalf("weather missing runtime:\n%s", msg)
	}
}

func TestError(t *testing.T) {
	msg := Error(errors.New("bank: unexpected status 500"), time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local))
	if !strings.Contains(msg, `bank: unexpected status 500`) {
		t.Fatalf("error text missing:\n%s", msg)
	}
	if !strings.Contains(msg, `2026\-08\-28 10:00:00`) {
		t.Fatalf("timestamp not escaped:\n%s", msg)
	}
}
