// Package cli provides formatting and rendering utilities for terminal and
// notification output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatVND formats an amount as Vietnamese dong.
// e.g., 500000 -> "500,000 VND"
func FormatVND(amount decimal.Decimal) string {
	return FormatNumber(amount.IntPart()) + " VND"
}

// FormatDuration formats a duration into a compact human-readable string.
// e.g., 26h30m5s -> "1d 2h 30m 5s", 125s -> "2m 5s"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int64(d.Seconds())
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60
	rem := secs % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, rem)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, mins, rem)
	default:
		return fmt.Sprintf("%dm %ds", mins, rem)
	}
}

// Timestamp returns the standard log-line timestamp for now.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
