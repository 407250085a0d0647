// Package message builds the MarkdownV2 notification texts sent to the
// Telegram group.
package message

import (
	"fmt"
	"time"

	"github.com/tdnguyendev/mbwatch/internal/cli"
	"github.com/tdnguyendev/mbwatch/internal/model"
	"github.com/tdnguyendev/mbwatch/internal/telegram"
	"github.com/tdnguyendev/mbwatch/internal/weather"
)

// Transaction builds the incoming-payment notification.
func Transaction(tx model.Transaction, account string) string {
	return fmt.Sprintf(
		"💰 *THÔNG BÁO GIAO DỊCH* 💰\n\n"+
			"💸 Tiền vào: *%s*\n\n"+
			"🏦 Tài khoản: %s\n\n"+
			"📝 Nội dung thanh toán: %s\n\n"+
			"🔢 Mã tham chiếu: %s\n\n"+
			"⏱ Giao dịch lúc: *%s*",
		telegram.Escape(cli.FormatVND(tx.CreditAmount)),
		telegram.Escape(account),
		telegram.Escape(tx.Description),
		telegram.Escape(tx.RefNo),
		telegram.Escape(tx.TransactionDate),
	)
}

// DailySummary builds the end-of-window summary.
func DailySummary(s model.DailySummary) string {
	if s.Count == 0 {
		return fmt.Sprintf(
			"📊 *THỐNG KÊ GIAO DỊCH NGÀY* 📊\n\n"+
				"📅 Ngày: *%s*\n\n"+
				"💬 Không có giao dịch nào hôm nay\\.",
			telegram.Escape(s.Date),
		)
	}
	return fmt.Sprintf(
		"📊 *THỐNG KÊ GIAO DỊCH NGÀY* 📊\n\n"+
			"📅 Ngày: *%s*\n\n"+
			"🧮 Tổng số giao dịch: *%d*\n\n"+
			"💵 Tổng tiền vào: *%s*",
		telegram.Escape(s.Date),
		s.Count,
		telegram.Escape(cli.FormatVND(s.TotalCredit)),
	)
}

// Weather builds the periodic weather report. runtime is how long the
// monitor has been up.
func Weather(obs *weather.Observation, runtime time.Duration) string {
	emoji := weather.ConditionEmoji(obs.Current.Condition.Text)

	return fmt.Sprintf(
		"🛰️ *DỰ BÁO THỜI TIẾT* 🛰️\n\n"+
			"📍 Địa điểm: *%s, %s*\n\n"+
			"%s Thời tiết: *%s*\n\n"+
			"🌡 Nhiệt độ: *%s°C*\n\n"+
			"🌡 Cảm giác như: *%s°C*\n\n"+
			"🕒 Cập nhật lúc: %s\n\n"+
			"⏱️ Thời gian chạy: *%s*",
		telegram.Escape(obs.Location.Name),
		telegram.Escape(obs.Location.Country),
		emoji,
		telegram.Escape(obs.Current.Condition.Text),
		telegram.Escape(fmt.Sprintf("%.1f", obs.Current.TempC)),
		telegram.Escape(fmt.Sprintf("%.1f", obs.Current.FeelsLikeC)),
		telegram.Escape(obs.Current.LastUpdated),
		telegram.Escape(cli.FormatDuration(runtime)),
	)
}

// Morning is sent when the operating window opens.
func Morning() string {
	return "🌞 *Chào buổi sáng, một ngày mới tốt lành\\!* 🌞"
}

// Goodnight is sent after the daily summary when the window closes.
func Goodnight() string {
	return "😴 *Đã đến giờ đi ngủ, hẹn gặp bạn vào sáng mai\\!* 💤"
}

// Startup announces the monitor coming online.
func Startup(at time.Time) string {
	return telegram.Escape(fmt.Sprintf("🚀 Kiểm tra giao dịch MB Bank chạy lúc %s", cli.Timestamp(at)))
}

// Shutdown announces the monitor going offline.
func Shutdown(at time.Time) string {
	return telegram.Escape(fmt.Sprintf("🛑 Kiểm tra giao dịch MB Bank dừng lúc %s", cli.Timestamp(at)))
}

// Error wraps an error for the group when a check fails persistently.
func Error(err error, at time.Time) string {
	return fmt.Sprintf(
		"❌ *LỖI* ❌\n\n%s\n\nLúc: %s",
		telegram.Escape(err.Error()),
		telegram.Escape(cli.Timestamp(at)),
	)
}
