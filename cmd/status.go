package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/cli"
	"github.com/tdnguyendev/mbwatch/internal/monitor"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show monitor process and API status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		fmt.Println("  Monitor: not running (pid file not found)")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Monitor: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := loadConfigOrDefault().Monitor.Addr
	if st, err := readState(statePath(flagWatchPIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status")
	if err != nil {
		fmt.Printf("  Monitor PID: %d\n", pid)
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st monitor.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Println(renderStatus(pid, addr, st))
	return nil
}

func renderStatus(pid int, addr string, st monitor.Status) string {
	inWindow := "no"
	if st.InWindow {
		inWindow = "yes"
	}

	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format("15:04:05")
	}

	lastWeather := "never"
	if !st.LastWeatherAt.IsZero() {
		lastWeather = st.LastWeatherAt.Local().Format("15:04:05")
	}

	rows := [][]string{
		{"PID", fmt.Sprintf("%d", pid)},
		{"Address", "http://" + addr},
		{"Uptime", cli.FormatDuration(time.Since(st.StartedAt))},
		{"---"},
		{"Window", st.Window},
		{"In window", inWindow},
		{"Last poll", lastPoll},
		{"Poll count", cli.FormatNumber(st.PollCount)},
		{"---"},
		{"Today's transactions", fmt.Sprintf("%d", st.TodayCount)},
		{"Today's total", st.TodayTotal + " VND"},
	}
	if st.LastRefNo != "" {
		rows = append(rows, []string{"Last refNo", st.LastRefNo})
	}
	rows = append(rows, []string{"Last weather", lastWeather})
	if st.LastError != "" {
		rows = append(rows, []string{"---"}, []string{"Last error", st.LastError})
	}

	return cli.RenderTable(cli.Table{Title: "Monitor status", Rows: rows})
}
