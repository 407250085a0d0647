// Package tui provides the interactive Bubble Tea dashboard for mbwatch.
// It is a thin client over the monitor's local status API, so it can attach
// to and detach from a running monitor at any time.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tdnguyendev/mbwatch/internal/cli"
	"github.com/tdnguyendev/mbwatch/internal/monitor"
)

const refreshInterval = 2 * time.Second

// statusMsg carries a fresh status snapshot from the monitor API.
type statusMsg monitor.Status

// eventsMsg carries the monitor's recent event list.
type eventsMsg []monitor.Event

// fetchErrMsg reports a failed API call.
type fetchErrMsg struct{ err error }

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	addr   string
	client *http.Client

	status  *monitor.Status
	events  []monitor.Event
	lastErr error

	spinner spinner.Model
	width   int
	height  int
}

// NewApp returns a dashboard attached to the monitor API at addr.
func NewApp(addr string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	return App{
		addr:    addr,
		client:  &http.Client{Timeout: 2 * time.Second},
		spinner: sp,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.fetchStatus, a.fetchEvents, tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) fetchStatus() tea.Msg {
	var st monitor.Status
	if err := a.getJSON("/v1/status", &st); err != nil {
		return fetchErrMsg{err: err}
	}
	return statusMsg(st)
}

func (a App) fetchEvents() tea.Msg {
	var evs []monitor.Event
	if err := a.getJSON("/v1/events", &evs); err != nil {
		return fetchErrMsg{err: err}
	}
	return eventsMsg(evs)
}

func (a App) getJSON(path string, out any) error {
	resp, err := a.client.Get("http://" + a.addr + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("monitor api: HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "r":
			return a, tea.Batch(a.fetchStatus, a.fetchEvents)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tickMsg:
		return a, tea.Batch(a.fetchStatus, a.fetchEvents, tick())

	case statusMsg:
		st := monitor.Status(msg)
		a.status = &st
		a.lastErr = nil

	case eventsMsg:
		a.events = msg

	case fetchErrMsg:
		a.lastErr = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

var (
	appTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorText)
	labelStyle    = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
	okStyle       = lipgloss.NewStyle().Foreground(cli.ColorGreen)
	warnStyle     = lipgloss.NewStyle().Foreground(cli.ColorOrange)
	errStyle      = lipgloss.NewStyle().Foreground(cli.ColorRed)
	footerStyle   = lipgloss.NewStyle().Foreground(cli.ColorTextDim)
)

func (a App) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(appTitleStyle.Render("mbwatch"))
	b.WriteString(labelStyle.Render("  " + a.addr))
	b.WriteString("\n\n")

	switch {
	case a.status == nil && a.lastErr != nil:
		b.WriteString(errStyle.Render("  Monitor unreachable: " + a.lastErr.Error()))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("  Is it running? Start with: mbwatch watch <username> <password>"))
		b.WriteString("\n")
	case a.status == nil:
		b.WriteString("  " + a.spinner.View() + labelStyle.Render(" connecting..."))
		b.WriteString("\n")
	default:
		b.WriteString(a.renderStatus())
		b.WriteString("\n")
		b.WriteString(a.renderEvents())
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("  q quit · r refresh"))
	b.WriteString("\n")

	return b.String()
}

func (a App) renderStatus() string {
	st := a.status

	state := okStyle.Render("watching")
	if !st.InWindow {
		state = warnStyle.Render("outside operating hours")
	}

	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format("15:04:05")
	}

	rows := [][]string{
		{"State", state},
		{"Window", st.Window},
		{"Uptime", cli.FormatDuration(time.Since(st.StartedAt))},
		{"Last poll", lastPoll},
		{"Poll count", cli.FormatNumber(st.PollCount)},
		{"---"},
		{"Today's transactions", fmt.Sprintf("%d", st.TodayCount)},
		{"Today's total", st.TodayTotal + " VND"},
	}
	if st.LastRefNo != "" {
		rows = append(rows, []string{"Last refNo", st.LastRefNo})
	}
	if st.LastError != "" {
		rows = append(rows, []string{"Last error", errStyle.Render(st.LastError)})
	}
	if a.lastErr != nil {
		rows = append(rows, []string{"API", errStyle.Render(a.lastErr.Error())})
	}

	return cli.RenderTable(cli.Table{Title: "Status", Rows: rows})
}

func (a App) renderEvents() string {
	if len(a.events) == 0 {
		return labelStyle.Render("  No events yet\n")
	}

	// Newest first, capped to what fits a small terminal.
	limit := 10
	if a.height > 30 {
		limit = a.height - 22
	}

	rows := make([][]string, 0, limit)
	for i := len(a.events) - 1; i >= 0 && len(rows) < limit; i-- {
		ev := a.events[i]
		detail := ev.Detail
		if ev.RefNo != "" {
			detail = ev.RefNo
			if ev.Amount != "" {
				detail += "  +" + ev.Amount
			}
		}
		rows = append(rows, []string{
			ev.Timestamp.Local().Format("15:04:05"),
			ev.Type,
			detail,
		})
	}

	return cli.RenderTable(cli.Table{
		Title:   "Recent events",
		Headers: []string{"Time", "Type", "Detail"},
		Rows:    rows,
	})
}
