package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/tui"
)

var flagTUIAddr string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIAddr, "addr", "", "Monitor API address (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	addr := flagTUIAddr
	if addr == "" {
		addr = loadConfigOrDefault().Monitor.Addr
		if st, err := readState(statePath(flagWatchPIDFile)); err == nil && st.Addr != "" {
			addr = st.Addr
		}
	}

	// Force TrueColor profile so all styling produces ANSI codes.
	// Without this, lipgloss may default to Ascii profile (no colors).
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(addr)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
