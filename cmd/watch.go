package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/bank"
	"github.com/tdnguyendev/mbwatch/internal/config"
	"github.com/tdnguyendev/mbwatch/internal/logging"
	"github.com/tdnguyendev/mbwatch/internal/monitor"
	"github.com/tdnguyendev/mbwatch/internal/store"
	"github.com/tdnguyendev/mbwatch/internal/telegram"
	"github.com/tdnguyendev/mbwatch/internal/weather"
)

type watchRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Account   string    `json:"account,omitempty"`
}

var (
	flagWatchAddr         string
	flagWatchInterval     time.Duration
	flagWatchDetach       bool
	flagWatchPIDFile      string
	flagWatchLogFile      string
	flagWatchEventsBuffer int
	flagWatchChild        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <username> <password>",
	Short: "Run the transaction monitor with HTTP/SSE status endpoints",
	Long: "Poll the bank account for new transactions during operating hours and " +
		"forward notifications to the configured Telegram group. Credentials are " +
		"taken from the command line only and never written to disk.",
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running monitor",
	Args:  cobra.NoArgs,
	RunE:  runWatchStop,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show monitor process and API status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "mbwatch.pid")
	defaultLog := filepath.Join(config.DataDir(), "mbwatch.log")

	watchCmd.PersistentFlags().StringVar(&flagWatchAddr, "addr", "", "HTTP listen address (default from config)")
	watchCmd.PersistentFlags().DurationVar(&flagWatchInterval, "interval", 0, "Polling interval (default from config)")
	watchCmd.PersistentFlags().StringVar(&flagWatchPIDFile, "pid-file", defaultPID, "PID file path")
	watchCmd.PersistentFlags().StringVar(&flagWatchLogFile, "log-file", defaultLog, "Log file path for detached mode")
	watchCmd.PersistentFlags().IntVar(&flagWatchEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	watchCmd.Flags().BoolVar(&flagWatchDetach, "detach", false, "Run the monitor as a background process")
	watchCmd.Flags().BoolVar(&flagWatchChild, "child", false, "Internal: mark detached child process")
	_ = watchCmd.Flags().MarkHidden("child")

	watchCmd.AddCommand(watchStopCmd)
	watchCmd.AddCommand(watchStatusCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	if flagWatchDetach && flagWatchChild {
		return errors.New("invalid monitor launch mode")
	}

	if flagWatchDetach {
		return startWatchDetached()
	}

	return runWatchForeground(args[0], args[1])
}

func startWatchDetached() error {
	if err := ensureMonitorNotRunning(flagWatchPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagWatchPIDFile), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagWatchLogFile), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	logf, err := os.OpenFile(flagWatchLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open monitor log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...)
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached monitor: %w", err)
	}

	fmt.Printf("  Started monitor (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagWatchPIDFile)
	fmt.Printf("  Log: %s\n", flagWatchLogFile)
	fmt.Printf("  Stop with: mbwatch watch stop\n")
	return nil
}

func runWatchForeground(username, password string) error {
	if err := ensureMonitorNotRunning(flagWatchPIDFile); err != nil {
		return err
	}

	cfg := loadConfigOrDefault()

	token, groupID, err := requireNotifierConfig(cfg)
	if err != nil {
		return err
	}
	notifier := telegram.NewClient(token, groupID)

	window, err := cfg.Monitor.OperatingWindow()
	if err != nil {
		return fmt.Errorf("invalid operating window: %w", err)
	}

	bankClient, err := bank.NewClient(username, password)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.Monitor.LogLevel, cfg.Monitor.LogFile)
	if err != nil {
		return err
	}

	var weatherSrc monitor.WeatherSource
	coordinates := config.GetCoordinates(cfg)
	if wc := weather.NewClient(config.GetWeatherAPIKey(cfg)); wc != nil && coordinates != "" {
		weatherSrc = wc
	} else {
		logger.Warn("weather is not configured, skipping weather reports")
	}

	if err := os.MkdirAll(config.DataDir(), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tracker, err := store.Open(filepath.Join(config.DataDir(), "tracker.db"))
	if err != nil {
		return fmt.Errorf("open transaction store: %w", err)
	}
	defer func() { _ = tracker.Close() }()

	addr := cfg.Monitor.Addr
	if flagWatchAddr != "" {
		addr = flagWatchAddr
	}
	interval := time.Duration(cfg.Monitor.IntervalSecs) * time.Second
	if flagWatchInterval > 0 {
		interval = flagWatchInterval
	}

	pid := os.Getpid()
	if err := writePID(flagWatchPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagWatchPIDFile) }()

	state := watchRuntimeState{
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now(),
		Account:   config.GetAccountDisplay(cfg),
	}
	_ = writeState(statePath(flagWatchPIDFile), state)
	defer func() { _ = os.Remove(statePath(flagWatchPIDFile)) }()

	svc := monitor.New(monitor.Config{
		Account:         config.GetAccountDisplay(cfg),
		Coordinates:     coordinates,
		Window:          window,
		Interval:        interval,
		WeatherInterval: time.Duration(cfg.Monitor.WeatherIntervalSecs) * time.Second,
		Addr:            addr,
		EventsBuffer:    flagWatchEventsBuffer,
	}, bankClient, notifier, weatherSrc, tracker, logger)

	if !flagQuiet {
		fmt.Printf("  mbwatch listening on http://%s\n", addr)
		fmt.Printf("  Polling every %s within %s\n", interval, window)
		fmt.Printf("  Stop with: mbwatch watch stop --pid-file %s\n", flagWatchPIDFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runWatchStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		return errors.New("monitor is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find monitor process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal monitor process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagWatchPIDFile)
			_ = os.Remove(statePath(flagWatchPIDFile))
			fmt.Printf("  Stopped monitor (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("monitor (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureMonitorNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("monitor already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st watchRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (watchRuntimeState, error) {
	var st watchRuntimeState
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
