package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/daemon"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background portfolio monitor with HTTP/SSE endpoints",
	Long: "Serve portfolio summaries, maturities and the FIRE projection over HTTP, " +
		"refreshing from the store on a cron schedule.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and portfolio snapshot",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.StringVar(&flagDaemonSchedule, "schedule", "", `Refresh schedule in cron syntax, e.g. "@every 30s" (default from config)`)
	pf.StringVar(&flagDaemonPIDFile, "pid-file", "", "PID file path (default <data-dir>/fireledgerd.pid)")
	pf.StringVar(&flagDaemonLogFile, "log-file", "", "Log file for detached mode (default <data-dir>/fireledgerd.log)")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonConfig merges the [daemon] config section with command-line flags.
func daemonConfig(cfg config.Config) daemon.Config {
	dc := daemon.Config{
		Addr:          cfg.Daemon.Addr,
		Schedule:      cfg.Daemon.RefreshSchedule,
		EventsBuffer:  cfg.Daemon.EventsBuffer,
		HorizonMonths: cfg.General.HorizonMonths,
		Backend:       cfg.Storage.Backend,
	}
	if flagDaemonAddr != "" {
		dc.Addr = flagDaemonAddr
	}
	if flagDaemonSchedule != "" {
		dc.Schedule = flagDaemonSchedule
	}
	if flagDaemonEventsBuffer > 0 {
		dc.EventsBuffer = flagDaemonEventsBuffer
	}
	return dc
}

// daemonFiles places the pid and log files in the data directory, so each
// portfolio gets its own daemon.
func daemonFiles(cfg config.Config) (daemon.PIDFile, string) {
	dir := cfg.ResolvedDataDir()
	pid := flagDaemonPIDFile
	if pid == "" {
		pid = filepath.Join(dir, "fireledgerd.pid")
	}
	logPath := flagDaemonLogFile
	if logPath == "" {
		logPath = filepath.Join(dir, "fireledgerd.log")
	}
	return daemon.PIDFile(pid), logPath
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	default:
		return runDaemonForeground()
	}
}

// childArgs re-invokes the current command line without --detach.
func childArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return append(out, "--child")
}

func startDaemonDetached() error {
	pidFile, logPath := daemonFiles(appConfig)
	if st, err := pidFile.Running(); err == nil {
		return fmt.Errorf("daemon already running (pid %d on %s)", st.PID, st.Addr)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, childArgs(os.Args[1:])...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	dc := daemonConfig(appConfig)
	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Portfolio: %s (%s)\n", appConfig.ResolvedDataDir(), dc.Backend)
	fmt.Printf("  API: http://%s/v1/summary\n", dc.Addr)
	fmt.Printf("  Log: %s\n", logPath)
	return nil
}

func runDaemonForeground() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	dc := daemonConfig(appConfig)
	pidFile, _ := daemonFiles(appConfig)
	state := daemon.RuntimeState{
		PID:       os.Getpid(),
		Addr:      dc.Addr,
		StartedAt: time.Now(),
		Backend:   dc.Backend,
		DataDir:   appConfig.ResolvedDataDir(),
		Schedule:  dc.Schedule,
	}
	if err := pidFile.Claim(state); err != nil {
		return err
	}
	defer pidFile.Release()

	log := logger.WithFields(logrus.Fields{"pid": state.PID, "backend": state.Backend, "dataDir": state.DataDir})
	if flagDaemonChild {
		log.Info("detached daemon running")
	} else {
		fmt.Printf("  fireledger daemon listening on http://%s\n", dc.Addr)
		fmt.Printf("  Refreshing %s (%s) on %q\n", state.DataDir, state.Backend, dc.Schedule)
		fmt.Println("  Stop with: fireledger daemon stop")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := daemon.New(dc, st, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("daemon stopped")
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	pidFile, _ := daemonFiles(appConfig)
	state, err := pidFile.Running()
	if errors.Is(err, daemon.ErrNotRunning) {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if err != nil {
		return err
	}

	status, statusErr := daemon.FetchStatus(cmd.Context(), state.Addr)
	if flagJSON {
		return printJSON(map[string]any{"process": state, "status": status, "reachable": statusErr == nil})
	}

	fmt.Printf("  Daemon PID: %d, up since %s\n", state.PID, state.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Portfolio: %s (%s)\n", state.DataDir, state.Backend)
	fmt.Printf("  Address: http://%s\n", state.Addr)
	if statusErr != nil {
		fmt.Printf("  API status: %v\n", statusErr)
		return nil
	}
	printDaemonSnapshot(status)
	return nil
}

func printDaemonSnapshot(st daemon.Status) {
	if st.LastRefreshAt.IsZero() {
		fmt.Println("  Last refresh: pending")
	} else {
		fmt.Printf("  Last refresh: %s (%d so far, %s)\n",
			st.LastRefreshAt.Local().Format(time.RFC3339), st.RefreshCount, st.Schedule)
	}
	s := st.Summary
	fmt.Printf("  Records: %d, goals: %d\n", s.Records, s.Goals)
	fmt.Printf("  Invested: %s, at maturity: %s, ROI %s\n",
		cli.FormatAmount(s.TotalPrincipal), cli.FormatAmount(s.TotalMaturity), cli.FormatPercent(float64(s.ROIPercent)))
	fmt.Printf("  Maturing in %d months: %d\n", st.HorizonMonths, s.UpcomingCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
}

func runDaemonStop(cmd *cobra.Command, _ []string) error {
	pidFile, _ := daemonFiles(appConfig)

	// Grab a final snapshot while the API is still up.
	var final *daemon.Status
	if state, err := pidFile.Running(); err == nil {
		if st, err := daemon.FetchStatus(cmd.Context(), state.Addr); err == nil {
			final = &st
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 8*time.Second)
	defer cancel()
	state, err := pidFile.Stop(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("  Stopped daemon (pid %d) serving %s (%s)\n", state.PID, state.DataDir, state.Backend)
	if final != nil {
		fmt.Printf("  Ran %s with %d refreshes; last saw %d records\n",
			time.Since(final.StartedAt).Round(time.Second), final.RefreshCount, final.Summary.Records)
	}
	return nil
}
