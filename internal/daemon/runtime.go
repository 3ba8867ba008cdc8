package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// RuntimeState describes a running daemon. It is written next to the pid
// file so status and stop can find the API and report what it serves.
type RuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
	DataDir   string    `json:"data_dir"`
	Schedule  string    `json:"schedule"`
}

// ErrNotRunning is returned when no live daemon owns the pid file.
var ErrNotRunning = errors.New("daemon is not running")

// PIDFile guards a single daemon per data directory.
type PIDFile string

func (f PIDFile) statePath() string { return string(f) + ".json" }

// Claim records st as the running daemon. It fails if another live process
// already holds the file; a stale file is replaced.
func (f PIDFile) Claim(st RuntimeState) error {
	if running, err := f.Running(); err == nil {
		return fmt.Errorf("daemon already running (pid %d, %s backend)", running.PID, running.Backend)
	} else if !errors.Is(err, ErrNotRunning) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(f)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(string(f), []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.statePath(), append(data, '\n'), 0o600)
}

// Release removes the pid and state files.
func (f PIDFile) Release() {
	_ = os.Remove(string(f))
	_ = os.Remove(f.statePath())
}

// Running returns the state of the live daemon, or ErrNotRunning. Stale
// files left by a crashed process are cleaned up.
func (f PIDFile) Running() (RuntimeState, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(string(f))
	if errors.Is(err, os.ErrNotExist) {
		return RuntimeState{}, ErrNotRunning
	}
	if err != nil {
		return RuntimeState{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return RuntimeState{}, fmt.Errorf("invalid pid in %s", f)
	}
	if !processAlive(pid) {
		f.Release()
		return RuntimeState{}, ErrNotRunning
	}

	st := RuntimeState{PID: pid}
	//nolint:gosec // state path sits next to the pid file
	if raw, err := os.ReadFile(f.statePath()); err == nil {
		_ = json.Unmarshal(raw, &st)
		st.PID = pid
	}
	return st, nil
}

// Stop signals the daemon and waits for it to exit.
func (f PIDFile) Stop(ctx context.Context) (RuntimeState, error) {
	st, err := f.Running()
	if err != nil {
		return st, err
	}
	proc, err := os.FindProcess(st.PID)
	if err != nil {
		return st, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return st, fmt.Errorf("signal daemon process: %w", err)
	}

	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	for {
		if !processAlive(st.PID) {
			f.Release()
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, fmt.Errorf("daemon (pid %d) did not exit in time: %w", st.PID, ctx.Err())
		case <-tick.C:
		}
	}
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// FetchStatus asks a running daemon at addr for its status.
func FetchStatus(ctx context.Context, addr string) (Status, error) {
	var st Status

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}
