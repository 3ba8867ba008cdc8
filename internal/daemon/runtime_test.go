package daemon

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFileClaimAndRelease(t *testing.T) {
	f := PIDFile(filepath.Join(t.TempDir(), "run", "fireledgerd.pid"))

	_, err := f.Running()
	require.ErrorIs(t, err, ErrNotRunning)

	st := RuntimeState{
		PID:       os.Getpid(),
		Addr:      "127.0.0.1:8797",
		StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Backend:   "sqlite",
		DataDir:   "/data",
		Schedule:  "@every 1m",
	}
	require.NoError(t, f.Claim(st))

	got, err := f.Running()
	require.NoError(t, err)
	assert.Equal(t, st.PID, got.PID)
	assert.Equal(t, "sqlite", got.Backend)
	assert.Equal(t, "@every 1m", got.Schedule)

	err = f.Claim(st)
	assert.ErrorContains(t, err, "already running")
	assert.ErrorContains(t, err, "sqlite backend")

	f.Release()
	_, err = f.Running()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestPIDFileStaleIsCleanedUp(t *testing.T) {
	f := PIDFile(filepath.Join(t.TempDir(), "d.pid"))
	// Max pid on Linux is 2^22, so this one is never alive.
	require.NoError(t, os.WriteFile(string(f), []byte("99999999\n"), 0o600))
	require.NoError(t, os.WriteFile(f.statePath(), []byte(`{"pid":99999999}`), 0o600))

	_, err := f.Running()
	require.ErrorIs(t, err, ErrNotRunning)
	assert.NoFileExists(t, string(f))
	assert.NoFileExists(t, f.statePath())

	require.NoError(t, f.Claim(RuntimeState{PID: os.Getpid()}))
}

func TestPIDFileInvalidContents(t *testing.T) {
	f := PIDFile(filepath.Join(t.TempDir(), "d.pid"))
	require.NoError(t, os.WriteFile(string(f), []byte("nope\n"), 0o600))

	_, err := f.Running()
	assert.ErrorContains(t, err, "invalid pid")
}

func TestStopWithoutDaemon(t *testing.T) {
	f := PIDFile(filepath.Join(t.TempDir(), "d.pid"))
	_, err := f.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestFetchStatus(t *testing.T) {
	s, _ := newTestService(t)
	s.Refresh(context.Background())
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	st, err := FetchStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.RefreshCount)
	assert.Equal(t, 0, st.Summary.Records)

	_, err = FetchStatus(context.Background(), "127.0.0.1:1")
	assert.ErrorContains(t, err, "unreachable")
}
