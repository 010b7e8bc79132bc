package microfsm_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librescoot/microfsm"
)

func TestParseConfig(t *testing.T) {
	cfg, err := microfsm.ParseConfig([]byte(`
name: keyboard
initial: boot
max_transitions: 3
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, microfsm.Config{
		Name:           "keyboard",
		Initial:        "boot",
		MaxTransitions: 3,
		QueueCapacity:  microfsm.DefaultQueueCapacity,
		LogLevel:       "debug",
	}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "bad yaml", input: "initial: [", wantErr: "microfsm: parse config"},
		{name: "missing initial", input: "max_transitions: 1", wantErr: "initial state is required"},
		{name: "zero bound", input: "initial: boot", wantErr: "max_transitions must be greater than zero"},
		{name: "negative queue", input: "initial: boot\nmax_transitions: 1\nqueue_capacity: -1", wantErr: "queue_capacity must not be negative"},
		{name: "bad level", input: "initial: boot\nmax_transitions: 1\nlog_level: loud", wantErr: `unknown log level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := microfsm.ParseConfig([]byte(tt.input))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("FSM_BOUND", "5")
	path := filepath.Join(t.TempDir(), "fsm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial: boot\nmax_transitions: ${FSM_BOUND}\nqueue_capacity: 4\n"), 0o600))

	cfg, err := microfsm.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxTransitions)
	assert.Equal(t, 4, cfg.QueueCapacity)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := microfsm.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
