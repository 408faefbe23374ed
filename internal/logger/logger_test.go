package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "json to stdout", config: Config{Level: "debug", Format: "json", Output: "stdout"}},
		{name: "text to stderr", config: Config{Level: "info", Format: "text", Output: "stderr"}},
		{name: "upper case level", config: Config{Level: "WARN", Format: "json", Output: "stdout"}},
		{name: "invalid level", config: Config{Level: "verbose", Format: "json", Output: "stdout"}, wantErr: true},
		{name: "invalid format", config: Config{Level: "debug", Format: "xml", Output: "stdout"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cronex.log")

	log, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("written to file", Field{Key: "job_id", Value: "abc"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "abc")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{level: "debug", want: []string{"debug message", "info message", "warn message", "error message"}},
		{level: "info", want: []string{"info message", "warn message", "error message"}},
		{level: "warn", want: []string{"warn message", "error message"}},
		{level: "error", want: []string{"error message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			level, ok := ParseLevel(tt.level)
			require.True(t, ok)
			log, err := NewWithWriter(buf, "json", level)
			require.NoError(t, err)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message", nil)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.want))
			for i, line := range lines {
				assert.Contains(t, line, tt.want[i])
			}
		})
	}
}

func TestLogger_ErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "json", slog.LevelDebug)
	require.NoError(t, err)

	log.Error("job failed", errors.New("exit status 1"), Field{Key: "job_id", Value: "nightly"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job failed", entry["msg"])
	assert.Equal(t, "exit status 1", entry["error"])
	assert.Equal(t, "nightly", entry["job_id"])
}

func TestLogger_ContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "text", slog.LevelDebug)
	require.NoError(t, err)

	ctx := context.Background()
	log.DebugCtx(ctx, "debug ctx")
	log.InfoCtx(ctx, "info ctx")
	log.WarnCtx(ctx, "warn ctx")
	log.ErrorCtx(ctx, "error ctx", errors.New("boom"))

	output := buf.String()
	for _, msg := range []string{"debug ctx", "info ctx", "warn ctx", "error ctx", "boom"} {
		assert.Contains(t, output, msg)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "json", slog.LevelInfo)
	require.NoError(t, err)

	log.With(Field{Key: "component", Value: "scheduler"}).Info("started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Info("discarded")
		log.Error("discarded", errors.New("x"))
	})
	assert.NotNil(t, log.Slog())
}
