package workers

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestShellExecutor(t *testing.T) {
	skipWithoutShell(t)

	tests := []struct {
		name       string
		payload    any
		wantOutput string
		wantErr    string
	}{
		{name: "echo", payload: CommandPayload{Command: "echo hello"}, wantOutput: "hello"},
		{name: "env passed", payload: CommandPayload{Command: `echo "$CRONEX_JOB_ID"`, Env: []string{"CRONEX_JOB_ID=job-7"}}, wantOutput: "job-7"},
		{name: "stderr captured", payload: CommandPayload{Command: "echo oops >&2; exit 3"}, wantOutput: "oops", wantErr: "command failed"},
		{name: "empty command", payload: CommandPayload{Command: "  "}, wantErr: "empty command"},
		{name: "wrong payload", payload: "echo hello", wantErr: "expected CommandPayload"},
	}

	exec := ShellExecutor("/bin/sh", 5*time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := exec(context.Background(), Task{ID: "t", Payload: tt.payload})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOutput, out)
		})
	}
}

func TestShellExecutor_Timeout(t *testing.T) {
	skipWithoutShell(t)

	exec := ShellExecutor("/bin/sh", 50*time.Millisecond)
	start := time.Now()
	_, err := exec(context.Background(), Task{Payload: CommandPayload{Command: "sleep 5"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, strings.Repeat("x", 10)+"...(truncated)", truncate(long, 10))
}
