package workers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxOutputBytes bounds the command output kept in a Result.
const maxOutputBytes = 4096

// CommandPayload is the Task payload understood by ShellExecutor.
type CommandPayload struct {
	Command string
	Env     []string // extra KEY=VALUE pairs
}

// ShellExecutor returns a TaskExecutor that runs the payload command with
// `shell -c`. A positive timeout bounds every run.
func ShellExecutor(shell string, timeout time.Duration) TaskExecutor {
	return func(ctx context.Context, task Task) (string, error) {
		payload, ok := task.Payload.(CommandPayload)
		if !ok {
			return "", fmt.Errorf("invalid task payload: expected CommandPayload, got %T", task.Payload)
		}
		if strings.TrimSpace(payload.Command) == "" {
			return "", errors.New("empty command")
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		cmd := exec.CommandContext(ctx, shell, "-c", payload.Command)
		cmd.Env = append(os.Environ(), payload.Env...)
		cmd.WaitDelay = time.Second

		out, err := cmd.CombinedOutput()
		output := truncate(strings.TrimSpace(string(out)), maxOutputBytes)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output, fmt.Errorf("command interrupted: %w", ctxErr)
		}
		if err != nil {
			return output, fmt.Errorf("command failed: %w", err)
		}
		return output, nil
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
