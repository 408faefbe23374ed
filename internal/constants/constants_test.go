package constants

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathConstants(t *testing.T) {
	assert.Equal(t, "./.env", DefaultEnvPath)
	assert.Equal(t, "./config.toml", DefaultConfigPath)
	assert.True(t, strings.HasSuffix(DefaultJobsPath, JobsFile))
	assert.True(t, strings.HasPrefix(DefaultJobsPath, "~/"))
}

func TestMessageFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		arg    any
		want   string
	}{
		{name: "job id", format: MsgJobID, arg: "abc", want: "   ID:       abc\n"},
		{name: "job removed", format: MsgJobRemoved, arg: "abc", want: "✅ Job 'abc' removed successfully\n"},
		{name: "jobs total", format: MsgJobsTotal, arg: 3, want: "Total: 3 job(s)\n"},
		{name: "job not found", format: MsgErrorJobNotFound, arg: "abc", want: "job 'abc' not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fmt.Sprintf(tt.format, tt.arg))
		})
	}
}

func TestWrappingMessages(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := fmt.Errorf(MsgErrorSavingJobs, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error saving job: disk full", err.Error())
}
