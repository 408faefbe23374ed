package constants

// Text printed by the cronex CLI.

// Config messages
const (
	// MsgConfigLoadError is the error message when configuration loading fails.
	MsgConfigLoadError = "❌ Failed to load configuration: %v\n"

	// MsgConfigValidationError is the message when configuration validation fails.
	MsgConfigValidationError = "❌ Configuration validation failed:\n"

	// MsgConfigValid is the message when configuration is successfully loaded and validated.
	MsgConfigValid = "✅ Configuration is valid: %s\n"

	// MsgConfigValidatePrefix is the prefix for configuration validation errors.
	MsgConfigValidatePrefix = "  - %v\n"
)

// Error messages
const (
	// MsgErrorLoadingJobs is the error message when the job store cannot be loaded.
	MsgErrorLoadingJobs = "error loading jobs: %w"

	// MsgErrorSavingJobs is the error message when a job cannot be saved.
	MsgErrorSavingJobs = "error saving job: %w"

	// MsgErrorJobNotFound is the error message when a specific job is not found.
	MsgErrorJobNotFound = "job '%s' not found"

	// MsgErrorUnknownOutput is the error for an unsupported --output value.
	MsgErrorUnknownOutput = "unknown output format %q (expected: text, json, yaml)"
)

// Job messages
const (
	// MsgJobAdded is the success message when a job is added.
	MsgJobAdded = "✅ Job added successfully\n"

	// MsgJobID is the label for the job ID field.
	MsgJobID = "   ID:       %s\n"

	// MsgJobName is the label for the job name field.
	MsgJobName = "   Name:     %s\n"

	// MsgJobSchedule is the label for the job schedule field.
	MsgJobSchedule = "   Schedule: %s\n"

	// MsgJobRunAt is the label for a oneshot job execution time.
	MsgJobRunAt = "   Run at:   %s\n"

	// MsgJobNextRun is the label for the next planned run.
	MsgJobNextRun = "   Next run: %s\n"

	// MsgJobCommand is the label for the job command field.
	MsgJobCommand = "   Command:  %s\n"

	// MsgJobActivateNote is the note about activating a job.
	MsgJobActivateNote = "\nNote: Start 'cronex serve' to activate this job\n"

	// MsgJobRemoved is the success message when a job is removed.
	MsgJobRemoved = "✅ Job '%s' removed successfully\n"

	// MsgJobNotFoundHint is the hint when a job is not found.
	MsgJobNotFoundHint = "Use 'cronex jobs list' to see all jobs\n"
)

// Jobs list messages
const (
	// MsgJobsListHeader is the header for the jobs list display.
	MsgJobsListHeader = "Scheduled Jobs:\n-----------------\n"

	// MsgJobsListSep is the separator between jobs in the list.
	MsgJobsListSep = "-----------------\n"

	// MsgJobsMetadata is the label for job metadata.
	MsgJobsMetadata = "   Metadata: "

	// MsgJobsTotal is the message showing the total count of jobs.
	MsgJobsTotal = "Total: %d job(s)\n"

	// MsgJobsNotFound is the message when no jobs are found.
	MsgJobsNotFound = "No scheduled jobs found.\n"

	// MsgJobExecuted marks a oneshot job that already ran.
	MsgJobExecuted = "executed"
)

// Schedule messages
const (
	// MsgScheduleExhausted is printed when an expression has no more instants.
	MsgScheduleExhausted = "(no further instants)\n"

	// MsgScheduleNever is shown in place of a next run that does not exist.
	MsgScheduleNever = "never"
)
