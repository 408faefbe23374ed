package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/config"
	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/scheduler"
)

func newJobsCmd() *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage scheduled jobs",
		Long:  `Add, list and remove jobs in the job store used by 'cronex serve'.`,
	}

	addCmd := &cobra.Command{
		Use:   "add <expression> <command> | add --at <time> <command>",
		Short: "Add a job",
		Example: `  cronex jobs add "0 0 3 * * *" "backup.sh" --name nightly-backup
  cronex jobs add --at 2030-01-01T00:00:00Z "echo happy new year"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runJobsAdd,
	}
	addCmd.Flags().String("name", "", "human readable job name")
	addCmd.Flags().String("at", "", "run once at this RFC3339 time instead of on a schedule")
	addCmd.Flags().StringToString("meta", nil, "metadata key=value pairs exported to the command")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all jobs",
		Args:  cobra.NoArgs,
		RunE:  runJobsList,
	}
	listCmd.Flags().StringP("output", "o", outputText, "output format: text, json or yaml")

	removeCmd := &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Remove a job",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsRemove,
	}

	jobsCmd.AddCommand(addCmd, listCmd, removeCmd)
	return jobsCmd
}

// openStorage loads the configuration and opens the job store it names.
func openStorage(cmd *cobra.Command) (*config.Config, *scheduler.Storage, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, scheduler.NewStorage(cfg.Jobs.Path, log), nil
}

func runJobsAdd(cmd *cobra.Command, args []string) error {
	_, storage, err := openStorage(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	at, _ := cmd.Flags().GetString("at")
	meta, _ := cmd.Flags().GetStringToString("meta")

	job := scheduler.Job{
		ID:        scheduler.NewJobID(),
		Name:      name,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}

	if at != "" {
		if len(args) != 1 {
			return fmt.Errorf("--at takes exactly one argument: the command")
		}
		executeAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		job.Type = scheduler.JobTypeOneshot
		job.ExecuteAt = &executeAt
		job.Command = args[0]
	} else {
		if len(args) != 2 {
			return fmt.Errorf("expected <expression> <command>")
		}
		job.Type = scheduler.JobTypeRecurring
		job.Schedule = args[0]
		job.Command = args[1]
	}

	if _, err := scheduler.ValidateJob(job); err != nil {
		return err
	}
	if err := storage.Append(job); err != nil {
		return fmt.Errorf(constants.MsgErrorSavingJobs, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, constants.MsgJobAdded)
	printJob(out, job, nil)
	fmt.Fprint(out, constants.MsgJobActivateNote)
	return nil
}

type jobView struct {
	scheduler.Job `yaml:",inline"`
	NextRun       string `json:"next_run,omitempty" yaml:"next_run,omitempty"`
}

func runJobsList(cmd *cobra.Command, args []string) error {
	cfg, storage, err := openStorage(cmd)
	if err != nil {
		return err
	}
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	jobs, err := storage.Load()
	if err != nil {
		return fmt.Errorf(constants.MsgErrorLoadingJobs, err)
	}
	scheduler.SortJobs(jobs)

	now := time.Now()
	views := make([]jobView, len(jobs))
	for i, job := range jobs {
		views[i] = jobView{Job: job}
		if next, ok := nextRun(job, loc, now); ok {
			views[i].NextRun = next.Format(time.RFC3339)
		}
	}

	format, _ := cmd.Flags().GetString("output")
	return render(cmd.OutOrStdout(), format, views, func(w io.Writer) error {
		if len(views) == 0 {
			fmt.Fprint(w, constants.MsgJobsNotFound)
			return nil
		}
		fmt.Fprint(w, constants.MsgJobsListHeader)
		for _, view := range views {
			printJob(w, view.Job, &view.NextRun)
			fmt.Fprint(w, constants.MsgJobsListSep)
		}
		fmt.Fprintf(w, constants.MsgJobsTotal, len(views))
		return nil
	})
}

func runJobsRemove(cmd *cobra.Command, args []string) error {
	_, storage, err := openStorage(cmd)
	if err != nil {
		return err
	}

	jobID := args[0]
	removed, err := storage.Remove(jobID)
	if err != nil {
		return fmt.Errorf(constants.MsgErrorSavingJobs, err)
	}
	if !removed {
		fmt.Fprint(cmd.OutOrStdout(), constants.MsgJobNotFoundHint)
		return fmt.Errorf(constants.MsgErrorJobNotFound, jobID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), constants.MsgJobRemoved, jobID)
	return nil
}

// printJob writes the text form of a job. nextRun is printed when non-nil.
func printJob(w io.Writer, job scheduler.Job, nextRun *string) {
	fmt.Fprintf(w, constants.MsgJobID, job.ID)
	if job.Name != "" {
		fmt.Fprintf(w, constants.MsgJobName, job.Name)
	}
	if job.Type == scheduler.JobTypeOneshot && job.ExecuteAt != nil {
		runAt := job.ExecuteAt.Format(time.RFC3339)
		if job.Executed {
			runAt += " (" + constants.MsgJobExecuted + ")"
		}
		fmt.Fprintf(w, constants.MsgJobRunAt, runAt)
	} else {
		fmt.Fprintf(w, constants.MsgJobSchedule, job.Schedule)
	}
	if nextRun != nil {
		next := *nextRun
		if next == "" {
			next = constants.MsgScheduleNever
		}
		fmt.Fprintf(w, constants.MsgJobNextRun, next)
	}
	fmt.Fprintf(w, constants.MsgJobCommand, job.Command)
	if len(job.Metadata) > 0 {
		fmt.Fprint(w, constants.MsgJobsMetadata)
		for _, k := range slices.Sorted(maps.Keys(job.Metadata)) {
			fmt.Fprintf(w, "%s=%s ", k, job.Metadata[k])
		}
		fmt.Fprintln(w)
	}
}

// nextRun returns the next run of a stored job after now.
func nextRun(job scheduler.Job, loc *time.Location, now time.Time) (time.Time, bool) {
	if job.Type == scheduler.JobTypeOneshot {
		if job.Executed || job.ExecuteAt == nil {
			return time.Time{}, false
		}
		return *job.ExecuteAt, true
	}
	sched, err := scheduler.ValidateJob(job)
	if err != nil || sched == nil {
		return time.Time{}, false
	}
	return sched.Next(loc, now)
}
