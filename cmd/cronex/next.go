package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/cron"
)

func newNextCmd() *cobra.Command {
	nextCmd := &cobra.Command{
		Use:   "next <expression>",
		Short: "Print the upcoming instants of an expression",
		Long: `Print the next instants matched by an expression, starting at --from
(inclusive, default now) and evaluated in --zone (default the configured
schedule.timezone). Wall times skipped by a daylight saving transition are
not printed.`,
		Example: `  cronex next "0 0 12 * * *" -n 3
  cronex next "0 30 2 * * *" --zone America/New_York --from 2024-03-09T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: runNext,
	}
	nextCmd.Flags().IntP("count", "n", 0, "number of instants (default schedule.preview_count)")
	nextCmd.Flags().String("from", "", "start instant in RFC3339 (default now)")
	nextCmd.Flags().String("zone", "", "IANA time zone (default schedule.timezone)")
	nextCmd.Flags().StringP("output", "o", outputText, "output format: text, json or yaml")
	return nextCmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		count = cfg.Schedule.PreviewCount
	}

	zone, _ := cmd.Flags().GetString("zone")
	if zone == "" {
		zone = cfg.Schedule.Timezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return fmt.Errorf("invalid zone %q: %w", zone, err)
	}

	from := time.Now()
	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}

	sched, err := cron.Parse(args[0])
	if err != nil {
		return err
	}

	instants := cron.Take(sched.Generate(loc, from), count)

	format, _ := cmd.Flags().GetString("output")
	return render(cmd.OutOrStdout(), format, formatInstants(instants), func(w io.Writer) error {
		for _, t := range instants {
			fmt.Fprintf(w, "%s  %s\n", t.Format(time.RFC3339), t.Format("Mon"))
		}
		if len(instants) < count {
			fmt.Fprint(w, constants.MsgScheduleExhausted)
		}
		return nil
	})
}

func formatInstants(instants []time.Time) []string {
	out := make([]string, len(instants))
	for i, t := range instants {
		out[i] = t.Format(time.RFC3339)
	}
	return out
}
