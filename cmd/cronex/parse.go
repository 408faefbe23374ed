package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/cron"
)

type fieldDescription struct {
	Kind   string `json:"kind" yaml:"kind"`
	Token  string `json:"token" yaml:"token"`
	Values string `json:"values" yaml:"values"`
	Count  int    `json:"count" yaml:"count"`
}

type scheduleDescription struct {
	Expression string             `json:"expression" yaml:"expression"`
	Canonical  string             `json:"canonical" yaml:"canonical"`
	Fields     []fieldDescription `json:"fields" yaml:"fields"`
}

func newParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression and show its fields",
		Long: `Parse a cron expression of 4 to 7 fields and print the canonical
seven-field form with the values every field matches.

Field order: seconds minutes hours day-of-week day-of-month month year.`,
		Example: `  cronex parse "0 15 12 wed * oct 2018"
  cronex parse --output yaml "*/15 9-17 * * *"`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseCmd.Flags().StringP("output", "o", outputText, "output format: text, json or yaml")
	return parseCmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")

	sched, err := cron.Parse(args[0])
	if err != nil {
		return err
	}

	desc := describe(sched)
	return render(cmd.OutOrStdout(), format, desc, func(w io.Writer) error {
		fmt.Fprintf(w, "expression: %s\n", desc.Expression)
		fmt.Fprintf(w, "canonical:  %s\n", desc.Canonical)
		for _, f := range desc.Fields {
			fmt.Fprintf(w, "%-13s %-12s %s\n", f.Kind, f.Token, f.Values)
		}
		return nil
	})
}

func describe(sched *cron.Schedule) scheduleDescription {
	desc := scheduleDescription{
		Expression: sched.Expression(),
		Canonical:  sched.String(),
		Fields:     make([]fieldDescription, 0, len(cron.Kinds)),
	}
	for _, kind := range cron.Kinds {
		set := sched.Field(kind)
		values := set.Values()
		desc.Fields = append(desc.Fields, fieldDescription{
			Kind:   kind.String(),
			Token:  set.String(),
			Values: compactValues(values),
			Count:  len(values),
		})
	}
	return desc
}
