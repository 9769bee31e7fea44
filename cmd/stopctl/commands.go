package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"securecheck/prediction"
	"securecheck/services"
	"securecheck/stats"
	"securecheck/table"

	"github.com/spf13/cobra"
)

const (
	noDataNotice      = "No data available."
	noQueryDataNotice = "No data available for this query."
)

type opener func() (*services.Dashboard, func(), error)

type predictFlags struct {
	gender   string
	age      int
	search   bool
	duration string
	drugs    bool
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "stopctl",
		Short:         "Inspect SecureCheck traffic stops from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newQueriesCmd(open),
		newQueryCmd(open),
		newStatsCmd(open),
		newPredictCmd(open),
	)
	return root
}

func newQueriesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the canned SQL catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			cat := dash.Catalog()
			w := cmd.OutOrStdout()
			for _, s := range cat.Sections() {
				fmt.Fprintf(w, "%s\n", s.Title)
				for _, q := range cat.InSection(s.ID) {
					fmt.Fprintf(w, "  %-32s %s\n", q.ID, q.Label)
				}
			}
			return nil
		},
	}
}

func newQueryCmd(open opener) *cobra.Command {
	var showSQL bool
	cmd := &cobra.Command{
		Use:   "query <id>",
		Short: "Run one catalog query and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			w := cmd.OutOrStdout()
			if showSQL {
				q, err := dash.Catalog().Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, q.SQL)
				return nil
			}

			res, err := dash.RunQuery(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\n\n", res.Query.Label)
			if res.Table.Empty() {
				fmt.Fprintln(w, noQueryDataNotice)
				return nil
			}
			return writeTable(w, res.Table)
		},
	}
	cmd.Flags().BoolVar(&showSQL, "sql", false, "Print the SQL text instead of running it")
	return cmd
}

func newStatsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the essential statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			stops := dash.Stops(cmd.Context())
			if stops.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), noDataNotice)
			}
			s := stats.Summarize(stops)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, p := range stats.MetricsSeries(s).Points {
				fmt.Fprintf(tw, "%s\t%d\n", p.Label, p.Value)
			}
			fmt.Fprintf(tw, "Average Driver Age\t%.1f\n", s.AverageDriverAge)
			return tw.Flush()
		},
	}
}

func newPredictCmd(open opener) *cobra.Command {
	var f predictFlags
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the outcome and violation for a stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.gender != "M" && f.gender != "F" {
				return fmt.Errorf("--gender must be M or F, got %q", f.gender)
			}

			dash, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			res := dash.Predict(cmd.Context(), prediction.Candidate{
				Gender:          f.gender,
				Age:             f.age,
				SearchConducted: f.search,
				StopDuration:    f.duration,
				DrugsRelated:    f.drugs,
			})

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Predicted Stop Outcome: %s\n", res.Outcome)
			fmt.Fprintf(w, "Predicted Violation:    %s\n", res.Violation)
			fmt.Fprintf(w, "Matching rows found:    %d\n", res.Matches)
			if res.Fallback {
				fmt.Fprintln(w, "(no matching history, default prediction)")
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.gender, "gender", "M", "Driver gender: M or F")
	fl.IntVar(&f.age, "age", 30, "Driver age")
	fl.BoolVar(&f.search, "search", false, "A search was conducted")
	fl.StringVar(&f.duration, "duration", stats.DefaultDurations[0], "Stop duration")
	fl.BoolVar(&f.drugs, "drugs", false, "The stop was drugs related")
	return cmd
}

func writeTable(w io.Writer, t table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			if table.IsAbsent(v) {
				cells[i] = "-"
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
