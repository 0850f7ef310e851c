package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/i474232898/weatherdash/internal/weather"
)

type generateOptions struct {
	Seed   uint64
	Format string `validate:"oneof=table json"`
	Search string
	Temp   string `validate:"oneof=all high low"`
	Time   string `validate:"oneof=all morning evening"`
}

func NewGenerateCommand() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a generated record set with its statistics",
		Long:  "Generates the 20-day synthetic record set, applies the filters and prints the summary statistics and visible records.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Struct(opts); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			var genOpts []weather.GeneratorOption
			if cmd.Flags().Changed("seed") {
				genOpts = append(genOpts, weather.WithSeed(opts.Seed))
			}

			records := weather.NewGenerator(genOpts...).Generate()
			view := weather.DeriveView(records, weather.FilterState{
				Search: opts.Search,
				Temp:   weather.TempBucket(opts.Temp),
				Time:   weather.TimeBucket(opts.Time),
			})

			return writeView(cmd.OutOrStdout(), opts.Format, view)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for reproducible output (random when unset)")
	cmd.Flags().StringVar(&opts.Format, "format", "table", "output format (table, json)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive date substring")
	cmd.Flags().StringVar(&opts.Temp, "temp", "all", "temperature bucket (all, high, low)")
	cmd.Flags().StringVar(&opts.Time, "time", "all", "time bucket (all, morning, evening)")

	return cmd
}

func writeView(w io.Writer, format string, view weather.View) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Fprintf(w, "Average Temperature: %.1f°F\n", view.Mean)
	fmt.Fprintf(w, "Highest Temperature: %.1f°F\n", view.Max)
	fmt.Fprintf(w, "Lowest Temperature:  %.1f°F\n", view.Min)
	fmt.Fprintf(w, "Showing %d of %d days\n\n", len(view.Visible), view.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTEMPERATURE\tHIGH\tLOW\tSUNRISE\tSUNSET\tCONDITIONS")
	for _, r := range view.Visible {
		fmt.Fprintf(tw, "%s\t%s°F\t%s°F\t%s°F\t%s\t%s\t%s\n",
			r.Date, r.Temp, r.HighTemp, r.LowTemp, r.Sunrise, r.Sunset, r.Conditions)
	}
	return tw.Flush()
}
