package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/illmaticmd/csrmon/internal/runlog"
)

func newEnrichCommand(a *app) *cobra.Command {
	var output string
	var save bool

	cmd := &cobra.Command{
		Use:   "enrich [input]",
		Short: "Parse a roster and add sector, industry, price and market cap",
		Long: `Parse a tiered roster (or a cleaned CSV) and look up every ticker with
the quote service in market_data.base_url. Tickers that cannot be
resolved get Sector/Industry "Unknown" and zero price and market cap.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Input.Path
			if len(args) > 0 {
				input = args[0]
			}
			if output == "" {
				output = filepath.Join(a.cfg.Output.Dir, a.cfg.Output.Enriched)
			}
			if !cmd.Flags().Changed("store") {
				save = a.cfg.Store.Enabled
			}
			return a.runEnrich(cmd.Context(), input, output, save)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (default <output.dir>/<output.enriched>)")
	cmd.Flags().BoolVar(&save, "store", false, "also save the run to the SQLite store (default store.enabled)")

	return cmd
}

func (a *app) runEnrich(ctx context.Context, input, output string, save bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := a.load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d companies. Fetching market data...\n", len(res.Records))

	enriched, failures := a.enrich(ctx, res.Records)

	if err := writeEnriched(output, enriched); err != nil {
		return err
	}
	fmt.Printf("Enriched %d companies (%d lookups failed).\n", len(enriched), len(failures))
	fmt.Printf("Wrote %s\n", output)

	run := newRun("enrich")
	entries := run.Discards(filepath.Base(input), res.Discards)
	entries = append(entries, failureEntries(run, failures)...)
	entries = append(entries, run.Entry(runlog.ActionExport, output, fmt.Sprintf("%d records", len(enriched))))

	if save {
		if err := a.save(ctx, a.cfg.Store.Path, run.ID, enriched); err != nil {
			return err
		}
		fmt.Printf("Saved run %s to %s\n", run.ID, a.cfg.Store.Path)
		entries = append(entries, run.Entry(runlog.ActionStored, a.cfg.Store.Path, fmt.Sprintf("%d records", len(enriched))))
	}

	a.appendLog(a.root, entries)
	return nil
}
