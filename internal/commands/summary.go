package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/illmaticmd/csrmon/internal/model"
	"github.com/illmaticmd/csrmon/internal/records"
	"github.com/illmaticmd/csrmon/internal/store"
	"github.com/illmaticmd/csrmon/internal/summary"
)

func newSummaryCommand(a *app) *cobra.Command {
	var tiers []string
	var sectors []string
	var latest bool
	var runID string

	cmd := &cobra.Command{
		Use:   "summary [enriched.csv]",
		Short: "Print capital, market cap, tier and sector totals",
		Long: `Print the dashboard figures for an enriched export: total committed
capital, average market cap, companies tracked, tier distribution, capital
by sector and a per-company table.

Records come from the enriched CSV (default <output.dir>/<output.enriched>)
or, with --latest or --run, from the SQLite store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(tiers, sectors)
			if err != nil {
				return err
			}

			var recs []model.EnrichedRecord
			switch {
			case latest || runID != "":
				recs, err = a.loadStored(cmd.Context(), runID)
			default:
				input := filepath.Join(a.cfg.Output.Dir, a.cfg.Output.Enriched)
				if len(args) > 0 {
					input = args[0]
				}
				recs, err = readEnrichedFile(input)
			}
			if err != nil {
				return err
			}

			return summary.Render(os.Stdout, summary.Compute(filter.Apply(recs)))
		},
	}

	cmd.Flags().StringArrayVar(&tiers, "tier", nil, "only include this tier (1-4 or label, repeatable)")
	cmd.Flags().StringArrayVar(&sectors, "sector", nil, "only include this sector (repeatable)")
	cmd.Flags().BoolVar(&latest, "latest", false, "summarize the latest run in the store")
	cmd.Flags().StringVar(&runID, "run", "", "summarize a stored run by id")

	return cmd
}

func parseFilter(tiers, sectors []string) (summary.Filter, error) {
	f := summary.Filter{Sectors: sectors}
	for _, s := range tiers {
		t, err := model.ParseTier(s)
		if err != nil {
			return summary.Filter{}, err
		}
		if !t.Valid() {
			return summary.Filter{}, fmt.Errorf("unknown tier %q", s)
		}
		f.Tiers = append(f.Tiers, t)
	}
	return f, nil
}

func readEnrichedFile(path string) ([]model.EnrichedRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("input file not found: %s: %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	recs, err := records.ReadEnriched(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}

// loadStored returns the records of runID, or of the latest run when runID
// is empty.
func (a *app) loadStored(ctx context.Context, runID string) ([]model.EnrichedRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if runID == "" {
		run, err := s.LatestRun(ctx)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}
	fmt.Printf("Run %s\n\n", runID)
	return s.LoadRun(ctx, runID)
}
