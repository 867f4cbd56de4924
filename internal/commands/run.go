package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illmaticmd/csrmon/internal/config"
	"github.com/illmaticmd/csrmon/internal/importer"
	"github.com/illmaticmd/csrmon/internal/model"
	"github.com/illmaticmd/csrmon/internal/runlog"
)

func newRunCommand(a *app) *cobra.Command {
	var repoDir string
	var skipEnrich bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every roster waiting in import/",
		Long: `Parse every CSV in <repo>/import/, write the combined cleaned (and
enriched) exports to <repo>/<output.dir>, move the inputs to
import/processed/ and append what happened to logs/run-log.csv.

Unless --config is given, the config is read from <repo>/csrmon.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if !cmd.Flags().Changed("config") {
				if err := a.setup(filepath.Join(absDir, config.FileName)); err != nil {
					return err
				}
			}
			return a.runBatch(cmd.Context(), absDir, skipEnrich)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&skipEnrich, "skip-enrich", false, "write only the cleaned export")

	return cmd
}

func (a *app) runBatch(ctx context.Context, repoRoot string, skipEnrich bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to import.")
		return nil
	}

	run := newRun("run")
	var entries []runlog.Entry
	var all []model.Record

	for _, f := range files {
		res, err := a.load(f.Path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d companies, %d lines discarded\n", f.Name, len(res.Records), len(res.Discards))
		entries = append(entries, run.Discards(f.Name, res.Discards)...)
		all = append(all, res.Records...)
	}

	outDir := inRepo(repoRoot, a.cfg.Output.Dir)
	cleanedPath := filepath.Join(outDir, a.cfg.Output.Cleaned)
	if err := writeCleaned(cleanedPath, all); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cleanedPath)
	entries = append(entries, run.Entry(runlog.ActionExport, cleanedPath, fmt.Sprintf("%d records", len(all))))

	if !skipEnrich {
		enriched, failures := a.enrich(ctx, all)

		enrichedPath := filepath.Join(outDir, a.cfg.Output.Enriched)
		if err := writeEnriched(enrichedPath, enriched); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d lookups failed)\n", enrichedPath, len(failures))
		entries = append(entries, failureEntries(run, failures)...)
		entries = append(entries, run.Entry(runlog.ActionExport, enrichedPath, fmt.Sprintf("%d records", len(enriched))))

		if a.cfg.Store.Enabled {
			storePath := inRepo(repoRoot, a.cfg.Store.Path)
			if err := a.save(ctx, storePath, run.ID, enriched); err != nil {
				return err
			}
			entries = append(entries, run.Entry(runlog.ActionStored, storePath, fmt.Sprintf("%d records", len(enriched))))
		}
	}

	for _, f := range files {
		if err := importer.MarkProcessed(repoRoot, f.Name); err != nil {
			return err
		}
		entries = append(entries, run.Entry(runlog.ActionProcessed, f.Name, ""))
	}

	a.appendLog(repoRoot, entries)
	a.logger.Info("run complete",
		zap.String("run_id", run.ID),
		zap.Int("files", len(files)),
		zap.Int("records", len(all)),
	)

	fmt.Printf("Processed %d files, %d companies (run %s).\n", len(files), len(all), run.ID)
	return nil
}

// inRepo resolves a config path against the workspace root.
func inRepo(repoRoot, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(repoRoot, p)
}
