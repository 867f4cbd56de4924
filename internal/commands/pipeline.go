package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/illmaticmd/csrmon/internal/importer"
	"github.com/illmaticmd/csrmon/internal/marketdata"
	"github.com/illmaticmd/csrmon/internal/model"
	"github.com/illmaticmd/csrmon/internal/records"
	"github.com/illmaticmd/csrmon/internal/runlog"
	"github.com/illmaticmd/csrmon/internal/store"
)

// newRun starts a run log session for command.
func newRun(command string) runlog.Run {
	return runlog.Run{ID: uuid.NewString(), Command: command}
}

// load parses a roster or exported CSV, logging every discarded line.
func (a *app) load(path string) (model.ParseResult, error) {
	res, format, err := importer.Load(importer.DefaultRegistry(), path)
	if err != nil {
		return model.ParseResult{}, err
	}

	a.logger.Debug("loaded input",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("records", len(res.Records)),
	)
	for _, d := range res.Discards {
		a.logger.Warn("discarded line",
			zap.String("file", path),
			zap.Int("line", d.Line),
			zap.String("reason", string(d.Reason)),
			zap.String("text", d.Text),
		)
	}
	return res, nil
}

// lookup builds the quote client from config.
func (a *app) lookup() *marketdata.Client {
	md := a.cfg.MarketData
	return marketdata.NewClient(md.BaseURL,
		marketdata.WithAPIKey(md.APIKey),
		marketdata.WithTimeout(md.Timeout),
		marketdata.WithRetries(md.MaxRetries, time.Second),
		marketdata.WithLogger(a.logger),
	)
}

// enrich looks up every record, printing a progress line per ticker and a
// warning for each lookup that fell back to defaults.
func (a *app) enrich(ctx context.Context, recs []model.Record) ([]model.EnrichedRecord, []marketdata.Failure) {
	client := a.lookup()
	progress := marketdata.LookupFunc(func(ctx context.Context, ticker string) (model.MarketData, error) {
		fmt.Printf("Fetching data for %s...\n", ticker)
		return client.Lookup(ctx, ticker)
	})

	enriched, failures := marketdata.Enrich(ctx, progress, recs, a.logger)
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "warning: could not fetch data for %q: %v\n", f.Ticker, f.Err)
	}
	return enriched, failures
}

// save writes enriched records to the SQLite store at path.
func (a *app) save(ctx context.Context, path, runID string, recs []model.EnrichedRecord) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, runID, recs); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	a.logger.Info("run stored", zap.String("run_id", runID), zap.String("path", path), zap.Int("records", len(recs)))
	return nil
}

// appendLog writes run log entries under root. Outside a workspace (root
// is empty) nothing is written. Failure is a warning only.
func (a *app) appendLog(root string, entries []runlog.Entry) {
	if root == "" {
		a.logger.Debug("no workspace config, run log skipped", zap.Int("entries", len(entries)))
		return
	}
	if err := runlog.Append(root, entries); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write run log: %v\n", err)
	}
}

func failureEntries(run runlog.Run, failures []marketdata.Failure) []runlog.Entry {
	out := make([]runlog.Entry, 0, len(failures))
	for _, f := range failures {
		out = append(out, run.Entry(runlog.ActionLookupFailed, f.Ticker, f.Err.Error()))
	}
	return out
}

func writeCleaned(path string, recs []model.Record) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := records.WriteRecords(f, recs); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeEnriched(path string, recs []model.EnrichedRecord) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := records.WriteEnriched(f, recs); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
