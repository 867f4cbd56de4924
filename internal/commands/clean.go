package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/illmaticmd/csrmon/internal/runlog"
)

func newCleanCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean [input]",
		Short: "Parse a tiered roster into a cleaned CSV",
		Long: `Parse a tiered roster into a flat CSV with columns
Tier, Ticker, Company, Reason, Estimated_Value.

The input defaults to input.path from the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Input.Path
			if len(args) > 0 {
				input = args[0]
			}
			if output == "" {
				output = filepath.Join(a.cfg.Output.Dir, a.cfg.Output.Cleaned)
			}
			return a.runClean(input, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (default <output.dir>/<output.cleaned>)")

	return cmd
}

func (a *app) runClean(input, output string) error {
	fmt.Printf("Reading %s...\n", input)

	res, err := a.load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d companies.\n", len(res.Records))
	if n := len(res.Discards); n > 0 {
		fmt.Printf("Discarded %d lines (see log).\n", n)
	}

	if err := writeCleaned(output, res.Records); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", output)

	run := newRun("clean")
	entries := run.Discards(filepath.Base(input), res.Discards)
	entries = append(entries, run.Entry(runlog.ActionExport, output, fmt.Sprintf("%d records", len(res.Records))))
	a.appendLog(a.root, entries)

	return nil
}
