package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illmaticmd/csrmon/internal/records"
)

func newValidateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Report discarded lines and roster problems",
		Long: `Parse a roster and report every discarded line (malformed headers,
orphan continuations) and every record problem (duplicate tickers, records
before any tier marker, bad ticker shape, empty company). Exits non-zero if
anything is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Input.Path
			if len(args) > 0 {
				input = args[0]
			}
			return a.runValidate(input)
		},
	}

	return cmd
}

func (a *app) runValidate(input string) error {
	res, err := a.load(input)
	if err != nil {
		return err
	}

	for _, d := range res.Discards {
		fmt.Printf("line %d: %s: %s\n", d.Line, d.Reason, d.Text)
	}

	problems := records.Validate(res.Records)
	for _, p := range problems {
		fmt.Println(p.Error())
	}

	total := len(res.Discards) + len(problems)
	if total > 0 {
		return fmt.Errorf("%d problems found in %s", total, input)
	}

	fmt.Printf("%s: %d records, no problems found\n", input, len(res.Records))
	return nil
}
