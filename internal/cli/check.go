package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"persistent-generator/internal/gen"
)

func (a *app) checkCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Report generated files that are missing or out of date",
		Long: `Regenerates every selected type in memory and compares the result with the
files on disk. A unified diff is printed for every stale file and the command
exits non-zero when any file is missing or differs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.pipeline(cmd.Context(), configFrom(cmd), args, output)
			if err != nil {
				return err
			}

			stale, err := gen.Check(res.files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range stale {
				diff, err := s.Diff()
				if err != nil {
					return err
				}

				state := "out of date"
				if s.Missing {
					state = "missing"
				}

				color.New(color.FgYellow).Fprintf(out, "%s: %s\n", s.File.Path(), state)
				fmt.Fprint(out, diff)
			}

			if len(stale) > 0 {
				return fmt.Errorf("%w: %d of %d file(s)", gen.ErrStale, len(stale), len(res.files))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file `name`; only valid with a single type")

	return cmd
}
