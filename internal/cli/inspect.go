package cli

import (
	"github.com/spf13/cobra"

	"persistent-generator/internal/plan"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Print the planned methods of every selected type as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.pipeline(cmd.Context(), configFrom(cmd), args, "")
			if err != nil {
				return err
			}

			out, err := plan.ExportYAML(res.plans)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
