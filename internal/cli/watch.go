package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persistent-generator/internal/watch"
)

func (a *app) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [packages]",
		Short: "Regenerate whenever the Go sources of the packages change",
		Long: `Generates once, then watches the directories of the loaded packages and
regenerates after every burst of changes to .go files. Generated files are
ignored. Failures are reported and watching continues. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)

			res, err := a.pipeline(cmd.Context(), cfg, args, "")
			if err != nil {
				return err
			}

			if err := a.write(res); err != nil {
				return err
			}

			dirs := make([]string, 0, len(res.pkgs))
			for _, pkg := range res.pkgs {
				if pkg.Dir != "" {
					dirs = append(dirs, pkg.Dir)
				}
			}

			w := watch.New(watch.Options{
				Dirs: dirs,
				Ignore: func(path string) bool {
					return strings.HasSuffix(filepath.Base(path), cfg.OutputSuffix)
				},
				Logger: a.log,
			})

			stderr := cmd.ErrOrStderr()
			color.New(color.FgCyan).Fprintf(stderr, "watching %d package(s), press Ctrl+C to stop\n", len(dirs))

			return w.Run(cmd.Context(), func(ctx context.Context, files []string) error {
				a.log.Debug("regenerating", zap.Strings("changed", files))

				res, err := a.pipeline(ctx, cfg, args, "")
				if err == nil {
					err = a.write(res)
				}

				if err != nil {
					color.New(color.FgRed, color.Bold).Fprintf(stderr, "Error: %v\n", err)
				}

				return err
			})
		},
	}
}
