package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/goaux/contextvalue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"persistent-generator/internal/config"
)

type flagsType struct {
	Config  string
	Dir     string
	Verbose bool
	Types   []string
	Output  string
	DryRun  bool
}

type app struct {
	info  Info
	flags flagsType
	log   *zap.Logger
	owned bool // log was built here and must be synced
}

func newApp(info Info) *app {
	return &app{info: info}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     a.info.Use + " [flags] [packages]",
		Short:   a.info.Short,
		Long:    render(a.info.Long),
		Version: a.info.Version,
		RunE:    a.runGenerate,

		PersistentPreRunE: a.preRun,
		PersistentPostRun: a.postRun,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.SortFlags = false
	pf.StringSliceVarP(&a.flags.Types, "type", "t", nil, "comma-separated list of type names; default is every type marked //persistent:derive")
	pf.StringSlice("tags", nil, "comma-separated list of build tags to apply")
	pf.StringVarP(&a.flags.Dir, "dir", "C", "", "run as if started in `dir`")
	pf.StringVar(&a.flags.Config, "config", "", "config `file` (default is "+config.FileName+" in the working directory)")
	pf.String("receiver", "", "receiver `name` of generated methods")
	pf.Bool("goimports", false, "format output with goimports")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "enable debug logging")

	fl := cmd.Flags()
	fl.SortFlags = false
	fl.StringVarP(&a.flags.Output, "output", "o", "", "output file `name`; only valid with a single type")
	fl.BoolVar(&a.flags.DryRun, "dry-run", false, "print generated code instead of writing files")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	cmd.MarkPersistentFlagDirname("dir")
	cmd.MarkFlagFilename("output", "go")

	cmd.AddCommand(a.inspectCommand())
	cmd.AddCommand(a.checkCommand())
	cmd.AddCommand(a.watchCommand())
	cmd.AddCommand(a.versionCommand())

	return cmd
}

func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	if a.log == nil {
		logCfg := zap.NewProductionConfig()
		if a.flags.Verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		log, err := logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		a.log = log
		a.owned = true
	}

	cfgPath := a.flags.Config
	if cfgPath != "" && a.flags.Dir != "" && !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(a.flags.Dir, cfgPath)
	}

	cfg, err := config.Load(cfgPath, a.flags.Dir, cmd.Flags())
	if err != nil {
		return err
	}

	a.log.Debug("loaded config", zap.Any("config", cfg))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(contextvalue.With(ctx, cfg))

	return nil
}

func (a *app) postRun(*cobra.Command, []string) {
	if a.owned && a.log != nil {
		_ = a.log.Sync()
	}
}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, ok := contextvalue.From[*config.Config](cmd.Context())
	if !ok {
		panic("never")
	}

	return cfg
}
