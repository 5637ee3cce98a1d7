// Package cli implements the persistent-gen command line.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Info describes the binary being built.
type Info struct {
	Use     string
	Short   string
	Long    string // markdown, rendered when stdout is a terminal
	Version string
}

// Main runs the command line and returns the process exit code.
func Main(ctx context.Context, info Info, args []string) int {
	cmd := newApp(info).command()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

		return 1
	}

	return 0
}

func render(usage string) string {
	if isTTY(os.Stdout) {
		r, err := glamour.NewTermRenderer(
			glamour.WithEnvironmentConfig(),
			glamour.WithWordWrap(100),
		)
		if err == nil { // if NO error
			if s, err := r.Render(usage); err == nil { // if NO error
				return s
			}
		}
	}

	return usage
}

func isTTY(v any) bool {
	if f, ok := v.(*os.File); ok {
		return isatty.IsTerminal(f.Fd())
	}

	return false
}
