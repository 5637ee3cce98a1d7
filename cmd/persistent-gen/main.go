// Package main provides the CLI entrypoint for persistent-gen.
//
// persistent-gen is a go:generate tool that adds non-mutating field update
// methods to struct types:
//   - WithX returns a copy with field X replaced
//   - UpdateX returns a copy with field X replaced by a function of its value
package main

import (
	"context"
	_ "embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/goaux/headline"

	"persistent-generator/internal/cli"
)

//go:embed usage.md
var usage string

// version is set at build time.
var version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Main(ctx, cli.Info{
		Use:     "persistent-gen",
		Short:   headline.Get(usage),
		Long:    usage,
		Version: version,
	}, os.Args[1:])

	stop()
	os.Exit(code)
}
