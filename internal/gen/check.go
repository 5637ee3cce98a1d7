package gen

import (
	"bytes"
	"errors"
	"os"
	"runtime"

	"github.com/goaux/stacktrace/v2"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
)

// ErrStale is returned by the check command when generated files are out of date.
var ErrStale = errors.New("generated files are out of date")

// Stale describes a generated file whose content on disk differs from what
// would be generated now.
type Stale struct {
	File     GeneratedFile
	Existing []byte
	Missing  bool
}

// Diff returns a unified diff from the file on disk to the fresh content.
func (s Stale) Diff() (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(s.Existing)),
		B:        difflib.SplitLines(string(s.File.Content)),
		FromFile: s.File.Filename + " (on disk)",
		ToFile:   s.File.Filename + " (generated)",
		Context:  3,
	}

	if s.Missing {
		diff.FromFile = "/dev/null"
	}

	return difflib.GetUnifiedDiffString(diff)
}

// Check compares files with their on-disk counterparts and returns the ones
// that are missing or differ, in the order of files.
func Check(files []GeneratedFile) ([]Stale, error) {
	results := make([]*Stale, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			existing, err := os.ReadFile(file.Path())
			if errors.Is(err, os.ErrNotExist) {
				results[i] = &Stale{File: file, Missing: true}
				return nil
			}

			if err != nil {
				return stacktrace.Trace(err)
			}

			if !bytes.Equal(existing, file.Content) {
				results[i] = &Stale{File: file, Existing: existing}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var stale []Stale
	for _, s := range results {
		if s != nil {
			stale = append(stale, *s)
		}
	}

	return stale, nil
}
