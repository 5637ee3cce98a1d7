package analyze

import (
	"bufio"
	"os"
	"strings"

	"github.com/goaux/iter/bufioscanner"
	"github.com/goaux/stacktrace/v2"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"persistent-generator/internal/common"
)

// findGenerated finds files previously written by persistent-gen. The result
// maps each absolute file name to a bare package clause, ready to be used as
// a packages.Config overlay.
func (a *Analyzer) findGenerated(pkgs []*packages.Package) (map[string][]byte, error) {
	overlay := make(map[string][]byte)

	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			ok, err := IsGenerated(file)
			if err != nil {
				return nil, err
			}

			if !ok {
				continue
			}

			overlay[file] = []byte("package " + pkg.Name + "\n")

			a.log.Debug("found generated file", zap.String("file", file))
		}
	}

	return overlay, nil
}

// IsGenerated reports whether the file at path starts with the
// persistent-gen header. Only the lines before the package clause are read.
func IsGenerated(path string) (bool, error) {
	f, err := stacktrace.Trace2(os.Open(path))
	if err != nil {
		return false, err
	}
	defer f.Close()

	s := bufioscanner.New(bufio.NewScanner(f))
	for _, line := range s.Text() {
		line = strings.TrimSpace(line)
		if line == common.GeneratedHeader {
			return true, nil
		}

		if strings.HasPrefix(line, "package ") {
			break
		}
	}

	if err := s.Err(); err != nil {
		return false, stacktrace.Trace(err)
	}

	return false, nil
}
