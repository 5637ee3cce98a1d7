package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() value of unrecognised enum values.
const UnknownStr = "unknown"

// GeneratedHeader is the first line of every file written by persistent-gen.
// Files starting with it are masked when packages are loaded, so that a stale
// generated file never prevents regeneration.
const GeneratedHeader = "// Code generated by persistent-gen. DO NOT EDIT."

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. Major-version suffixes such as
// "/v2" and dotted suffixes such as "yaml.v3" are stripped.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(pkgPath))
	}

	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	return strings.ReplaceAll(base, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
