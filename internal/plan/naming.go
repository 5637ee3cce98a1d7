package plan

import (
	"unicode"

	"persistent-generator/internal/common"
)

var (
	valueParamCandidates = []string{"v", "val", "value"}
	funcParamCandidates  = []string{"fn", "f", "update"}
	receiverFallbacks    = []string{"r", "rec", "self"}
)

// MethodName builds the method name for field. Exported fields get an
// exported name ("WithFoo"); unexported fields get an unexported one
// ("withFoo").
func MethodName(prefix, field string, exported bool) string {
	if exported {
		return common.UpperFirst(prefix) + common.UpperFirst(field)
	}

	return common.LowerFirst(prefix) + common.UpperFirst(field)
}

// parameterNames picks the receiver, value and function parameter names of a
// record's methods. None of them may shadow a reserved identifier (type
// parameters and imported package names) or each other. A configured
// receiver is used unless it clashes.
func parameterNames(typeName string, reserved []string, receiver string) (recv, value, fn string) {
	taken := common.Set(reserved...)

	value = pickIdent(taken, valueParamCandidates...)
	taken[value] = struct{}{}

	fn = pickIdent(taken, funcParamCandidates...)
	taken[fn] = struct{}{}

	if receiver == "" {
		receiver = initial(typeName)
	}

	recv = pickIdent(taken, append([]string{receiver}, receiverFallbacks...)...)

	return recv, value, fn
}

// initial returns the lower-cased first letter of name, or "" if it has none.
func initial(name string) string {
	for _, r := range name {
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
	}

	return ""
}

// pickIdent returns the first non-empty candidate not in taken.
func pickIdent(taken map[string]struct{}, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}

		if _, ok := taken[c]; !ok {
			return c
		}
	}

	name := candidates[len(candidates)-1]
	for {
		name += "_"
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}
