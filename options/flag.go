// Package options holds the switches that tune a dispatch service and the
// loader that reads them from defaults, a YAML file and the environment.
package options

import "strings"

type Flag int

const (
	FlagWrapPanics       Flag = 1 << iota // recover transformer panics into transformer faults
	FlagEmbeddedAncestry                  // leading exported embedded struct field is the parent type
	FlagLogFaults                         // log every fault the service returns

	FlagAll     Flag = (1 << iota) - 1 // all flags combined
	FlagNone    Flag = 0               // no flags selected
	FlagDefault      = FlagWrapPanics | FlagEmbeddedAncestry
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagWrapPanics, "wrap_panics"},
	{FlagEmbeddedAncestry, "embedded_ancestry"},
	{FlagLogFaults, "log_faults"},
}

// Has reports whether every bit of other is set.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Set returns f with other set or cleared.
func (f Flag) Set(other Flag, on bool) Flag {
	if on {
		return f | other
	}

	return f &^ other
}

func (f Flag) String() string {
	if f == FlagNone {
		return "none"
	}

	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, "|")
}
