package config

import (
	"fmt"
	"strings"
)

// Builtin enumerates the configurations shipped with the module. The
// ordinal values are part of the C interface and must not change.
type Builtin int32

const (
	S2T   Builtin = iota // Simplified to Traditional
	T2S                  // Traditional to Simplified
	S2TW                 // Simplified to Traditional (Taiwan standard)
	TW2S                 // Traditional (Taiwan standard) to Simplified
	S2HK                 // Simplified to Traditional (Hong Kong variant)
	HK2S                 // Traditional (Hong Kong variant) to Simplified
	S2TWP                // Simplified to Traditional (Taiwan standard, with phrases)
	TW2SP                // Traditional (Taiwan standard, with phrases) to Simplified
	T2TW                 // Traditional to Taiwan standard
	TW2T                 // Taiwan standard to Traditional
	T2HK                 // Traditional to Hong Kong variant
	HK2T                 // Hong Kong variant to Traditional
	JP2T                 // Japanese Shinjitai to Traditional
	T2JP                 // Traditional to Japanese Shinjitai
)

var builtinNames = [...]string{
	"s2t", "t2s", "s2tw", "tw2s", "s2hk", "hk2s", "s2twp",
	"tw2sp", "t2tw", "tw2t", "t2hk", "hk2t", "jp2t", "t2jp",
}

// Valid reports whether b is one of the enumerated configurations.
func (b Builtin) Valid() bool {
	return b >= 0 && int(b) < len(builtinNames)
}

func (b Builtin) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Builtin(%d)", int32(b))
	}
	return builtinNames[b]
}

// Filename is the name of the configuration file, e.g. "s2t.json".
func (b Builtin) Filename() string {
	return b.String() + ".json"
}

// ParseBuiltin accepts a configuration name ("s2t", "S2T") or its file
// name ("s2t.json").
func ParseBuiltin(s string) (Builtin, error) {
	name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ".json"))
	for i, n := range builtinNames {
		if n == name {
			return Builtin(i), nil
		}
	}
	return -1, fmt.Errorf("unknown built-in configuration %q", s)
}

// Builtins lists all built-in configurations in ordinal order.
func Builtins() []Builtin {
	all := make([]Builtin, len(builtinNames))
	for i := range all {
		all[i] = Builtin(i)
	}
	return all
}
