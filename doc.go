/*
Package opencc converts Chinese text between Simplified and Traditional
characters, regional vocabulary variants (Taiwan, Hong Kong) and Japanese
Shinjitai.

Conversion is driven by dictionaries. A Pipeline applies a chain of
stages, each of which scans its input left to right and, at every
position, replaces the longest dictionary key found there by that key's
preferred candidate (maximum forward matching). Text without a match is
copied unchanged. A stage may consult a group of dictionaries, usually a
phrase dictionary and a character dictionary, in which case the longest
match of any member wins.

Pipelines are described by configurations in the OpenCC JSON format
(package config). Fourteen conversions are built in; their dictionaries
are embedded and compiled on first use. Dictionaries are compiled from
the OpenCC text format (package textdict) or loaded from the binary
container of package dictionary.

The embedded dictionaries are subsets of the upstream OpenCC data: about
1,200 common characters and a few dozen phrases and regional variants.
Text outside this vocabulary passes through unchanged. For complete
coverage, build a converter with NewFromFile from an upstream OpenCC
configuration and its dictionary files (the text sources, or containers
compiled from them by cmd/dictcompile).

	conv, err := opencc.NewFromBuiltin(config.S2T)
	if err != nil {
	    ...
	}
	s := conv.Convert("开放中文转换") // "開放中文轉換"

Converters are immutable after construction and safe for concurrent use.
Convert never fails; all errors surface when a converter is built.

Further Reading

	https://github.com/BYVoid/OpenCC
	https://github.com/BYVoid/OpenCC/tree/master/data/dictionary

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package opencc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'opencc'
func tracer() tracing.Trace {
	return tracing.Select("opencc")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
