/*
Package dictionary implements the phrase dictionaries of the converter.

A dictionary maps UTF-8 keys to an ordered, non-empty list of replacement
candidates; the first candidate is the preferred conversion. Keys are
compiled into a frozen automaton (a double-array trie by default, or a
minimal finite-state transducer), whose accepting states carry an index into
a candidate table stored alongside. Lookups are longest-prefix queries and
cost O(length of the matched key), independent of the dictionary size.

Dictionaries are built once and are immutable afterwards. They may be
created from sorted entries (Build), from a streaming entry source which is
sorted by the compiler (Compile, see package textdict for the OpenCC text
format), or decoded from the versioned binary container written by
MarshalBinary.

Container layout (all integers little endian):

	magic      [8]byte  "OCCGODIC"
	version    uint16
	backend    uint8    1 = double-array trie, 2 = FST
	flags      uint8    bit 0: candidate payload is zstd-compressed
	maxKeyLen  uint32   longest key in bytes
	entries    uint32
	autLen     uint64
	candLen    uint64
	automaton  [autLen]byte
	candidates [candLen]byte
	crc32      uint32   IEEE, over all preceding bytes

Upstream OpenCC ".ocd2" files are marisa-trie based. They are recognized by
their header and rejected with a FormatError; configurations naming them are
resolved to a compiled or text sibling by the caller.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package dictionary

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
