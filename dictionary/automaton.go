package dictionary

import (
	"fmt"
	"strings"
)

// Backend selects the automaton implementation of a dictionary.
type Backend uint8

const (
	// BackendDAT is a double-array trie. It is the default backend and
	// offers the fastest lookups.
	BackendDAT Backend = 1
	// BackendFST is a minimal finite-state transducer. It is considerably
	// smaller for large dictionaries.
	BackendFST Backend = 2
)

func (b Backend) String() string {
	switch b {
	case BackendDAT:
		return "dat"
	case BackendFST:
		return "fst"
	}
	return fmt.Sprintf("Backend(%d)", uint8(b))
}

// ParseBackend maps "dat" or "fst" to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "dat", "":
		return BackendDAT, nil
	case "fst":
		return BackendFST, nil
	}
	return 0, fmt.Errorf("unknown automaton backend %q", s)
}

// automaton is the internal backend abstraction for key storage.
// Values are indices into the candidate table of the owning dictionary.
type automaton interface {
	longest(s string, start int) (n int, value uint32, ok bool)
	longestBytes(b []byte, start int) (n int, value uint32, ok bool)
	walk(fn func(key []byte, value uint32) bool) error
	marshal() ([]byte, error)
	backend() Backend
	stats() Stats
}

// Stats reports size metrics of a dictionary.
type Stats struct {
	Backend      Backend
	Entries      int
	MaxKeyLength int
	Slots        int // double-array slots, 0 for FST
	UsedSlots    int
	Bytes        int // size of the encoded automaton
}

// FillRatio is the share of used double-array slots.
func (s Stats) FillRatio() float64 {
	if s.Slots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.Slots)
}

func buildAutomaton(backend Backend, entries []Entry) (automaton, error) {
	switch backend {
	case BackendDAT:
		return buildDATAutomaton(entries)
	case BackendFST:
		return buildFSTAutomaton(entries)
	}
	return nil, fmt.Errorf("unknown automaton backend %d", backend)
}

func decodeAutomaton(backend Backend, b []byte) (automaton, error) {
	switch backend {
	case BackendDAT:
		return decodeDATAutomaton(b)
	case BackendFST:
		return decodeFSTAutomaton(b)
	}
	return nil, &FormatError{Reason: fmt.Sprintf("unknown automaton backend %d", backend)}
}
