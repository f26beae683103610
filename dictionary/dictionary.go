package dictionary

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Entry is a dictionary entry: a key and its ordered replacement candidates.
// The first candidate is the preferred conversion.
type Entry struct {
	Key        string
	Candidates []string
}

// EntryReader yields dictionary entries one-by-one, in any order.
// It should return io.EOF when the stream is exhausted.
type EntryReader interface {
	Next() (key string, candidates []string, err error)
}

// Match is the result of a longest-prefix query. Length is the byte length
// of the matched key. Candidates is shared with the dictionary and must not
// be modified.
type Match struct {
	Length     int
	Candidates []string
}

// Default returns the preferred candidate.
func (m Match) Default() string {
	if len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0]
}

// Dictionary is an immutable phrase dictionary. It is safe for concurrent use.
type Dictionary struct {
	Identifier string // Identifies the dictionary
	aut        automaton
	cands      *candidateStore
	maxKeyLen  int
	compress   bool // compress candidates when serialized
}

type buildOptions struct {
	backend  Backend
	compress bool
}

// BuildOption configures dictionary construction.
type BuildOption func(*buildOptions)

// WithBackend selects the automaton backend. The default is BackendDAT.
func WithBackend(b Backend) BuildOption {
	return func(o *buildOptions) {
		o.backend = b
	}
}

// WithCompression makes MarshalBinary compress the candidate table.
func WithCompression(on bool) BuildOption {
	return func(o *buildOptions) {
		o.compress = on
	}
}

func collectOptions(opts []BuildOption) buildOptions {
	o := buildOptions{backend: BackendDAT}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build creates a dictionary from entries, which must be sorted strictly
// ascending by key bytes. Keys and candidate lists must be non-empty.
func Build(name string, entries []Entry, opts ...BuildOption) (*Dictionary, error) {
	o := collectOptions(opts)
	dict := &Dictionary{
		Identifier: name,
		cands:      newCandidateStore(len(entries)),
		compress:   o.compress,
	}
	for i, e := range entries {
		if e.Key == "" {
			return nil, &BuildError{Dictionary: name, Reason: fmt.Sprintf("empty key at entry %d", i)}
		}
		if i > 0 && entries[i-1].Key >= e.Key {
			reason := "keys out of order"
			if entries[i-1].Key == e.Key {
				reason = "duplicate key"
			}
			return nil, &BuildError{Dictionary: name, Key: e.Key, Reason: reason}
		}
		idx, err := dict.cands.add(e.Candidates)
		if err != nil {
			return nil, &BuildError{Dictionary: name, Key: e.Key, Reason: err.Error()}
		}
		assert(int(idx) == i, "candidate index out of step with entry index")
		dict.maxKeyLen = max(dict.maxKeyLen, len(e.Key))
	}
	aut, err := buildAutomaton(o.backend, entries)
	if err != nil {
		return nil, &BuildError{Dictionary: name, Reason: err.Error()}
	}
	dict.aut = aut
	s := dict.Stats()
	tracer().Infof("dictionary %q: backend=%s entries=%d maxKeyLen=%d bytes=%d fill=%.2f",
		name, s.Backend, s.Entries, s.MaxKeyLength, s.Bytes, s.FillRatio())
	return dict, nil
}

// Compile reads all entries from reader, sorts them by key and builds a
// dictionary. Duplicate keys are rejected with a BuildError.
func Compile(name string, reader EntryReader, opts ...BuildOption) (*Dictionary, error) {
	entries := make([]Entry, 0, 1024)
	for {
		key, candidates, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cc := make([]string, len(candidates))
		copy(cc, candidates)
		entries = append(entries, Entry{Key: key, Candidates: cc})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].Key == entries[i-1].Key {
			return nil, &BuildError{Dictionary: name, Key: entries[i].Key, Reason: "duplicate key"}
		}
	}
	return Build(name, entries, opts...)
}

// Match returns the longest key which is a prefix of s[start:].
func (dict *Dictionary) Match(s string, start int) (Match, bool) {
	if dict == nil || start < 0 || start >= len(s) {
		return Match{}, false
	}
	n, v, ok := dict.aut.longest(s, start)
	return dict.match(n, v, ok)
}

// MatchBytes is Match for byte slices.
func (dict *Dictionary) MatchBytes(b []byte, start int) (Match, bool) {
	if dict == nil || start < 0 || start >= len(b) {
		return Match{}, false
	}
	n, v, ok := dict.aut.longestBytes(b, start)
	return dict.match(n, v, ok)
}

func (dict *Dictionary) match(n int, v uint32, ok bool) (Match, bool) {
	if !ok {
		return Match{}, false
	}
	cands, found := dict.cands.get(v)
	assert(found, "automaton value without candidate list")
	return Match{Length: n, Candidates: cands}, true
}

// Lookup returns the candidates stored for exactly key.
func (dict *Dictionary) Lookup(key string) ([]string, bool) {
	m, ok := dict.Match(key, 0)
	if !ok || m.Length != len(key) {
		return nil, false
	}
	return m.Candidates, true
}

// MaxKeyLength is the byte length of the longest key.
func (dict *Dictionary) MaxKeyLength() int {
	if dict == nil {
		return 0
	}
	return dict.maxKeyLen
}

// Len is the number of entries.
func (dict *Dictionary) Len() int {
	if dict == nil {
		return 0
	}
	return dict.cands.len()
}

// Backend reports the automaton backend of dict.
func (dict *Dictionary) Backend() Backend {
	return dict.aut.backend()
}

// Walk calls fn for every entry in ascending key order until fn returns false.
func (dict *Dictionary) Walk(fn func(key string, candidates []string) bool) error {
	var err error
	werr := dict.aut.walk(func(key []byte, v uint32) bool {
		cands, ok := dict.cands.get(v)
		if !ok {
			err = corrupt(fmt.Sprintf("key %q refers to missing candidate list %d", key, v), nil)
			return false
		}
		return fn(string(key), cands)
	})
	if werr != nil {
		return werr
	}
	return err
}

// Stats reports size metrics of dict.
func (dict *Dictionary) Stats() Stats {
	s := dict.aut.stats()
	s.Entries = dict.Len()
	s.MaxKeyLength = dict.maxKeyLen
	return s
}

func (dict *Dictionary) String() string {
	return fmt.Sprintf("Dictionary(%s, %d entries, %s)", dict.Identifier, dict.Len(), dict.Backend())
}
