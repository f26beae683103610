package textdict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/derekparker/trie"
	"github.com/npillmayer/opencc/dictionary"
)

const bom = "\uFEFF"

// Reader streams entries from an OpenCC text dictionary. It implements
// dictionary.EntryReader.
type Reader struct {
	scanner *bufio.Scanner
	source  string
	line    int
	seen    *trie.Trie // key -> line of first occurrence
}

var _ dictionary.EntryReader = (*Reader)(nil)

// NewReader creates a reader for text dictionary data. source names the
// input in error messages.
func NewReader(reader io.Reader, source string) *Reader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Reader{
		scanner: scanner,
		source:  source,
		seen:    trie.New(),
	}
}

// Line returns the number of the line most recently read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next entry as (key, candidates).
// It returns io.EOF when exhausted and a *dictionary.ParseError for a
// malformed line.
func (r *Reader) Next() (string, []string, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if r.line == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, values, found := strings.Cut(line, "\t")
		if !found {
			return "", nil, r.fail("missing tab separator")
		}
		if key == "" {
			return "", nil, r.fail("empty key")
		}
		candidates := strings.Fields(values)
		if len(candidates) == 0 {
			return "", nil, r.fail("empty candidate list")
		}
		if node, dup := r.seen.Find(key); dup {
			return "", nil, r.fail(fmt.Sprintf("duplicate key %q, first defined in line %d", key, node.Meta().(int)))
		}
		r.seen.Add(key, r.line)
		return key, candidates, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("%s: %w", r.source, err)
	}
	return "", nil, io.EOF
}

func (r *Reader) fail(reason string) error {
	return &dictionary.ParseError{Source: r.source, Line: r.line, Reason: reason}
}

// Load compiles a text dictionary read from reader.
//
// Example usage:
//
//	f, _ := os.Open("path/to/STCharacters.txt")
//	defer f.Close()
//
//	dict, err := textdict.Load("STCharacters", f)
func Load(name string, reader io.Reader, opts ...dictionary.BuildOption) (*dictionary.Dictionary, error) {
	return dictionary.Compile(name, NewReader(reader, name), opts...)
}

// LoadFile compiles the text dictionary at path. The dictionary is
// identified by its path.
func LoadFile(path string, opts ...dictionary.BuildOption) (*dictionary.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(path, f, opts...)
}

// ErrUnrepresentable is returned by Write for entries the text format
// cannot express.
var ErrUnrepresentable = errors.New("entry not representable as text")

// Write dumps dict in text form, one entry per line in ascending key order.
// Output of Write is accepted by Reader and compiles to an equal dictionary.
// Keys containing tabs or line breaks, keys read back as comments, and
// candidates that are empty or contain white space cannot be written; for
// these Write fails with ErrUnrepresentable before writing anything.
func Write(w io.Writer, dict *dictionary.Dictionary) error {
	var rerr error
	err := dict.Walk(func(key string, candidates []string) bool {
		rerr = representable(key, candidates)
		return rerr == nil
	})
	if err == nil {
		err = rerr
	}
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var werr error
	err = dict.Walk(func(key string, candidates []string) bool {
		bw.WriteString(key)
		bw.WriteByte('\t')
		bw.WriteString(strings.Join(candidates, " "))
		_, werr = bw.WriteRune('\n')
		return werr == nil
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

func representable(key string, candidates []string) error {
	switch {
	case strings.ContainsAny(key, "\t\r\n"):
		return fmt.Errorf("%w: key %q contains a tab or line break", ErrUnrepresentable, key)
	case strings.HasPrefix(key, bom):
		return fmt.Errorf("%w: key %q starts with a byte order mark", ErrUnrepresentable, key)
	case strings.HasPrefix(strings.TrimLeftFunc(key, unicode.IsSpace), "#"):
		return fmt.Errorf("%w: key %q would be read as a comment", ErrUnrepresentable, key)
	case strings.TrimSpace(key) == "" && strings.HasPrefix(candidates[0], "#"):
		return fmt.Errorf("%w: entry for blank key %q would be read as a comment", ErrUnrepresentable, key)
	}
	for _, c := range candidates {
		if c == "" || strings.IndexFunc(c, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: candidate %q of key %q is empty or contains white space", ErrUnrepresentable, c, key)
		}
	}
	return nil
}
