package opencc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/opencc/dictionary"
)

// StageKind tells whether a stage replaces matched spans or only finds them.
type StageKind uint8

const (
	// Substitution replaces every matched span by its preferred candidate.
	Substitution StageKind = iota
	// Segmentation finds phrase boundaries without altering the text.
	Segmentation
)

func (k StageKind) String() string {
	switch k {
	case Substitution:
		return "substitution"
	case Segmentation:
		return "segmentation"
	}
	return fmt.Sprintf("StageKind(%d)", uint8(k))
}

// Stage applies maximum forward matching over a dictionary or a group of
// dictionaries. A Stage is immutable and safe for concurrent use.
type Stage struct {
	kind    StageKind
	matcher dictionary.Matcher
}

// NewStage creates a stage of the given kind over matcher.
func NewStage(kind StageKind, matcher dictionary.Matcher) *Stage {
	assert(matcher != nil, "stage needs a matcher")
	return &Stage{kind: kind, matcher: matcher}
}

// Kind returns the kind of s.
func (s *Stage) Kind() StageKind { return s.kind }

// Matcher returns the dictionary or group s matches against.
func (s *Stage) Matcher() dictionary.Matcher { return s.matcher }

// MaxKeyLength bounds the lookahead of s in bytes.
func (s *Stage) MaxKeyLength() int { return s.matcher.MaxKeyLength() }

// Apply converts text. At each position the longest matching key is
// replaced by its first candidate; code points without a match are copied
// unchanged, as are bytes which are not valid UTF-8. Segmentation stages
// return text as is. If nothing is replaced, the result is text itself.
func (s *Stage) Apply(text string) string {
	if s.kind == Segmentation {
		return text
	}
	var b strings.Builder
	copied := 0 // text[:copied] has been written to b
	replaced := false
	for i := 0; i < len(text); {
		if m, ok := s.matcher.Match(text, i); ok {
			if repl := m.Default(); repl != text[i:i+m.Length] {
				if !replaced {
					b.Grow(len(text) + len(text)/8)
					replaced = true
				}
				b.WriteString(text[copied:i])
				b.WriteString(repl)
				copied = i + m.Length
			}
			i += m.Length
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	if !replaced {
		return text
	}
	b.WriteString(text[copied:])
	return b.String()
}

// Segment splits text into the spans chosen by maximum forward matching.
// Code points without a match form segments of their own. Concatenating
// the segments yields text.
func (s *Stage) Segment(text string) []string {
	segments := make([]string, 0, len(text)/3+1)
	for i := 0; i < len(text); {
		n := 0
		if m, ok := s.matcher.Match(text, i); ok {
			n = m.Length
		} else {
			_, n = utf8.DecodeRuneInString(text[i:])
		}
		segments = append(segments, text[i:i+n])
		i += n
	}
	return segments
}
