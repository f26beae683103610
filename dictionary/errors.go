package dictionary

import "fmt"

// BuildError is returned when entries violate the construction contract of
// an automaton: keys out of order, duplicate keys, empty keys or empty
// candidate lists.
type BuildError struct {
	Dictionary string
	Key        string
	Reason     string
}

func (e *BuildError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("dictionary %q: %s", e.Dictionary, e.Reason)
	}
	return fmt.Sprintf("dictionary %q: %s: key %q", e.Dictionary, e.Reason, e.Key)
}

// ParseError reports a malformed line of a text dictionary.
type ParseError struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// FormatError is returned when a binary dictionary is not a container of a
// supported format and version.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "dictionary format: " + e.Reason
}

// CorruptError is returned when a container passes the format check but its
// contents are inconsistent.
type CorruptError struct {
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt dictionary: %s: %v", e.Reason, e.Err)
	}
	return "corrupt dictionary: " + e.Reason
}

func (e *CorruptError) Unwrap() error { return e.Err }

func corrupt(reason string, err error) error {
	return &CorruptError{Reason: reason, Err: err}
}
