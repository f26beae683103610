package dictionary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// Format classifies the leading bytes of a binary dictionary file.
type Format int

const (
	FormatUnknown   Format = iota
	FormatContainer        // container written by MarshalBinary
	FormatMarisa           // upstream OpenCC marisa-trie .ocd2
)

func (f Format) String() string {
	switch f {
	case FormatContainer:
		return "container"
	case FormatMarisa:
		return "marisa"
	}
	return "unknown"
}

const marisaHeader = "OPENCC_MARISA_0.2.5"

// Sniff inspects header, the leading bytes of a file. At least 19 bytes are
// needed to recognize upstream marisa files.
func Sniff(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, []byte(containerMagic)):
		return FormatContainer
	case bytes.HasPrefix(header, []byte(marisaHeader)):
		return FormatMarisa
	}
	return FormatUnknown
}

// SniffFile reads the header of the file at path and classifies it.
func SniffFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()
	header := make([]byte, len(marisaHeader))
	n, _ := f.Read(header)
	return Sniff(header[:n]), nil
}

// LoadFile memory-maps a container file and decodes it. The returned
// dictionary does not reference the mapping, which is released before
// LoadFile returns. The identifier of the dictionary is the file's path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, &FormatError{Reason: "empty file"})
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("could not map dictionary %s: %w", path, err)
	}
	dict, err := Unmarshal(m)
	if uerr := m.Unmap(); uerr != nil && err == nil {
		err = uerr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dict.Identifier = path
	tracer().Debugf("loaded dictionary %s (%d entries, %s)", path, dict.Len(), dict.Backend())
	return dict, nil
}

// SaveFile writes the container encoding of dict to path. The file is
// written to a temporary sibling first and renamed into place.
func SaveFile(dict *Dictionary, path string) error {
	b, err := dict.MarshalBinary()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(b); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not save dictionary %s: %w", path, err)
	}
	return nil
}
