package dictionary

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	containerMagic   = "OCCGODIC"
	containerVersion = 1
	containerHeader  = 8 + 2 + 1 + 1 + 4 + 4 + 8 + 8
	containerTrailer = 4

	flagCompressed = 1 << 0
	knownFlags     = flagCompressed
)

var zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
})

var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
})

// MarshalBinary serializes dict into the versioned container format. Equal
// dictionaries built with equal options produce identical bytes.
func (dict *Dictionary) MarshalBinary() ([]byte, error) {
	aut, err := dict.aut.marshal()
	if err != nil {
		return nil, err
	}
	cands := dict.cands.marshal()
	var flags uint8
	if dict.compress {
		enc, err := zstdEncoder()
		if err != nil {
			return nil, err
		}
		cands = enc.EncodeAll(cands, nil)
		flags |= flagCompressed
	}
	buf := make([]byte, 0, containerHeader+len(aut)+len(cands)+containerTrailer)
	buf = append(buf, containerMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, containerVersion)
	buf = append(buf, byte(dict.aut.backend()), flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dict.maxKeyLen))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dict.Len()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(aut)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(cands)))
	buf = append(buf, aut...)
	buf = append(buf, cands...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	return buf, nil
}

// WriteTo writes the container encoding of dict to w.
func (dict *Dictionary) WriteTo(w io.Writer) (int64, error) {
	b, err := dict.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// UnmarshalBinary replaces the contents of dict with the decoded container.
// The identifier of dict is kept.
func (dict *Dictionary) UnmarshalBinary(b []byte) error {
	d, err := Unmarshal(b)
	if err != nil {
		return err
	}
	id := dict.Identifier
	*dict = *d
	dict.Identifier = id
	return nil
}

// Unmarshal decodes a container produced by MarshalBinary. Unsupported
// formats and versions yield a *FormatError, damaged contents a
// *CorruptError. The result does not reference b.
func Unmarshal(b []byte) (*Dictionary, error) {
	switch Sniff(b) {
	case FormatMarisa:
		return nil, &FormatError{Reason: "upstream marisa-trie dictionary (" + marisaHeader + ") is not supported, compile the text source instead"}
	case FormatUnknown:
		if len(b) < len(containerMagic) {
			return nil, &FormatError{Reason: "file too short for a dictionary header"}
		}
		return nil, &FormatError{Reason: "bad magic"}
	}
	if len(b) < containerHeader {
		return nil, corrupt("truncated header", nil)
	}
	version := binary.LittleEndian.Uint16(b[8:])
	if version != containerVersion {
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported container version %d (want %d)", version, containerVersion)}
	}
	backend := Backend(b[10])
	if backend != BackendDAT && backend != BackendFST {
		return nil, &FormatError{Reason: fmt.Sprintf("unknown automaton backend %d", b[10])}
	}
	flags := b[11]
	if flags&^knownFlags != 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("unknown flags %#x", flags)}
	}
	maxKeyLen := int(binary.LittleEndian.Uint32(b[12:]))
	entries := int(binary.LittleEndian.Uint32(b[16:]))
	autLen := binary.LittleEndian.Uint64(b[20:])
	candLen := binary.LittleEndian.Uint64(b[28:])
	body := uint64(len(b) - containerHeader - containerTrailer)
	if len(b) < containerHeader+containerTrailer || autLen > body || candLen > body-autLen {
		return nil, corrupt("truncated payload", nil)
	}
	if autLen+candLen != body {
		return nil, corrupt(fmt.Sprintf("%d unexpected trailing bytes", body-autLen-candLen), nil)
	}
	end := len(b) - containerTrailer
	if crc := binary.LittleEndian.Uint32(b[end:]); crc != crc32.ChecksumIEEE(b[:end]) {
		return nil, corrupt("checksum mismatch", nil)
	}
	autBytes := b[containerHeader : containerHeader+int(autLen)]
	candBytes := b[containerHeader+int(autLen) : end]
	aut, err := decodeAutomaton(backend, autBytes)
	if err != nil {
		return nil, corrupt("automaton", err)
	}
	if flags&flagCompressed != 0 {
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		if candBytes, err = dec.DecodeAll(candBytes, nil); err != nil {
			return nil, corrupt("candidate table", err)
		}
	}
	cands, err := unmarshalCandidateStore(candBytes)
	if err != nil {
		return nil, corrupt("candidate table", err)
	}
	dict := &Dictionary{
		aut:       aut,
		cands:     cands,
		maxKeyLen: maxKeyLen,
		compress:  flags&flagCompressed != 0,
	}
	if err := dict.validate(entries); err != nil {
		return nil, err
	}
	return dict, nil
}

// validate checks that automaton and candidate table agree: every list is
// referenced by exactly one key and the header counts match.
func (dict *Dictionary) validate(entries int) error {
	if dict.cands.len() != entries {
		return corrupt(fmt.Sprintf("header declares %d entries, candidate table has %d", entries, dict.cands.len()), nil)
	}
	seen := make([]bool, entries)
	count, longest := 0, 0
	var fault error
	err := dict.aut.walk(func(key []byte, v uint32) bool {
		switch {
		case int(v) >= entries:
			fault = corrupt(fmt.Sprintf("key %q refers to candidate list %d of %d", key, v, entries), nil)
		case seen[v]:
			fault = corrupt(fmt.Sprintf("candidate list %d referenced twice", v), nil)
		}
		if fault != nil {
			return false
		}
		seen[v] = true
		count++
		longest = max(longest, len(key))
		return true
	})
	if err != nil {
		return corrupt("automaton", err)
	}
	if fault != nil {
		return fault
	}
	if count != entries {
		return corrupt(fmt.Sprintf("automaton holds %d keys, header declares %d", count, entries), nil)
	}
	if longest != dict.maxKeyLen {
		return corrupt(fmt.Sprintf("header declares max key length %d, longest key has %d", dict.maxKeyLen, longest), nil)
	}
	return nil
}

