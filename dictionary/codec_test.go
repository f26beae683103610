package dictionary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"path/filepath"
	"reflect"
	"testing"
)

func collect(t *testing.T, dict *Dictionary) []Entry {
	t.Helper()
	var entries []Entry
	if err := dict.Walk(func(key string, candidates []string) bool {
		entries = append(entries, Entry{Key: key, Candidates: append([]string(nil), candidates...)})
		return true
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	return entries
}

func TestContainerRoundTrip(t *testing.T) {
	for _, backend := range backends {
		for _, compress := range []bool{false, true} {
			dict, err := Compile("rt", &sliceEntryReader{entries: chineseEntries()},
				WithBackend(backend), WithCompression(compress))
			if err != nil {
				t.Fatal(err)
			}
			b, err := dict.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			again, err := dict.MarshalBinary()
			if err != nil || !bytes.Equal(b, again) {
				t.Fatalf("%s/%v: serialization is not deterministic", backend, compress)
			}
			loaded, err := Unmarshal(b)
			if err != nil {
				t.Fatalf("%s/%v: %v", backend, compress, err)
			}
			if loaded.Backend() != backend {
				t.Fatalf("backend changed from %s to %s", backend, loaded.Backend())
			}
			if loaded.MaxKeyLength() != dict.MaxKeyLength() {
				t.Fatalf("max key length changed")
			}
			if !reflect.DeepEqual(collect(t, dict), collect(t, loaded)) {
				t.Fatalf("%s/%v: entries differ after round trip", backend, compress)
			}
			for _, text := range []string{"中文转换", "中文", "干净", "转换"} {
				m1, ok1 := dict.Match(text, 0)
				m2, ok2 := loaded.Match(text, 0)
				if ok1 != ok2 || m1.Length != m2.Length || m1.Default() != m2.Default() {
					t.Fatalf("%s/%v: match for %q differs after round trip", backend, compress, text)
				}
			}
		}
	}
}

func TestCompressionShrinksRepetitiveCandidates(t *testing.T) {
	var entries []Entry
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		entries = append(entries, Entry{Key: k, Candidates: []string{k + "一二三四五六七八九十一二三四五六七八九十"}})
	}
	plain, _ := Build("plain", entries)
	packed, _ := Build("packed", entries, WithCompression(true))
	b1, _ := plain.MarshalBinary()
	b2, _ := packed.MarshalBinary()
	if len(b2) >= len(b1) {
		t.Fatalf("compressed container (%d bytes) not smaller than plain one (%d bytes)", len(b2), len(b1))
	}
}

func encoded(t *testing.T) []byte {
	t.Helper()
	dict := buildTestDictionary(t, BackendDAT, chineseEntries()...)
	b, err := dict.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func reseal(b []byte) {
	end := len(b) - containerTrailer
	binary.LittleEndian.PutUint32(b[end:], crc32.ChecksumIEEE(b[:end]))
}

func TestUnmarshalRejectsVersionMismatch(t *testing.T) {
	b := encoded(t)
	binary.LittleEndian.PutUint16(b[8:], containerVersion+1)
	reseal(b)
	_, err := Unmarshal(b)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError for version mismatch, got %v", err)
	}
}

func TestUnmarshalRejectsForeignFormats(t *testing.T) {
	inputs := [][]byte{
		[]byte("OPENCC_MARISA_0.2.5\x00\x00\x00"),
		[]byte("NOTADICTIONARYATALL"),
		[]byte("OCC"),
		nil,
	}
	for _, in := range inputs {
		_, err := Unmarshal(in)
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected FormatError for %q, got %v", in, err)
		}
	}
	if Sniff([]byte(marisaHeader)) != FormatMarisa {
		t.Fatalf("marisa header not recognized")
	}
}

func TestUnmarshalRejectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		damage func([]byte) []byte
	}{
		{"flipped payload byte", func(b []byte) []byte {
			b[containerHeader+3] ^= 0x40
			return b
		}},
		{"truncated", func(b []byte) []byte {
			return b[:len(b)-3]
		}},
		{"short header", func(b []byte) []byte {
			return b[:containerHeader-1]
		}},
		{"wrong entry count", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[16:], 5)
			reseal(b)
			return b
		}},
		{"wrong max key length", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[12:], 3)
			reseal(b)
			return b
		}},
		{"trailing garbage", func(b []byte) []byte {
			b = append(b[:len(b)-containerTrailer:len(b)-containerTrailer], 0, 0, 0, 0, 0)
			reseal(b)
			return b
		}},
	}
	for _, tc := range tests {
		_, err := Unmarshal(tc.damage(encoded(t)))
		var cerr *CorruptError
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: expected CorruptError, got %v", tc.name, err)
		}
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	for _, backend := range backends {
		dict := buildTestDictionary(t, backend, chineseEntries()...)
		path := filepath.Join(t.TempDir(), "test.ocb")
		if err := SaveFile(dict, path); err != nil {
			t.Fatal(err)
		}
		if f, err := SniffFile(path); err != nil || f != FormatContainer {
			t.Fatalf("sniffed %s (%v), want container", f, err)
		}
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Identifier != path {
			t.Fatalf("identifier should be the path, is %q", loaded.Identifier)
		}
		if m, ok := loaded.Match("中文转换器", 0); !ok || m.Default() != "中文轉換" {
			t.Fatalf("%s: loaded dictionary lost entries", backend)
		}
	}
}
