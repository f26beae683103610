package textdict

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/opencc/dictionary"
)

func TestReader(t *testing.T) {
	src := strings.NewReader("\uFEFF# comment\n\n中文\t中文\r\n干\t幹 乾  干\n   # indented comment\n")
	r := NewReader(src, "test.txt")
	key, cands, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if key != "中文" || !reflect.DeepEqual(cands, []string{"中文"}) {
		t.Fatalf("entry mismatch: %q %v", key, cands)
	}
	if r.Line() != 3 {
		t.Fatalf("expected line 3, is %d", r.Line())
	}
	key, cands, err = r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if key != "干" || !reflect.DeepEqual(cands, []string{"幹", "乾", "干"}) {
		t.Fatalf("entry mismatch: %q %v", key, cands)
	}
	_, _, err = r.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		input string
		line  int
		cause string
	}{
		{"a\tb\nno separator here\n", 2, "missing tab"},
		{"\tb\n", 1, "empty key"},
		{"# x\na\t   \n", 2, "empty candidate"},
		{"a\tb\nc\td\na\te\n", 3, "duplicate key"},
	}
	for _, tc := range tests {
		r := NewReader(strings.NewReader(tc.input), "bad.txt")
		var err error
		for err == nil {
			_, _, err = r.Next()
		}
		var perr *dictionary.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%q: expected ParseError, got %v", tc.input, err)
		}
		if perr.Line != tc.line || perr.Source != "bad.txt" || !strings.Contains(perr.Reason, tc.cause) {
			t.Fatalf("%q: unexpected error %v", tc.input, perr)
		}
	}
}

func TestDuplicateNamesFirstLine(t *testing.T) {
	r := NewReader(strings.NewReader("x\t1\ny\t2\nx\t3\n"), "dup.txt")
	var err error
	for err == nil {
		_, _, err = r.Next()
	}
	if !strings.Contains(err.Error(), "line 1") || !strings.HasPrefix(err.Error(), "dup.txt:3:") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestLoadAndWrite(t *testing.T) {
	src := "转\t轉\n中文转换\t中文轉換\n中文\t中文\n干\t幹 乾 干\n"
	dict, err := Load("test", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := dict.Match("中文转换器", 0); !ok || m.Default() != "中文轉換" {
		t.Fatalf("expected longest match 中文轉換, got %q", m.Default())
	}
	var out bytes.Buffer
	if err := Write(&out, dict); err != nil {
		t.Fatal(err)
	}
	want := "中文\t中文\n中文转换\t中文轉換\n干\t幹 乾 干\n转\t轉\n"
	if out.String() != want {
		t.Fatalf("dump mismatch:\n%s\nwant:\n%s", out.String(), want)
	}
	again, err := Load("again", &out)
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != dict.Len() {
		t.Fatalf("reloaded dump has %d entries, want %d", again.Len(), dict.Len())
	}
}

func TestWriteRejectsUnrepresentableEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry dictionary.Entry
	}{
		{"tab in key", dictionary.Entry{Key: "a\tb", Candidates: []string{"x"}}},
		{"newline in key", dictionary.Entry{Key: "a\nb", Candidates: []string{"x"}}},
		{"comment key", dictionary.Entry{Key: "#a", Candidates: []string{"x"}}},
		{"space in candidate", dictionary.Entry{Key: "a", Candidates: []string{"x y"}}},
		{"ideographic space in candidate", dictionary.Entry{Key: "a", Candidates: []string{"x　y"}}},
		{"empty candidate", dictionary.Entry{Key: "a", Candidates: []string{""}}},
	}
	for _, tc := range tests {
		dict, err := dictionary.Build(tc.name, []dictionary.Entry{
			{Key: "!", Candidates: []string{"first"}},
			tc.entry,
		})
		if err != nil {
			t.Fatalf("%s: could not build dictionary: %v", tc.name, err)
		}
		var out bytes.Buffer
		err = Write(&out, dict)
		if !errors.Is(err, ErrUnrepresentable) {
			t.Fatalf("%s: expected ErrUnrepresentable, got %v", tc.name, err)
		}
		if out.Len() != 0 {
			t.Fatalf("%s: nothing should be written, have %q", tc.name, out.String())
		}
	}
}

func TestWriteRoundTripsSpacedKeys(t *testing.T) {
	dict, err := dictionary.Build("spaced", []dictionary.Entry{
		{Key: " a", Candidates: []string{"x"}},
		{Key: "b c", Candidates: []string{"y", "z"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Write(&out, dict); err != nil {
		t.Fatal(err)
	}
	again, err := Load("again", &out)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{" a", "b c"} {
		want, _ := dict.Lookup(key)
		got, ok := again.Lookup(key)
		if !ok || !reflect.DeepEqual(got, want) {
			t.Fatalf("key %q: reloaded candidates %v, want %v", key, got, want)
		}
	}
}
