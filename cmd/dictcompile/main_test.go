package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompileAndDump(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "d.txt")
	src := "转换\t轉換\n中文\t中文\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, automaton := range []string{"dat", "fst"} {
		out := filepath.Join(dir, "d-"+automaton+".ocb")
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-i", in, "-o", out, "-automaton", automaton}, &stdout, &stderr); code != 0 {
			t.Fatalf("%s: compile exited with %d: %s", automaton, code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "2 entries") {
			t.Fatalf("unexpected report %q", stdout.String())
		}
		stdout.Reset()
		if code := run([]string{"-dump", "-i", out}, &stdout, &stderr); code != 0 {
			t.Fatalf("%s: dump exited with %d: %s", automaton, code, stderr.String())
		}
		if stdout.String() != "中文\t中文\n转换\t轉換\n" {
			t.Fatalf("%s: unexpected dump %q", automaton, stdout.String())
		}
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.txt")
	os.WriteFile(bad, []byte("no tab\n"), 0o644)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", bad, "-o", filepath.Join(dir, "bad.ocb")}, &stdout, &stderr); code != 3 {
		t.Fatalf("parse error should exit with 3, got %d", code)
	}
	if !strings.Contains(stderr.String(), "bad.txt:1:") {
		t.Fatalf("error should name file and line: %q", stderr.String())
	}
	if code := run([]string{"-i", bad}, &stdout, &stderr); code != 2 {
		t.Fatalf("missing -o should exit with 2, got %d", code)
	}
	if code := run([]string{"-i", bad, "-o", "x", "-automaton", "btree"}, &stdout, &stderr); code != 1 {
		t.Fatalf("unknown automaton should exit with 1, got %d", code)
	}
}
