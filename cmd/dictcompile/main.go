/*
Command dictcompile compiles OpenCC text dictionaries into the binary
container format, and dumps containers back to text.

	dictcompile -i STPhrases.txt -o STPhrases.ocb
	dictcompile -i STPhrases.txt -o STPhrases.ocb -automaton fst
	dictcompile -dump -i STPhrases.ocb -o STPhrases.txt
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/opencc/dictionary"
	"github.com/npillmayer/opencc/textdict"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dictcompile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagIn        string
		flagOut       string
		flagAutomaton string
		flagCompress  bool
		flagDump      bool
	)
	fs.StringVar(&flagIn, "i", "", "input file (text dictionary, or container with -dump)")
	fs.StringVar(&flagOut, "o", "", "output file; with -dump defaults to stdout")
	fs.StringVar(&flagAutomaton, "automaton", "dat", "automaton backend: dat or fst")
	fs.BoolVar(&flagCompress, "compress", true, "zstd-compress the candidate table")
	fs.BoolVar(&flagDump, "dump", false, "decompile a container to text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if flagIn == "" || (flagOut == "" && !flagDump) {
		fmt.Fprintln(stderr, "dictcompile: -i and -o are required")
		fs.Usage()
		return 2
	}
	var err error
	if flagDump {
		err = dump(flagIn, flagOut, stdout)
	} else {
		err = compile(flagIn, flagOut, flagAutomaton, flagCompress, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "dictcompile: %v\n", err)
		var perr *dictionary.ParseError
		if errors.As(err, &perr) {
			return 3
		}
		return 1
	}
	return 0
}

func compile(in, out, automaton string, compress bool, stdout io.Writer) error {
	backend, err := dictionary.ParseBackend(automaton)
	if err != nil {
		return err
	}
	dict, err := textdict.LoadFile(in, dictionary.WithBackend(backend), dictionary.WithCompression(compress))
	if err != nil {
		return err
	}
	if err := dictionary.SaveFile(dict, out); err != nil {
		return err
	}
	s := dict.Stats()
	fmt.Fprintf(stdout, "%s: %d entries, max key length %d bytes, %s automaton %d bytes\n",
		out, s.Entries, s.MaxKeyLength, s.Backend, s.Bytes)
	return nil
}

func dump(in, out string, stdout io.Writer) error {
	dict, err := dictionary.LoadFile(in)
	if err != nil {
		return err
	}
	if out == "" {
		return textdict.Write(stdout, dict)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := textdict.Write(f, dict); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
