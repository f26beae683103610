/*
Command opencc converts Chinese text read from a file or stdin.

	opencc -c s2t -i in.txt -o out.txt
	opencc -c /usr/share/opencc/s2twp.json < in.txt
	opencc -c t2s -segment < in.txt
	opencc -serve :8080

The -c flag takes the name of a built-in configuration or the path of an
OpenCC JSON configuration file. With -serve, conversions are offered over
HTTP on /convert, and metrics are exposed on /metrics.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/opencc"
	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/opencc/dictionary"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	config  string
	in      string
	out     string
	segment bool
	nfc     bool
	cache   int
	fst     bool
	serve   string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("opencc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	fs.StringVar(&f.config, "c", "s2t", "built-in configuration name or path of a JSON configuration")
	fs.StringVar(&f.in, "i", "", "input file (default stdin)")
	fs.StringVar(&f.out, "o", "", "output file (default stdout)")
	fs.BoolVar(&f.segment, "segment", false, "print the segmentation of each line instead of converting")
	fs.BoolVar(&f.nfc, "nfc", false, "normalize input to NFC before conversion")
	fs.IntVar(&f.cache, "cache", 0, "number of conversion results to cache")
	fs.BoolVar(&f.fst, "fst", false, "compile text dictionaries into FST automata")
	fs.StringVar(&f.serve, "serve", "", "serve conversions over HTTP on this address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	conv, err := newConverter(f.config, f.options()...)
	if err != nil {
		fmt.Fprintf(stderr, "opencc: %v\n", err)
		return 1
	}
	if f.serve != "" {
		if err := serve(f, conv); err != nil {
			fmt.Fprintf(stderr, "opencc: %v\n", err)
			return 1
		}
		return 0
	}
	if err := convertFiles(f, conv, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "opencc: %v\n", err)
		return 1
	}
	return 0
}

func (f flags) options() []opencc.Option {
	opts := []opencc.Option{opencc.WithCache(f.cache)}
	if f.fst {
		opts = append(opts, opencc.WithBackend(dictionary.BackendFST))
	}
	return opts
}

// newConverter interprets name as a built-in configuration first, and as a
// file path otherwise.
func newConverter(name string, opts ...opencc.Option) (*opencc.Converter, error) {
	if b, err := config.ParseBuiltin(name); err == nil {
		return opencc.NewFromBuiltin(b, opts...)
	}
	return opencc.NewFromFile(name, opts...)
}

func convertFiles(f flags, conv *opencc.Converter, stdin io.Reader, stdout io.Writer) (err error) {
	in, out := stdin, stdout
	if f.in != "" {
		file, err := os.Open(f.in)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		out = file
	}
	w := bufio.NewWriter(out)
	if f.segment {
		err = segmentLines(in, w, conv, f.nfc)
	} else {
		var t transform.Transformer = conv.Transformer()
		if f.nfc {
			t = transform.Chain(norm.NFC, t)
		}
		_, err = io.Copy(w, transform.NewReader(in, t))
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

func segmentLines(in io.Reader, w io.Writer, conv *opencc.Converter, nfc bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if nfc {
			line = norm.NFC.String(line)
		}
		if _, err := fmt.Fprintln(w, strings.Join(conv.Segment(line), " ")); err != nil {
			return err
		}
	}
	return scanner.Err()
}
