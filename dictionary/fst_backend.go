package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/blevesearch/vellum"
)

type fstAutomaton struct {
	fst  *vellum.FST
	data []byte
}

func buildFSTAutomaton(entries []Entry) (*fstAutomaton, error) {
	var buf bytes.Buffer
	b, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := b.Insert([]byte(e.Key), uint64(i)); err != nil {
			return nil, fmt.Errorf("could not insert key %q into transducer: %w", e.Key, err)
		}
	}
	if err := b.Close(); err != nil {
		return nil, err
	}
	return decodeFSTAutomaton(buf.Bytes())
}

// decodeFSTAutomaton loads a transducer from a private copy of b, as
// vellum keeps referencing the buffer it was loaded from.
func decodeFSTAutomaton(b []byte) (a *fstAutomaton, err error) {
	data := bytes.Clone(b)
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("malformed transducer: %v", r)
		}
	}()
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, err
	}
	return &fstAutomaton{fst: fst, data: data}, nil
}

func (a *fstAutomaton) longest(s string, start int) (int, uint32, bool) {
	return fstLongest(a.fst, s, start)
}

func (a *fstAutomaton) longestBytes(b []byte, start int) (int, uint32, bool) {
	return fstLongest(a.fst, b, start)
}

// fstLongest runs the transducer over s[start:]. Outputs along the path are
// summed; a final state adds its final output.
func fstLongest[T ~string | ~[]byte](fst *vellum.FST, s T, start int) (n int, value uint32, ok bool) {
	addr := fst.Start()
	var out uint64
	for i := start; i < len(s); i++ {
		next, o := fst.AcceptWithVal(addr, s[i])
		if !fst.CanMatch(next) {
			break
		}
		addr = next
		out += o
		if final, fo := fst.IsMatchWithVal(addr); final {
			n, value, ok = i+1-start, uint32(out+fo), true
		}
	}
	return
}

func (a *fstAutomaton) walk(fn func(key []byte, value uint32) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed transducer: %v", r)
		}
	}()
	it, err := a.fst.Iterator(nil, nil)
	for err == nil {
		key, v := it.Current()
		if v > math.MaxUint32 {
			return fmt.Errorf("transducer value %d for key %q out of range", v, key)
		}
		if !fn(key, uint32(v)) {
			return nil
		}
		err = it.Next()
	}
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	return err
}

func (a *fstAutomaton) marshal() ([]byte, error) {
	return bytes.Clone(a.data), nil
}

func (a *fstAutomaton) backend() Backend { return BackendFST }

func (a *fstAutomaton) stats() Stats {
	return Stats{
		Backend: BackendFST,
		Bytes:   len(a.data),
	}
}
