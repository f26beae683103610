package dictionary

import (
	"fmt"

	"github.com/npillmayer/opencc/dat"
)

type datAutomaton struct {
	trie *dat.DAT
}

func buildDATAutomaton(entries []Entry) (*datAutomaton, error) {
	b := dat.NewBuilder()
	for i, e := range entries {
		if err := b.Insert([]byte(e.Key), uint32(i)); err != nil {
			return nil, fmt.Errorf("could not insert key %q into trie: %w", e.Key, err)
		}
	}
	tracer().Debugf("placing %d trie nodes into double array", b.Nodes())
	trie, err := b.Freeze()
	if err != nil {
		return nil, err
	}
	return &datAutomaton{trie: trie}, nil
}

func decodeDATAutomaton(b []byte) (*datAutomaton, error) {
	trie, err := dat.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	return &datAutomaton{trie: trie}, nil
}

func (a *datAutomaton) longest(s string, start int) (int, uint32, bool) {
	return datLongest(a.trie, s, start)
}

func (a *datAutomaton) longestBytes(b []byte, start int) (int, uint32, bool) {
	return datLongest(a.trie, b, start)
}

// datLongest walks the trie from the root over s[start:] and remembers the
// last terminal state passed.
func datLongest[T ~string | ~[]byte](trie *dat.DAT, s T, start int) (n int, value uint32, ok bool) {
	state := trie.Root
	for i := start; i < len(s); i++ {
		next, found := trie.Step(state, s[i])
		if !found {
			break
		}
		state = next
		if v, final := trie.Output(state); final {
			n, value, ok = i+1-start, v, true
		}
	}
	return
}

func (a *datAutomaton) walk(fn func(key []byte, value uint32) bool) error {
	a.trie.Walk(fn)
	return nil
}

func (a *datAutomaton) marshal() ([]byte, error) {
	return a.trie.MarshalBinary()
}

func (a *datAutomaton) backend() Backend { return BackendDAT }

func (a *datAutomaton) stats() Stats {
	s := a.trie.Stats()
	return Stats{
		Backend:   BackendDAT,
		Slots:     s.TotalSlots,
		UsedSlots: s.UsedSlots,
		Bytes:     dat.EncodedSize(a.trie),
	}
}
