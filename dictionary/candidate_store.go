package dictionary

import (
	"encoding/binary"
	"fmt"
)

// candidateStore keeps the candidate lists of a dictionary, indexed by the
// value the automaton maps a key to. Lists are stored flat, with offsets[i]
// marking the start of list i in flat.
type candidateStore struct {
	flat    []string
	offsets []uint32 // len == number of lists + 1
}

func newCandidateStore(capacity int) *candidateStore {
	s := &candidateStore{
		flat:    make([]string, 0, capacity),
		offsets: make([]uint32, 1, capacity+1),
	}
	return s
}

// add appends a candidate list and returns its index.
func (s *candidateStore) add(candidates []string) (uint32, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("empty candidate list")
	}
	idx := uint32(len(s.offsets) - 1)
	s.flat = append(s.flat, candidates...)
	s.offsets = append(s.offsets, uint32(len(s.flat)))
	return idx, nil
}

// get returns the candidate list at index i. The slice is shared and must
// not be modified.
func (s *candidateStore) get(i uint32) ([]string, bool) {
	if int(i) >= len(s.offsets)-1 {
		return nil, false
	}
	lo, hi := s.offsets[i], s.offsets[i+1]
	return s.flat[lo:hi:hi], true
}

func (s *candidateStore) len() int {
	return len(s.offsets) - 1
}

// marshal encodes the store as a string pool followed by the lists:
//
//	uvarint poolSize, poolSize × (uvarint len, bytes)
//	uvarint lists,    lists × (uvarint count, count × uvarint poolRef)
//
// Strings are pooled in order of first appearance.
func (s *candidateStore) marshal() []byte {
	pool := make(map[string]uint64)
	order := make([]string, 0)
	for _, c := range s.flat {
		if _, ok := pool[c]; !ok {
			pool[c] = uint64(len(order))
			order = append(order, c)
		}
	}
	buf := binary.AppendUvarint(nil, uint64(len(order)))
	for _, c := range order {
		buf = binary.AppendUvarint(buf, uint64(len(c)))
		buf = append(buf, c...)
	}
	buf = binary.AppendUvarint(buf, uint64(s.len()))
	for i := 0; i < s.len(); i++ {
		list, _ := s.get(uint32(i))
		buf = binary.AppendUvarint(buf, uint64(len(list)))
		for _, c := range list {
			buf = binary.AppendUvarint(buf, pool[c])
		}
	}
	return buf
}

type byteScanner struct {
	b   []byte
	off int
}

func (r *byteScanner) uvarint(what string) (uint64, error) {
	v, n := binary.Uvarint(r.b[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("bad varint for %s at offset %d", what, r.off)
	}
	r.off += n
	return v, nil
}

func (r *byteScanner) remaining() int { return len(r.b) - r.off }

func unmarshalCandidateStore(b []byte) (*candidateStore, error) {
	r := &byteScanner{b: b}
	poolSize, err := r.uvarint("pool size")
	if err != nil {
		return nil, err
	}
	if poolSize > uint64(r.remaining()) {
		return nil, fmt.Errorf("pool size %d exceeds buffer", poolSize)
	}
	pool := make([]string, poolSize)
	for i := range pool {
		l, err := r.uvarint("string length")
		if err != nil {
			return nil, err
		}
		if l > uint64(r.remaining()) {
			return nil, fmt.Errorf("string %d overruns buffer", i)
		}
		pool[i] = string(r.b[r.off : r.off+int(l)])
		r.off += int(l)
	}
	lists, err := r.uvarint("list count")
	if err != nil {
		return nil, err
	}
	if lists > uint64(r.remaining()) {
		return nil, fmt.Errorf("list count %d exceeds buffer", lists)
	}
	s := newCandidateStore(int(lists))
	for i := uint64(0); i < lists; i++ {
		count, err := r.uvarint("candidate count")
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("candidate list %d is empty", i)
		}
		if count > uint64(r.remaining()) {
			return nil, fmt.Errorf("candidate list %d overruns buffer", i)
		}
		for j := uint64(0); j < count; j++ {
			ref, err := r.uvarint("pool reference")
			if err != nil {
				return nil, err
			}
			if ref >= poolSize {
				return nil, fmt.Errorf("pool reference %d out of range", ref)
			}
			s.flat = append(s.flat, pool[ref])
		}
		s.offsets = append(s.offsets, uint32(len(s.flat)))
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after candidate table", r.remaining())
	}
	return s, nil
}
