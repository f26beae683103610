package dat

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Binary layout, little endian:
//
//	root   uint32
//	sigma  uint16
//	alpha  [256]uint16
//	n      uint32
//	base   [n]int32
//	check  [n]int32
//	value  [n]uint32
const headerSize = 4 + 2 + 256*2 + 4

// ErrTruncated is returned by Unmarshal for buffers shorter than their
// declared content.
var ErrTruncated = errors.New("dat: truncated buffer")

// MarshalBinary encodes d. The encoding is a pure function of d's arrays.
func (d *DAT) MarshalBinary() ([]byte, error) {
	n := len(d.Base)
	if len(d.Check) != n || len(d.Value) != n {
		return nil, errors.New("dat: array length mismatch")
	}
	buf := make([]byte, 0, headerSize+12*n)
	buf = binary.LittleEndian.AppendUint32(buf, d.Root)
	buf = binary.LittleEndian.AppendUint16(buf, d.Sigma)
	for _, c := range d.Alphabet {
		buf = binary.LittleEndian.AppendUint16(buf, c)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
	for _, v := range d.Base {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	for _, v := range d.Check {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	for _, v := range d.Value {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf, nil
}

// Unmarshal decodes a trie produced by MarshalBinary and checks its
// structural invariants. The returned trie does not reference b.
func Unmarshal(b []byte) (*DAT, error) {
	if len(b) < headerSize {
		return nil, ErrTruncated
	}
	d := &DAT{}
	d.Root = binary.LittleEndian.Uint32(b[0:])
	d.Sigma = binary.LittleEndian.Uint16(b[4:])
	off := 6
	for i := range d.Alphabet {
		d.Alphabet[i] = binary.LittleEndian.Uint16(b[off:])
		off += 2
	}
	n := int(binary.LittleEndian.Uint32(b[off:]))
	off += 4
	if (len(b)-off)/12 < n || len(b)-off != 12*n {
		return nil, ErrTruncated
	}
	d.Base = make([]int32, n)
	d.Check = make([]int32, n)
	d.Value = make([]uint32, n)
	for i := range d.Base {
		d.Base[i] = int32(binary.LittleEndian.Uint32(b[off:]))
		off += 4
	}
	for i := range d.Check {
		d.Check[i] = int32(binary.LittleEndian.Uint32(b[off:]))
		off += 4
	}
	for i := range d.Value {
		d.Value[i] = binary.LittleEndian.Uint32(b[off:])
		off += 4
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	d.symbols = d.symbolTable()
	return d, nil
}

func (d *DAT) validate() error {
	n := len(d.Base)
	if n == 0 {
		return errors.New("dat: empty arrays")
	}
	if int(d.Root) >= n || d.Root == 0 {
		return fmt.Errorf("dat: root state %d out of range", d.Root)
	}
	if d.Check[d.Root] != 0 {
		return errors.New("dat: root has a parent")
	}
	seen := make([]bool, int(d.Sigma)+1)
	for b, c := range d.Alphabet {
		if c > d.Sigma {
			return fmt.Errorf("dat: dense id %d for byte %#x exceeds sigma %d", c, b, d.Sigma)
		}
		if c != 0 {
			if seen[c] {
				return fmt.Errorf("dat: dense id %d assigned twice", c)
			}
			seen[c] = true
		}
	}
	for t, parent := range d.Check {
		if parent < 0 || int(parent) >= n {
			return fmt.Errorf("dat: check[%d]=%d out of range", t, parent)
		}
		if parent == 0 {
			if d.Value[t] != 0 && t != int(d.Root) {
				return fmt.Errorf("dat: unreachable state %d carries a value", t)
			}
			continue
		}
		if int(parent) == t {
			return fmt.Errorf("dat: state %d is its own parent", t)
		}
		label := int32(t) - d.Base[parent]
		if label < 1 || label > int32(d.Sigma) {
			return fmt.Errorf("dat: state %d is not reachable from its parent %d", t, parent)
		}
	}
	return nil
}

// EncodedSize returns the length of d's binary encoding.
func EncodedSize(d *DAT) int {
	return headerSize + 12*len(d.Base)
}
