package dat

import (
	"errors"
	"sort"
)

const rootState = 1

type buildNode struct {
	value    uint32 // value+1, 0 for inner nodes
	state    uint32
	children map[byte]*buildNode
}

// Builder collects keys into a pointer-based trie and compiles it into a
// double-array on Freeze. A Builder may be frozen only once.
type Builder struct {
	root      *buildNode
	used      [256]bool
	nodes     int
	frozen    bool
	firstFree int // lowest slot index which may still be unoccupied
}

// NewBuilder creates an empty trie builder.
func NewBuilder() *Builder {
	return &Builder{
		root:  &buildNode{},
		nodes: 1,
	}
}

// ErrFrozen is returned when inserting into a builder which has already
// produced its double-array.
var ErrFrozen = errors.New("dat: builder already frozen")

// Insert stores value for key. Inserting a key twice overwrites its value.
// Empty keys are rejected.
func (b *Builder) Insert(key []byte, value uint32) error {
	if b.frozen {
		return ErrFrozen
	}
	if len(key) == 0 {
		return errors.New("dat: empty key")
	}
	if value == ^uint32(0) {
		return errors.New("dat: value out of range")
	}
	n := b.root
	for _, c := range key {
		b.used[c] = true
		if n.children == nil {
			n.children = make(map[byte]*buildNode)
		}
		child := n.children[c]
		if child == nil {
			child = &buildNode{}
			n.children[c] = child
			b.nodes++
		}
		n = child
	}
	n.value = value + 1
	return nil
}

// Nodes returns the number of trie nodes inserted so far, including the root.
func (b *Builder) Nodes() int { return b.nodes }

// Freeze places all nodes into a double-array and returns it. The builder
// drops its construction state afterwards.
func (b *Builder) Freeze() (*DAT, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	d := &DAT{Root: rootState}
	for c := 0; c < 256; c++ {
		if b.used[c] {
			d.Sigma++
			d.Alphabet[c] = d.Sigma
		}
	}
	d.symbols = d.symbolTable()
	d.Base = make([]int32, rootState+1, b.nodes+int(d.Sigma)+2)
	d.Check = make([]int32, rootState+1, cap(d.Base))
	d.Value = make([]uint32, rootState+1, cap(d.Base))
	b.firstFree = rootState + 1
	b.root.state = rootState
	d.Value[rootState] = b.root.value
	queue := []*buildNode{b.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		queue[q] = nil
		if len(n.children) == 0 {
			continue
		}
		labels := sortedLabels(n.children)
		dense := make([]uint16, len(labels))
		for i, l := range labels {
			dense[i] = d.Alphabet[l]
		}
		base := b.findBase(d, dense)
		ensureIndex(d, base+int(dense[len(dense)-1]))
		d.Base[n.state] = int32(base)
		for i, label := range labels {
			t := base + int(dense[i])
			child := n.children[label]
			child.state = uint32(t)
			d.Check[t] = int32(n.state)
			d.Value[t] = child.value
			queue = append(queue, child)
		}
		b.advanceFirstFree(d)
	}
	b.root = nil
	b.frozen = true
	return d, nil
}

func sortedLabels(children map[byte]*buildNode) []byte {
	labels := make([]byte, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i] < labels[j]
	})
	return labels
}

// findBase searches the first base for which all child slots are free.
// Slots at or beyond the current array length count as free.
func (b *Builder) findBase(d *DAT, dense []uint16) int {
	base := b.firstFree - int(dense[0])
	if base < 1 {
		base = 1
	}
	for ; ; base++ {
		ok := true
		for _, c := range dense {
			t := base + int(c)
			if t < len(d.Check) && (d.Check[t] != 0 || t == rootState) {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
}

func (b *Builder) advanceFirstFree(d *DAT) {
	for b.firstFree < len(d.Check) && (d.Check[b.firstFree] != 0 || b.firstFree == rootState) {
		b.firstFree++
	}
}

func ensureIndex(d *DAT, idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
	d.Value = append(d.Value, make([]uint32, grow)...)
}

// Stats reports density metrics for a frozen trie.
type Stats struct {
	UsedSlots  int
	TotalSlots int
	MaxStateID int
}

// FillRatio is the share of used slots.
func (s Stats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

// Stats counts occupied slots of d.
func (d *DAT) Stats() Stats {
	stats := Stats{
		TotalSlots: d.NStates(),
		MaxStateID: int(d.Root),
	}
	if stats.TotalSlots == 0 {
		return stats
	}
	for i := range d.Check {
		if i == int(d.Root) || d.Check[i] != 0 {
			stats.UsedSlots++
			if i > stats.MaxStateID {
				stats.MaxStateID = i
			}
		}
	}
	return stats
}
