package dat

// DAT is a frozen double-array trie over UTF-8 byte strings.
//   - Nodes/states are indices into Base/Check (0 is unused; Root is 1).
//   - Transition: t := Base[s] + c; valid if Check[t] == s; next state is t.
//   - c is a dense alphabet ID in [1..Sigma]. c==0 means "not in alphabet".
//
// Outputs:
//   - If Value[s] != 0, node s is terminal and Value[s]-1 is the value
//     inserted for the key that ends in s.
//
// Alphabet:
//   - Alphabet maps a byte to its dense ID. Dense IDs are assigned in
//     ascending byte order, so walking children by dense ID visits keys in
//     byte-lexicographic order.
type DAT struct {
	// Root state index (always 1 for tries built by Builder).
	Root uint32

	// Sigma is the size of the dense alphabet (maximum dense ID).
	Sigma uint16

	// Alphabet maps bytes to dense IDs [0..Sigma].
	Alphabet [256]uint16

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// Value holds value+1 for terminal states, 0 otherwise.
	Value []uint32 // len == N

	symbols []byte // dense ID -> byte, index 0 unused
}

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok). dense must be in [1..Sigma].
func (d *DAT) Transition(state uint32, dense uint16) (uint32, bool) {
	if int(state) >= len(d.Base) {
		return 0, false
	}
	t := d.Base[state] + int32(dense)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// Step follows the edge labeled b from state.
func (d *DAT) Step(state uint32, b byte) (uint32, bool) {
	c := d.Alphabet[b]
	if c == 0 {
		return 0, false
	}
	return d.Transition(state, c)
}

// Output returns the value stored for a terminal state.
func (d *DAT) Output(state uint32) (uint32, bool) {
	if int(state) >= len(d.Value) {
		return 0, false
	}
	v := d.Value[state]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// LongestPrefix returns the length and value of the longest key which is a
// prefix of key.
func (d *DAT) LongestPrefix(key []byte) (n int, value uint32, ok bool) {
	state := d.Root
	for i, b := range key {
		next, found := d.Step(state, b)
		if !found {
			break
		}
		state = next
		if v, final := d.Output(state); final {
			n, value, ok = i+1, v, true
		}
	}
	return
}

// Walk calls fn for every key in ascending byte order, until fn returns
// false. The key slice is reused between calls.
func (d *DAT) Walk(fn func(key []byte, value uint32) bool) {
	if len(d.Base) <= int(d.Root) {
		return
	}
	symbols := d.symbols
	if symbols == nil {
		symbols = d.symbolTable()
	}
	key := make([]byte, 0, 64)
	d.walk(d.Root, key, symbols, fn)
}

func (d *DAT) walk(state uint32, key, symbols []byte, fn func([]byte, uint32) bool) bool {
	if v, ok := d.Output(state); ok {
		if !fn(key, v) {
			return false
		}
	}
	for c := uint16(1); c <= d.Sigma; c++ {
		next, ok := d.Transition(state, c)
		if !ok {
			continue
		}
		if !d.walk(next, append(key, symbols[c]), symbols, fn) {
			return false
		}
	}
	return true
}

func (d *DAT) symbolTable() []byte {
	symbols := make([]byte, int(d.Sigma)+1)
	for b := 0; b < 256; b++ {
		if c := d.Alphabet[b]; c != 0 {
			symbols[c] = byte(b)
		}
	}
	return symbols
}
