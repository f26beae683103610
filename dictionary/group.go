package dictionary

import "fmt"

// Matcher is anything the conversion engine can match against: a single
// Dictionary or a Group of them.
type Matcher interface {
	Match(s string, start int) (Match, bool)
	MatchBytes(b []byte, start int) (Match, bool)
	MaxKeyLength() int
}

var _ Matcher = (*Dictionary)(nil)
var _ Matcher = (*Group)(nil)

// TieBreak decides which member of a group wins when several members match
// keys of equal length.
type TieBreak uint8

const (
	// FirstListed prefers the member listed earliest.
	FirstListed TieBreak = iota
	// LastListed prefers the member listed last.
	LastListed
)

func (t TieBreak) String() string {
	switch t {
	case FirstListed:
		return "first-listed"
	case LastListed:
		return "last-listed"
	}
	return fmt.Sprintf("TieBreak(%d)", uint8(t))
}

// Group is an ordered list of matchers queried as one. The longest match
// among all members wins. A Group is immutable and safe for concurrent use.
type Group struct {
	members   []Matcher
	tie       TieBreak
	maxKeyLen int
}

// NewGroup creates a group of members. Nested groups are allowed.
func NewGroup(tie TieBreak, members ...Matcher) *Group {
	g := &Group{
		members: make([]Matcher, len(members)),
		tie:     tie,
	}
	copy(g.members, members)
	for _, m := range members {
		g.maxKeyLen = max(g.maxKeyLen, m.MaxKeyLength())
	}
	return g
}

// Members returns the group members in order.
func (g *Group) Members() []Matcher {
	mm := make([]Matcher, len(g.members))
	copy(mm, g.members)
	return mm
}

// TieBreak returns the tie-break policy of g.
func (g *Group) TieBreak() TieBreak { return g.tie }

// MaxKeyLength is the largest MaxKeyLength of all members.
func (g *Group) MaxKeyLength() int { return g.maxKeyLen }

// Match returns the longest match of any member at s[start:].
func (g *Group) Match(s string, start int) (Match, bool) {
	return g.best(func(m Matcher) (Match, bool) { return m.Match(s, start) })
}

// MatchBytes is Match for byte slices.
func (g *Group) MatchBytes(b []byte, start int) (Match, bool) {
	return g.best(func(m Matcher) (Match, bool) { return m.MatchBytes(b, start) })
}

func (g *Group) best(query func(Matcher) (Match, bool)) (best Match, found bool) {
	for _, m := range g.members {
		r, ok := query(m)
		if !ok {
			continue
		}
		if !found || r.Length > best.Length || (r.Length == best.Length && g.tie == LastListed) {
			best, found = r, true
		}
	}
	return
}
