package opath

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// StepKind classifies a single path segment.
type StepKind int

const (
	AnchorStep StepKind = iota
	AttrStep
	IndexStep
	KeyStep
	EntryStep
)

func (k StepKind) String() string {
	switch k {
	case AnchorStep:
		return "anchor"
	case AttrStep:
		return "attr"
	case IndexStep:
		return "index"
	case KeyStep:
		return "key"
	case EntryStep:
		return "entry"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Path is a linked list of segments. The head segment names the anchor and
// every following segment is one access step.
//
//	Path{Field: &"self", Next: &Path{Field: &"items", Next: &Path{Index: &0}}} → "self.items[0]"
//	Path{Field: &"cfg", Next: &Path{Key: "host"}}                              → `cfg["host"]`
//	Path{Field: &"m", Next: &Path{Entry: &2}}                                  → "m{2}"
type Path struct {
	Field *string // anchor (head segment) or attribute name
	Index *int    // sequence index or integer map key
	Key   any     // string, bool or float64 map key
	Entry *int    // map entry ordinal in sorted key order
	Next  *Path   // next segment, nil for the leaf
}

// New returns a path consisting only of the anchor name.
func New(anchor string) *Path {
	return &Path{Field: &anchor}
}

// Field returns a single attribute segment.
func Field(name string) *Path {
	return &Path{Field: &name}
}

// Index returns a single index segment.
func Index(i int) *Path {
	return &Path{Index: &i}
}

// Key returns a single key segment. Integer keys become index segments;
// keys of any other type than string, bool or float return nil.
func Key(k any) *Path {
	switch x := k.(type) {
	case string:
		return &Path{Key: x}
	case bool:
		return &Path{Key: x}
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return &Path{Key: x}
	case float32:
		return Key(float64(x))
	case int:
		return Index(x)
	case int64:
		if x < math.MinInt || x > math.MaxInt {
			return nil
		}
		return Index(int(x))
	}
	return nil
}

// Entry returns a single map entry segment.
func Entry(n int) *Path {
	return &Path{Entry: &n}
}

// StepKind reports the kind of the first segment of p. A field segment is
// an anchor when it is the head of the path, which the segment alone can't
// know; callers that need the distinction use Steps.
func (p *Path) StepKind() StepKind {
	switch {
	case p.Index != nil:
		return IndexStep
	case p.Key != nil:
		return KeyStep
	case p.Entry != nil:
		return EntryStep
	}
	return AttrStep
}

// Anchor returns the anchor name of the path.
func (p *Path) Anchor() string {
	if p == nil || p.Field == nil {
		return ""
	}
	return *p.Field
}

// Len returns the number of access steps after the anchor.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	n := 0
	for x := p.Next; x != nil; x = x.Next {
		n++
	}
	return n
}

// Steps returns copies of the access segments after the anchor.
func (p *Path) Steps() []*Path {
	if p == nil {
		return nil
	}
	var res []*Path
	for x := p.Next; x != nil; x = x.Next {
		res = append(res, x.copySegment())
	}
	return res
}

// Last returns a copy of the last segment.
func (p *Path) Last() *Path {
	if p == nil {
		return nil
	}
	x := p
	for x.Next != nil {
		x = x.Next
	}
	return x.copySegment()
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	res := p.copySegment()
	cur := res
	for x := p.Next; x != nil; x = x.Next {
		cur.Next = x.copySegment()
		cur = cur.Next
	}
	return res
}

// Append returns a copy of p extended by the segments of seg.
// Neither p nor seg is modified, so siblings never share segments.
func (p *Path) Append(seg *Path) *Path {
	if p == nil {
		return seg.Clone()
	}
	res := p.Clone()
	last := res
	for last.Next != nil {
		last = last.Next
	}
	last.Next = seg.Clone()
	return res
}

// Parent returns the path without its last segment, or nil for an anchor.
func (p *Path) Parent() *Path {
	if p == nil || p.Next == nil {
		return nil
	}
	res := p.copySegment()
	cur := res
	for x := p.Next; x.Next != nil; x = x.Next {
		cur.Next = x.copySegment()
		cur = cur.Next
	}
	return res
}

// IsChildOf returns true if parent is a proper prefix of p.
func (p *Path) IsChildOf(parent *Path) bool {
	if parent == nil || p == nil {
		return parent == nil && p != nil
	}
	pp, pparent := p, parent
	for pparent != nil {
		if pp == nil || !segmentsEqual(pp, pparent) {
			return false
		}
		pp = pp.Next
		pparent = pparent.Next
	}
	return pp != nil
}

// Equal reports whether p and o denote the same path.
func (p *Path) Equal(o *Path) bool {
	for p != nil && o != nil {
		if !segmentsEqual(p, o) {
			return false
		}
		p, o = p.Next, o.Next
	}
	return p == nil && o == nil
}

// String returns the textual form of the path.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		if x.Field != nil && x != p {
			buf.WriteByte('.')
		}
		buf.WriteString(x.SegmentString())
	}
	return buf.String()
}

// SegmentString returns the textual form of the first segment only.
//   - Path{Field: &"a"}     → "a"
//   - Path{Field: &"a b"}   → `"a b"`
//   - Path{Index: &0}       → "[0]"
//   - Path{Key: "k"}        → `["k"]`
//   - Path{Key: 1.5}        → "[1.5]"
//   - Path{Entry: &2}       → "{2}"
func (p *Path) SegmentString() string {
	if p == nil {
		return ""
	}
	switch {
	case p.Field != nil:
		if needsQuote(*p.Field) {
			return strconv.Quote(*p.Field)
		}
		return *p.Field
	case p.Index != nil:
		return "[" + strconv.Itoa(*p.Index) + "]"
	case p.Key != nil:
		return "[" + formatKey(p.Key) + "]"
	case p.Entry != nil:
		return "{" + strconv.Itoa(*p.Entry) + "}"
	}
	return ""
}

func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(d []byte) error {
	pp, err := Parse(string(d))
	if err != nil {
		return err
	}
	*p = *pp
	return nil
}

func (p *Path) copySegment() *Path {
	res := &Path{Key: p.Key}
	if p.Field != nil {
		f := *p.Field
		res.Field = &f
	}
	if p.Index != nil {
		i := *p.Index
		res.Index = &i
	}
	if p.Entry != nil {
		e := *p.Entry
		res.Entry = &e
	}
	return res
}

func segmentsEqual(a, b *Path) bool {
	if (a.Field == nil) != (b.Field == nil) {
		return false
	}
	if a.Field != nil {
		return *a.Field == *b.Field
	}
	if (a.Index == nil) != (b.Index == nil) {
		return false
	}
	if a.Index != nil {
		return *a.Index == *b.Index
	}
	if (a.Entry == nil) != (b.Entry == nil) {
		return false
	}
	if a.Entry != nil {
		return *a.Entry == *b.Entry
	}
	return a.Key == b.Key
}

func needsQuote(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return true
	}
	return false
}

func formatKey(k any) string {
	switch x := k.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	}
	return fmt.Sprintf("%v", k)
}
