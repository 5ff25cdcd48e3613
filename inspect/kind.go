package inspect

import "fmt"

// Kind is the semantic classification of a node.
type Kind int

const (
	Scalar Kind = iota
	Mapping
	Sequence
	Attributes
	Callable
)

var kindNames = map[Kind]string{
	Scalar:     "Scalar",
	Mapping:    "Mapping",
	Sequence:   "Sequence",
	Attributes: "Attributes",
	Callable:   "Callable",
}

func Kinds() []Kind {
	return []Kind{Scalar, Mapping, Sequence, Attributes, Callable}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Container reports whether nodes of this kind have children.
func (k Kind) Container() bool {
	return k == Mapping || k == Sequence || k == Attributes
}

// Icon returns the label prefix used for attribute nodes of this kind.
func (k Kind) Icon() string {
	switch k {
	case Callable:
		return "⚙"
	case Scalar:
		return "📊"
	case Mapping:
		return "📁"
	case Sequence:
		return "📋"
	}
	return "●"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for kk, s := range kindNames {
		if s == string(d) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(d))
}
