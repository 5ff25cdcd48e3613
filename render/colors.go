package render

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/signadot/objbrowse/inspect"
)

type Colorable struct {
	Kind inspect.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	PrefixColor ColorAttr = iota
	NameColor
	SepColor
	TypeColor
	StringColor
	NumberColor
	BoolColor
	NilColor
	MarkColor
	HeadingColor
	ErrorColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range inspect.Kinds() {
		able := Colorable{Kind: k, Attr: SepColor}
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = TypeColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = MarkColor
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = HeadingColor
		colors.Map[able] = color.New(color.Bold).SprintfFunc()
		able.Attr = ErrorColor
		colors.Map[able] = color.RedString
	}
	able := Colorable{Attr: NameColor}

	able.Kind = inspect.Mapping
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Kind = inspect.Sequence
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	able.Kind = inspect.Attributes
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Kind = inspect.Callable
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()

	able.Kind = inspect.Scalar
	able.Attr = StringColor
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Attr = NumberColor
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Attr = BoolColor
	colors.Map[able] = color.CyanString
	able.Attr = NilColor
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

// NoColors returns Colors that leave text unchanged.
func NoColors() *Colors {
	return &Colors{Default: colorDefault}
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k inspect.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k inspect.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}

// Enabled reports whether output to w should be colored. An explicit
// setting wins; otherwise only terminals get colors.
func Enabled(w io.Writer, explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// For returns NewColors or NoColors.
func For(enabled bool) *Colors {
	if enabled {
		return NewColors()
	}
	return NoColors()
}
