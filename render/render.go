// Package render writes the object browser's panels as terminal text.
package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/signadot/objbrowse/detail"
	"github.com/signadot/objbrowse/inspect"
	"github.com/signadot/objbrowse/opath"
)

const indent = "  "

// Label is the label of n with its parts colored. With NoColors it equals
// n.Label.
func (c *Colors) Label(n *inspect.Node) string {
	head := n.Name + ": " + n.TypeName
	i := strings.Index(n.Label, head)
	if i < 0 {
		return n.Label
	}
	var sb strings.Builder
	sb.WriteString(n.Label[:i])
	sb.WriteString(c.Color(n.Kind, NameColor, n.Name))
	sb.WriteString(c.Color(n.Kind, SepColor, ": "))
	sb.WriteString(c.Color(n.Kind, TypeColor, n.TypeName))
	if n.Preview != "" {
		sb.WriteString(c.Color(n.Kind, SepColor, " = "))
		sb.WriteString(c.preview(n.Preview))
	}
	sb.WriteString(c.Color(n.Kind, MarkColor, n.Label[i+len(head)+previewLen(n):]))
	return sb.String()
}

func previewLen(n *inspect.Node) int {
	if n.Preview == "" {
		return 0
	}
	return len(" = ") + len(n.Preview)
}

func (c *Colors) preview(p string) string {
	attr := NumberColor
	switch {
	case strings.HasPrefix(p, `"`):
		attr = StringColor
	case p == "true" || p == "false":
		attr = BoolColor
	case p == "nil":
		attr = NilColor
	}
	return c.Color(inspect.Scalar, attr, p)
}

// Tree writes the forest one node per line, indented by depth. The node
// with path selected, if any, is marked.
func Tree(w io.Writer, nodes []*inspect.Node, c *Colors, selected *opath.Path) error {
	var err error
	inspect.Walk(nodes, func(n *inspect.Node, depth int) bool {
		if err != nil {
			return false
		}
		mark := indent
		if selected != nil && n.Path.Equal(selected) {
			mark = c.Color(n.Kind, SepColor, "> ")
		}
		_, err = fmt.Fprintf(w, "%s%s%s\n", mark, strings.Repeat(indent, depth), c.Label(n))
		return true
	})
	return err
}

// Members writes the three member groups of ms. Empty groups are left out.
func Members(w io.Writer, ms *detail.MemberSet, c *Colors) error {
	groups := []struct {
		title   string
		members []detail.Member
	}{
		{"Properties", ms.Properties},
		{"Methods", ms.Methods},
		{"Special", ms.Special},
	}
	var sb strings.Builder
	for _, g := range groups {
		if len(g.members) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s (%d)\n", c.Color(inspect.Scalar, HeadingColor, g.title), len(g.members))
		for _, m := range g.members {
			sb.WriteString(indent)
			sb.WriteString(c.Color(inspect.Attributes, NameColor, m.Name))
			switch {
			case m.Signature != "":
				sb.WriteString(c.Color(inspect.Callable, TypeColor, m.Signature))
			case m.Type != "":
				sb.WriteString(c.Color(inspect.Scalar, SepColor, ": "))
				sb.WriteString(c.Color(inspect.Scalar, TypeColor, m.Type))
			}
			if m.Preview != "" {
				sb.WriteString(c.Color(inspect.Scalar, SepColor, " = "))
				if strings.HasPrefix(m.Preview, "<error:") {
					sb.WriteString(c.Color(inspect.Scalar, ErrorColor, m.Preview))
				} else {
					sb.WriteString(c.preview(m.Preview))
				}
			}
			sb.WriteByte('\n')
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("no members\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Metadata writes info as aligned "key: value" lines followed by the
// fields that could not be determined.
func Metadata(w io.Writer, info *detail.Info, c *Colors) error {
	rows := [][2]string{
		{"Path", info.Path},
		{"Type", info.Type},
		{"Kind", info.Kind},
		{"Package", info.Package},
		{"ID", info.ID},
		{"Size", fmt.Sprintf("%d bytes", info.Size)},
		{"Ancestors", strings.Join(info.Ancestors, " -> ")},
		{"Location", info.Location()},
	}
	var sb strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s %s\n", c.Color(inspect.Scalar, HeadingColor, fmt.Sprintf("%-10s", r[0]+":")), r[1])
	}
	if doc := strings.TrimSpace(info.Doc); doc != "" {
		fmt.Fprintf(&sb, "\n%s\n", c.Color(inspect.Scalar, HeadingColor, "Doc:"))
		for _, line := range strings.Split(doc, "\n") {
			sb.WriteString(indent + line + "\n")
		}
	}
	if len(info.Errors) != 0 {
		fmt.Fprintf(&sb, "\n%s\n", c.Color(inspect.Scalar, HeadingColor, "Unavailable:"))
		for _, k := range slices.Sorted(maps.Keys(info.Errors)) {
			fmt.Fprintf(&sb, "%s%s: %s\n", indent, k, c.Color(inspect.Scalar, ErrorColor, info.Errors[k]))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Code writes Go source text, highlighted with the chroma style named
// theme when highlight is set. Unknown themes use chroma's fallback style.
func Code(w io.Writer, text, theme string, highlight bool) error {
	if !highlight {
		_, err := io.WriteString(w, text)
		return err
	}
	lexer := lexers.Get("go")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return formatter.Format(w, styles.Get(theme), it)
}

// Themes lists the names accepted by Code.
func Themes() []string {
	return styles.Names()
}
