package opath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("invalid object path")

// Parse parses the textual form of a path.
//
//   - "self"                  → anchor only
//   - "self.items[0]"         → anchor, attribute, index
//   - `cfg["servers"][1].host` → anchor, key, index, attribute
//   - `"my data".x`           → quoted anchor
//   - "m{3}"                  → anchor, map entry
//
// The first segment must be an anchor name.
func Parse(s string) (*Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSyntax)
	}
	switch s[0] {
	case '.', '[', '{':
		return nil, fmt.Errorf("%w: %q must start with an anchor name", ErrSyntax, s)
	}
	anchor, rest, err := parseField(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, s, err)
	}
	root := New(anchor)
	if err := parseFrag(rest, root); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, s, err)
	}
	return root, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// parseFrag parses the remaining fragment and links it after parent.
func parseFrag(frag string, parent *Path) error {
	cur := parent
	for len(frag) > 0 {
		var (
			seg *Path
			err error
		)
		switch frag[0] {
		case '.':
			var name string
			name, frag, err = parseField(frag[1:])
			if err != nil {
				return err
			}
			seg = Field(name)
		case '[':
			seg, frag, err = parseBracket(frag[1:])
			if err != nil {
				return err
			}
		case '{':
			i := strings.IndexByte(frag, '}')
			if i == -1 {
				return fmt.Errorf("expected '{' <entry> '}'")
			}
			n, err := strconv.Atoi(frag[1:i])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid entry %q", frag[1:i])
			}
			seg = Entry(n)
			frag = frag[i+1:]
		default:
			return fmt.Errorf("expected '.', '[' or '{', got %q", frag[0])
		}
		cur.Next = seg
		cur = seg
	}
	return nil
}

// parseField parses an attribute or anchor name, quoted or bare. A bare name
// stops at '.', '[' or '{'.
func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected name at end of path")
	}
	if frag[0] == '"' {
		q, err := strconv.QuotedPrefix(frag)
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted name: %w", err)
		}
		field, err = strconv.Unquote(q)
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted name: %w", err)
		}
		return field, frag[len(q):], nil
	}
	i := strings.IndexAny(frag, ".[{")
	if i == -1 {
		return frag, "", nil
	}
	if i == 0 {
		return "", "", fmt.Errorf("expected name, got %q", frag[0])
	}
	return frag[:i], frag[i:], nil
}

// parseBracket parses the inside of a [...] segment; frag starts after '['.
func parseBracket(frag string) (*Path, string, error) {
	if len(frag) > 0 && frag[0] == '"' {
		q, err := strconv.QuotedPrefix(frag)
		if err != nil {
			return nil, "", fmt.Errorf("invalid quoted key: %w", err)
		}
		rest := frag[len(q):]
		if len(rest) == 0 || rest[0] != ']' {
			return nil, "", fmt.Errorf("expected ']' after key %s", q)
		}
		key, err := strconv.Unquote(q)
		if err != nil {
			return nil, "", fmt.Errorf("invalid quoted key: %w", err)
		}
		return Key(key), rest[1:], nil
	}
	i := strings.IndexByte(frag, ']')
	if i == -1 {
		return nil, "", fmt.Errorf("expected '[' <index> ']'")
	}
	lit, rest := frag[:i], frag[i+1:]
	switch lit {
	case "":
		return nil, "", fmt.Errorf("empty index")
	case "true":
		return Key(true), rest, nil
	case "false":
		return Key(false), rest, nil
	}
	if n, err := strconv.Atoi(lit); err == nil {
		return Index(n), rest, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, "", fmt.Errorf("invalid index %q", lit)
	}
	seg := Key(f)
	if seg == nil {
		return nil, "", fmt.Errorf("invalid key %q", lit)
	}
	return seg, rest, nil
}
