// Package codefile loads and saves the text of the code view.
package codefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/h2non/filetype"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/objbrowse/opath"
)

// LargeSize is the size above which Load sets a warning.
const LargeSize = 1 << 20

var (
	ErrBinary   = errors.New("binary file")
	ErrEncoding = errors.New("not valid UTF-8")
	ErrEmpty    = errors.New("nothing to save")
)

// Error represents a failed load or save
type Error struct {
	Op     string // "load" or "save"
	Path   string
	Cause  error
	Remedy string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
	if e.Remedy != "" {
		msg += " (" + e.Remedy + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(op, path string, cause error) *Error {
	e := &Error{Op: op, Path: path, Cause: cause}
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		e.Remedy = "check the file name"
	case errors.Is(cause, fs.ErrPermission):
		e.Remedy = "check the file permissions"
	case errors.Is(cause, ErrBinary):
		e.Remedy = "choose a text file"
	case errors.Is(cause, ErrEncoding):
		e.Remedy = "convert the file to UTF-8"
	case errors.Is(cause, ErrEmpty):
		e.Remedy = "select an object to fill the code view first"
	}
	return e
}

// File is a loaded code file.
type File struct {
	Path  string
	Text  string
	Size  int64
	Lines int

	// Warning is set for files larger than LargeSize.
	Warning string
}

// Load reads the text file at path. Any valid UTF-8 content loads; other
// content fails with ErrBinary when its format is recognized, ErrEncoding
// otherwise.
func Load(path string) (*File, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("load", path, err)
	}
	if !utf8.Valid(d) {
		if kind, _ := filetype.Match(d); kind != filetype.Unknown {
			return nil, newError("load", path, fmt.Errorf("%w (%s)", ErrBinary, kind.MIME.Value))
		}
		return nil, newError("load", path, ErrEncoding)
	}
	f := &File{
		Path:  path,
		Text:  string(d),
		Size:  int64(len(d)),
		Lines: CountLines(string(d)),
	}
	if f.Size > LargeSize {
		f.Warning = fmt.Sprintf("%s is %d bytes, loading large files may be slow", path, f.Size)
	}
	return f, nil
}

// Saved describes a completed save.
type Saved struct {
	Path  string
	Size  int64
	Lines int

	// Inserted and Deleted count changed lines relative to the previous
	// content of the file, which is empty when the file is new.
	Inserted int
	Deleted  int
}

func (s *Saved) String() string {
	return fmt.Sprintf("saved %s: %d bytes, %d lines (+%d -%d)", s.Path, s.Size, s.Lines, s.Inserted, s.Deleted)
}

// Save writes text to path as is. Blank text is not saved.
func Save(path, text string) (*Saved, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError("save", path, ErrEmpty)
	}
	var prev string
	if d, err := os.ReadFile(path); err == nil {
		prev = string(d)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, newError("save", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return nil, newError("save", path, err)
	}
	ins, del := LineDiff(prev, text)
	return &Saved{
		Path:     path,
		Size:     int64(len(text)),
		Lines:    CountLines(text),
		Inserted: ins,
		Deleted:  del,
	}, nil
}

// CountLines returns the number of newlines plus one.
func CountLines(s string) int {
	return strings.Count(s, "\n") + 1
}

// LineDiff returns the number of lines inserted into and deleted from
// from to get to.
func LineDiff(from, to string) (inserted, deleted int) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			n++
		}
		switch d.Type {
		case diffpatch.DiffInsert:
			inserted += n
		case diffpatch.DiffDelete:
			deleted += n
		}
	}
	return inserted, deleted
}

// DefaultName returns a file name for the code of the value at p: the last
// attribute name and the steps after it, joined by underscores.
//
//	self.settings.Editor  -> Editor.go
//	root["item"].Tags[1]  -> Tags_1.go
//	cfg["servers"][0]     -> cfg_servers_0.go
func DefaultName(p *opath.Path) string {
	if p == nil {
		return "code.go"
	}
	segs := append([]*opath.Path{p.Clone()}, p.Steps()...)
	start := 0
	for i, s := range segs {
		if s.Field != nil {
			start = i
		}
	}
	var parts []string
	for _, s := range segs[start:] {
		if w := sanitize(segText(s)); w != "" {
			parts = append(parts, w)
		}
	}
	if len(parts) == 0 {
		return "code.go"
	}
	return strings.Join(parts, "_") + ".go"
}

func segText(s *opath.Path) string {
	switch {
	case s.Field != nil:
		return *s.Field
	case s.Key != nil:
		if k, ok := s.Key.(string); ok {
			return k
		}
	}
	return s.SegmentString()
}

func sanitize(s string) string {
	res := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
	return strings.Trim(res, "_")
}
