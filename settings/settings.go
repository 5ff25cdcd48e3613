// Package settings reads and writes the object browser settings document.
//
// A settings document looks like
//
//	editor:
//	  editor_command: code -g {filename}
//	browser:
//	  max_depth: 4
//	appearance:
//	  font_size: 12
//	  theme: dracula
//
// YAML and JSON documents are read with goccy/go-yaml, files ending in
// .toml with go-toml. Missing keys take their defaults.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/signadot/objbrowse/debug"
)

const (
	DefaultEditorCommand = "vi {filename}"
	DefaultMaxDepth      = 6
	DefaultFontSize      = 10
	DefaultTheme         = "monokai"
)

type Settings struct {
	Editor     Editor     `yaml:"editor" json:"editor" toml:"editor"`
	Browser    Browser    `yaml:"browser" json:"browser" toml:"browser"`
	Appearance Appearance `yaml:"appearance" json:"appearance" toml:"appearance"`

	// Advanced is the legacy location of the editor command. It is read
	// when editor.editor_command is missing and never written.
	Advanced *Advanced `yaml:"advanced,omitempty" json:"advanced,omitempty" toml:"advanced,omitempty"`
}

type Editor struct {
	// Command is the external editor command line; {filename} is replaced
	// by the file to open.
	Command string `yaml:"editor_command" json:"editor_command" toml:"editor_command"`
}

type Browser struct {
	MaxDepth int `yaml:"max_depth" json:"max_depth" toml:"max_depth"`
}

type Appearance struct {
	FontSize int    `yaml:"font_size" json:"font_size" toml:"font_size"`
	Theme    string `yaml:"theme" json:"theme" toml:"theme"`
}

type Advanced struct {
	EditorCommand string `yaml:"editor_command,omitempty" json:"editor_command,omitempty" toml:"editor_command,omitempty"`
}

// Default returns the settings used when no document is present.
func Default() *Settings {
	return &Settings{
		Editor:     Editor{Command: DefaultEditorCommand},
		Browser:    Browser{MaxDepth: DefaultMaxDepth},
		Appearance: Appearance{FontSize: DefaultFontSize, Theme: DefaultTheme},
	}
}

// DefaultPath returns ~/.objbrowse/settings.yaml.
func DefaultPath() (string, error) {
	return homedir.Expand(filepath.Join("~", ".objbrowse", "settings.yaml"))
}

// Warning reports a settings document that could not be used. The settings
// returned along with it are the defaults.
type Warning struct {
	Path string
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("settings %s: %v (using defaults)", w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// Load reads the settings document at path. It always returns usable
// settings: a missing document gives the defaults and no error, an
// unreadable or malformed one gives the defaults and a *Warning.
func Load(path string) (*Settings, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Default(), &Warning{Path: path, Err: err}
	}
	d, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), &Warning{Path: path, Err: err}
	}
	s, err := Decode(d, formatOf(path))
	if err != nil {
		return Default(), &Warning{Path: path, Err: err}
	}
	if debug.Settings() {
		debug.LogAny(s)
	}
	return s, nil
}

// Format is a settings document format.
type Format int

const (
	YAML Format = iota
	JSON
	TOML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".json":
		return JSON
	}
	return YAML
}

// Decode parses a settings document and fills in defaults.
func Decode(d []byte, f Format) (*Settings, error) {
	s := &Settings{}
	if len(bytes.TrimSpace(d)) != 0 {
		var err error
		switch f {
		case TOML:
			err = toml.Unmarshal(d, s)
		default:
			err = yaml.Unmarshal(d, s)
		}
		if err != nil {
			return nil, err
		}
	}
	s.fill()
	return s, nil
}

// fill replaces missing or unusable values with defaults.
func (s *Settings) fill() {
	if s.Editor.Command == "" && s.Advanced != nil {
		s.Editor.Command = s.Advanced.EditorCommand
	}
	s.Advanced = nil
	if strings.TrimSpace(s.Editor.Command) == "" {
		s.Editor.Command = DefaultEditorCommand
	}
	if s.Browser.MaxDepth < 1 {
		s.Browser.MaxDepth = DefaultMaxDepth
	}
	if s.Appearance.FontSize < 1 {
		s.Appearance.FontSize = DefaultFontSize
	}
	if s.Appearance.Theme == "" {
		s.Appearance.Theme = DefaultTheme
	}
}

// Encode renders s in format f.
func Encode(s *Settings, f Format) ([]byte, error) {
	switch f {
	case TOML:
		return toml.Marshal(s)
	case JSON:
		return yaml.MarshalWithOptions(s, yaml.JSON())
	}
	return yaml.Marshal(s)
}

// Save writes s to path, creating parent directories. The format follows
// the file extension.
func Save(path string, s *Settings) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	d, err := Encode(s, formatOf(path))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// Copy returns a deep copy of s.
func (s *Settings) Copy() (*Settings, error) {
	res := &Settings{}
	if err := copier.CopyWithOption(res, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("could not copy settings: %w", err)
	}
	return res, nil
}

// Keys lists the settings keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"editor.editor_command",
		"browser.max_depth",
		"appearance.font_size",
		"appearance.theme",
	}
}

// ErrUnknownKey is returned by Get and Set for keys not in Keys.
var ErrUnknownKey = errors.New("unknown settings key")

func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "editor.editor_command":
		return s.Editor.Command, nil
	case "browser.max_depth":
		return strconv.Itoa(s.Browser.MaxDepth), nil
	case "appearance.font_size":
		return strconv.Itoa(s.Appearance.FontSize), nil
	case "appearance.theme":
		return s.Appearance.Theme, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
}

// Set parses val and assigns it to key.
func (s *Settings) Set(key, val string) error {
	switch key {
	case "editor.editor_command":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s: empty command", key)
		}
		s.Editor.Command = val
	case "browser.max_depth":
		n, err := positive(key, val)
		if err != nil {
			return err
		}
		s.Browser.MaxDepth = n
	case "appearance.font_size":
		n, err := positive(key, val)
		if err != nil {
			return err
		}
		s.Appearance.FontSize = n
	case "appearance.theme":
		if val == "" {
			return fmt.Errorf("%s: empty theme", key)
		}
		s.Appearance.Theme = val
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}

func positive(key, val string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}
