package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		f    Format
		want *Settings
	}{
		{
			name: "empty",
			doc:  "",
			want: Default(),
		},
		{
			name: "partial yaml",
			doc:  "browser:\n  max_depth: 3\n",
			want: &Settings{
				Editor:     Editor{Command: DefaultEditorCommand},
				Browser:    Browser{MaxDepth: 3},
				Appearance: Appearance{FontSize: DefaultFontSize, Theme: DefaultTheme},
			},
		},
		{
			name: "json",
			doc:  `{"editor": {"editor_command": "code -g {filename}"}, "appearance": {"theme": "dracula", "font_size": 14}}`,
			f:    JSON,
			want: &Settings{
				Editor:     Editor{Command: "code -g {filename}"},
				Browser:    Browser{MaxDepth: DefaultMaxDepth},
				Appearance: Appearance{FontSize: 14, Theme: "dracula"},
			},
		},
		{
			name: "toml",
			doc:  "[browser]\nmax_depth = 2\n\n[appearance]\ntheme = \"github\"\n",
			f:    TOML,
			want: &Settings{
				Editor:     Editor{Command: DefaultEditorCommand},
				Browser:    Browser{MaxDepth: 2},
				Appearance: Appearance{FontSize: DefaultFontSize, Theme: "github"},
			},
		},
		{
			name: "legacy editor command",
			doc:  "advanced:\n  editor_command: nano {filename}\n",
			want: &Settings{
				Editor:     Editor{Command: "nano {filename}"},
				Browser:    Browser{MaxDepth: DefaultMaxDepth},
				Appearance: Appearance{FontSize: DefaultFontSize, Theme: DefaultTheme},
			},
		},
		{
			name: "editor command wins over legacy",
			doc:  "advanced:\n  editor_command: nano {filename}\neditor:\n  editor_command: emacs {filename}\n",
			want: &Settings{
				Editor:     Editor{Command: "emacs {filename}"},
				Browser:    Browser{MaxDepth: DefaultMaxDepth},
				Appearance: Appearance{FontSize: DefaultFontSize, Theme: DefaultTheme},
			},
		},
		{
			name: "unusable values",
			doc:  "browser:\n  max_depth: -2\nappearance:\n  font_size: 0\n",
			want: Default(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.doc), tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Default(), s); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestLoadMalformed(t *testing.T) {
	for name, doc := range map[string]string{
		"bad.yaml": "browser: [1, 2\n",
		"bad.json": `{"browser": {"max_depth": "deep"}}`,
		"bad.toml": "[browser\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatal(err)
			}
			s, err := Load(path)
			var w *Warning
			if !errors.As(err, &w) {
				t.Fatalf("expected warning, got %v", err)
			}
			if w.Path != path {
				t.Errorf("warning path %q", w.Path)
			}
			if d := cmp.Diff(Default(), s); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	s := Default()
	s.Browser.MaxDepth = 9
	s.Editor.Command = `code -g "{filename}"`
	s.Appearance.Theme = "solarized-dark"
	for _, name := range []string{"s.yaml", "s.json", "s.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", name)
			if err := Save(path, s); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(s, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	s := Default()
	s.Advanced = &Advanced{EditorCommand: "x"}
	c, err := s.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(s, c); d != "" {
		t.Fatalf("(-want +got):\n%s", d)
	}
	c.Browser.MaxDepth = 1
	c.Advanced.EditorCommand = "y"
	if s.Browser.MaxDepth != DefaultMaxDepth || s.Advanced.EditorCommand != "x" {
		t.Errorf("copy shares state with original")
	}
}

func TestGetSet(t *testing.T) {
	s := Default()
	for _, k := range Keys() {
		if _, err := s.Get(k); err != nil {
			t.Errorf("get %s: %v", k, err)
		}
	}
	if err := s.Set("browser.max_depth", "4"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("browser.max_depth"); v != "4" {
		t.Errorf("max_depth %s", v)
	}
	for _, kv := range [][2]string{
		{"browser.max_depth", "0"},
		{"browser.max_depth", "many"},
		{"appearance.font_size", "-1"},
		{"editor.editor_command", " "},
		{"appearance.theme", ""},
	} {
		if err := s.Set(kv[0], kv[1]); err == nil {
			t.Errorf("set %s=%q: expected error", kv[0], kv[1])
		}
	}
	if err := s.Set("nope", "1"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if s.Browser.MaxDepth != 4 {
		t.Errorf("failed set changed value to %d", s.Browser.MaxDepth)
	}
}
