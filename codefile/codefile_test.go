package codefile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/objbrowse/opath"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	texts := []string{
		"package main\n",
		"no trailing newline",
		"  leading and trailing space \n\n",
		"unicode: ü ✓ 🔑\r\nwindows line",
	}
	for i, text := range texts {
		path := filepath.Join(t.TempDir(), "code.go")
		saved, err := Save(path, text)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if saved.Size != int64(len(text)) {
			t.Errorf("%d: size %d", i, saved.Size)
		}
		f, err := Load(path)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if f.Text != text {
			t.Errorf("%d: got %q, want %q", i, f.Text, text)
		}
	}
}

func TestSaveLoadMagicText(t *testing.T) {
	texts := []string{
		"BMI = weight / height^2\n",
		"MZ notes\n",
		"ID3 tags here\n",
		"%PDF notes\n",
	}
	for _, text := range texts {
		path := filepath.Join(t.TempDir(), "x.txt")
		if _, err := Save(path, text); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		f, err := Load(path)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if f.Text != text {
			t.Errorf("got %q, want %q", f.Text, text)
		}
	}
}

func TestSaveSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.go")
	s, err := Save(path, "a\nb\nc\n")
	if err != nil {
		t.Fatal(err)
	}
	want := &Saved{Path: path, Size: 6, Lines: 4, Inserted: 3}
	if d := cmp.Diff(want, s); d != "" {
		t.Errorf("first save (-want +got):\n%s", d)
	}
	s, err = Save(path, "a\nB\nc\nd\n")
	if err != nil {
		t.Fatal(err)
	}
	want = &Saved{Path: path, Size: 8, Lines: 5, Inserted: 2, Deleted: 1}
	if d := cmp.Diff(want, s); d != "" {
		t.Errorf("second save (-want +got):\n%s", d)
	}
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.go")
	_, err := Save(path, " \n\t")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("empty save created the file")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 32)...)
	files := map[string][]byte{
		"image.png": png,
		"latin1.go": {'c', 'a', 'f', 0xe9, '\n'},
	}
	for name, d := range files {
		if err := os.WriteFile(filepath.Join(dir, name), d, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		name string
		want error
	}{
		{"image.png", ErrBinary},
		{"latin1.go", ErrEncoding},
		{"missing.go", fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join(dir, tt.name))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var cerr *Error
			if !errors.As(err, &cerr) || cerr.Op != "load" || cerr.Remedy == "" {
				t.Errorf("unexpected error %#v", err)
			}
		})
	}
}

func TestLoadLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	d := bytes.Repeat([]byte("0123456789abcde\n"), LargeSize/16+1)
	if err := os.WriteFile(path, d, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Warning == "" {
		t.Errorf("no warning for %d bytes", f.Size)
	}
	if f.Lines != LargeSize/16+2 {
		t.Errorf("lines %d", f.Lines)
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`self.settings.Editor`, "Editor.go"},
		{`root["item"].Tags[1]`, "Tags_1.go"},
		{`cfg["servers"][0]`, "cfg_servers_0.go"},
		{`m{2}`, "m_2.go"},
		{`"my data"["a b"]`, "my_data_a_b.go"},
	}
	for _, tt := range tests {
		if got := DefaultName(opath.MustParse(tt.path)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.path, got, tt.want)
		}
	}
	if got := DefaultName(nil); got != "code.go" {
		t.Errorf("nil path: %s", got)
	}
}
