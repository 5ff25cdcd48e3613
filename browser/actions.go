package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/signadot/objbrowse/codefile"
	"github.com/signadot/objbrowse/detail"
	"github.com/signadot/objbrowse/inspect"
	"github.com/signadot/objbrowse/settings"
)

// Load decodes the YAML, JSON or TOML document in file into plain maps,
// slices and scalars and registers the result under alias. An empty alias
// is derived from the file name.
func (b *Browser) Load(file, alias string) error {
	d, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var v any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		m := map[string]any{}
		err = toml.Unmarshal(d, &m)
		v = m
	default:
		err = yaml.Unmarshal(d, &v)
	}
	if err != nil {
		return fmt.Errorf("could not decode %s: %w", file, err)
	}
	if alias == "" {
		alias = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return b.Register(alias, v)
}

// SaveCode writes the code view to path, or to a name derived from the
// selection in the current directory when path is empty.
func (b *Browser) SaveCode(path string) (*codefile.Saved, error) {
	if path == "" {
		path = codefile.DefaultName(b.selected)
	}
	return codefile.Save(path, b.code)
}

// LoadCode replaces the code view with the content of path. Large files
// load with a logged warning.
func (b *Browser) LoadCode(path string) (*codefile.File, error) {
	f, err := codefile.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Warning != "" {
		b.log.Warn("large file", "path", path, "size", f.Size)
	}
	b.code = f.Text
	return f, nil
}

// ErrNoSourceFile is returned by EditCurrent for selections that have
// neither a source file nor a data rendering, such as method values of
// unnamed types.
var ErrNoSourceFile = errors.New("cannot find source file")

// EditCurrent opens the selection in the external editor and returns the
// file opened. Functions and values of named types open the file declaring
// them. Plain data is rendered to a temporary file which is opened instead;
// changes to it do not affect the value.
func (b *Browser) EditCurrent() (string, error) {
	if b.selected == nil {
		return "", ErrNoSelection
	}
	if b.info == nil {
		return "", fmt.Errorf("%s: %w", b.selected, inspect.ErrStale)
	}
	file := b.info.File
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			file = ""
		}
	}
	if file == "" {
		switch inspect.Classify(b.value) {
		case inspect.Callable, inspect.Attributes:
			return "", fmt.Errorf("%s (%s): %w", b.selected, b.info.Type, ErrNoSourceFile)
		}
		var err error
		file, err = b.writeView()
		if err != nil {
			return "", err
		}
	}
	if err := b.launch(b.Settings.Editor.Command, file); err != nil {
		return "", err
	}
	return file, nil
}

// writeView writes the selected data value to a temporary YAML file.
func (b *Browser) writeView() (string, error) {
	f, err := os.CreateTemp("", "objbrowse-*.yaml")
	if err != nil {
		return "", err
	}
	defer f.Close()
	fmt.Fprintf(f, "# Object: %s\n", b.selected)
	fmt.Fprintf(f, "# Type: %s\n", b.info.Type)
	fmt.Fprintf(f, "# Generated temporary view\n\n")
	var d []byte
	if b.value.IsValid() && b.value.CanInterface() {
		d, err = yaml.Marshal(b.value.Interface())
	}
	if d == nil || err != nil {
		d = []byte(detail.Dump(b.value, &detail.Options{Name: b.selected.String()}))
	}
	if _, err := f.Write(d); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// EditSettings hands a copy of the settings to edit. When edit returns
// true the copy replaces the settings and the tree is rebuilt with them.
func (b *Browser) EditSettings(edit func(*settings.Settings) bool) error {
	cp, err := b.Settings.Copy()
	if err != nil {
		return err
	}
	if !edit(cp) {
		return nil
	}
	b.Settings = cp
	b.Refresh()
	return nil
}

// ReloadSettings rereads the settings document and rebuilds the tree. A
// document that cannot be used leaves the defaults in place and is
// returned as a *settings.Warning.
func (b *Browser) ReloadSettings() error {
	if b.settingsPath == "" {
		b.Settings = settings.Default()
		b.Refresh()
		return nil
	}
	s, err := settings.Load(b.settingsPath)
	b.Settings = s
	b.Refresh()
	return err
}

// SaveSettings writes the settings document.
func (b *Browser) SaveSettings() error {
	if b.settingsPath == "" {
		return errors.New("no settings location")
	}
	return settings.Save(b.settingsPath, b.Settings)
}

type exportNode struct {
	Name     string        `yaml:"name"`
	Path     string        `yaml:"path"`
	Kind     string        `yaml:"kind"`
	Type     string        `yaml:"type"`
	Preview  string        `yaml:"preview,omitempty"`
	Cycle    bool          `yaml:"cycle,omitempty"`
	Children []*exportNode `yaml:"children,omitempty"`
}

func toExport(n *inspect.Node) *exportNode {
	res := &exportNode{
		Name:    n.Name,
		Path:    n.Path.String(),
		Kind:    n.Kind.String(),
		Type:    n.TypeName,
		Preview: n.Preview,
		Cycle:   n.Cycle,
	}
	for _, c := range n.Children {
		res.Children = append(res.Children, toExport(c))
	}
	return res
}

// ExportTree writes the tree as shown to w as a YAML document.
func (b *Browser) ExportTree(w io.Writer) error {
	nodes := make([]*exportNode, 0, len(b.view))
	for _, n := range b.view {
		nodes = append(nodes, toExport(n))
	}
	d, err := yaml.Marshal(nodes)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
