package opath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Path
		wantErr bool
	}{
		{
			name:  "anchor only",
			input: "self",
			want:  &Path{Field: stringPtr("self")},
		},
		{
			name:  "attributes",
			input: "self.a.b",
			want: &Path{
				Field: stringPtr("self"),
				Next: &Path{
					Field: stringPtr("a"),
					Next:  &Path{Field: stringPtr("b")},
				},
			},
		},
		{
			name:  "index",
			input: "self.items[2]",
			want: &Path{
				Field: stringPtr("self"),
				Next: &Path{
					Field: stringPtr("items"),
					Next:  &Path{Index: intPtr(2)},
				},
			},
		},
		{
			name:  "string key",
			input: `cfg["a.b"][0]`,
			want: &Path{
				Field: stringPtr("cfg"),
				Next: &Path{
					Key:  "a.b",
					Next: &Path{Index: intPtr(0)},
				},
			},
		},
		{
			name:  "bool and float keys",
			input: "m[true][1.5]",
			want: &Path{
				Field: stringPtr("m"),
				Next: &Path{
					Key:  true,
					Next: &Path{Key: 1.5},
				},
			},
		},
		{
			name:  "negative integer key",
			input: "m[-4]",
			want: &Path{
				Field: stringPtr("m"),
				Next:  &Path{Index: intPtr(-4)},
			},
		},
		{
			name:  "entry",
			input: "m{3}.Name",
			want: &Path{
				Field: stringPtr("m"),
				Next: &Path{
					Entry: intPtr(3),
					Next:  &Path{Field: stringPtr("Name")},
				},
			},
		},
		{
			name:  "quoted anchor",
			input: `"my data".x`,
			want: &Path{
				Field: stringPtr("my data"),
				Next:  &Path{Field: stringPtr("x")},
			},
		},
		{
			name:  "quoted attribute with brackets",
			input: `a."b[0]"`,
			want: &Path{
				Field: stringPtr("a"),
				Next:  &Path{Field: stringPtr("b[0]")},
			},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "no anchor", input: "[0]", wantErr: true},
		{name: "leading dot", input: ".a", wantErr: true},
		{name: "unclosed bracket", input: "a[0", wantErr: true},
		{name: "unclosed key", input: `a["x`, wantErr: true},
		{name: "bad entry", input: "a{x}", wantErr: true},
		{name: "empty index", input: "a[]", wantErr: true},
		{name: "trailing dot", input: "a.", wantErr: true},
		{name: "nan key", input: "a[NaN]", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("Parse(%q) error %v is not ErrSyntax", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"self",
		"self.items[0]",
		`cfg["servers"][1].host`,
		`cfg["with \"quotes\""]`,
		"m[true][false]",
		"m[1.5][2.0][-3]",
		"m{0}{12}",
		`"my data".x`,
		`a."b.c"[0]`,
		"m[+Inf]",
	}
	for _, in := range inputs {
		p, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := p.String(); got != in {
			t.Errorf("Parse(%q).String() = %q", in, got)
		}
	}
}

func TestBuildString(t *testing.T) {
	p := New("self").
		Append(Field("registry")).
		Append(Key("a b")).
		Append(Index(2)).
		Append(Key(3.0)).
		Append(Entry(1))
	want := `self.registry["a b"][2][3.0]{1}`
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if p.Len() != 5 {
		t.Errorf("Len() = %d, want 5", p.Len())
	}
	if p.Anchor() != "self" {
		t.Errorf("Anchor() = %q", p.Anchor())
	}
}

func TestKey(t *testing.T) {
	if got := Key(7).StepKind(); got != IndexStep {
		t.Errorf("Key(7) kind = %v, want index", got)
	}
	if got := Key("x").StepKind(); got != KeyStep {
		t.Errorf(`Key("x") kind = %v, want key`, got)
	}
	if Key(struct{}{}) != nil {
		t.Errorf("Key(struct{}{}) should be nil")
	}
	if got := Key(float32(0.5)).SegmentString(); got != "[0.5]" {
		t.Errorf("float32 key = %q", got)
	}
}

func TestAppendNoSharing(t *testing.T) {
	base := MustParse("self.a")
	x := base.Append(Field("x"))
	y := base.Append(Field("y"))
	if base.String() != "self.a" {
		t.Errorf("base mutated: %q", base.String())
	}
	if x.String() != "self.a.x" || y.String() != "self.a.y" {
		t.Errorf("got %q and %q", x, y)
	}
	*x.Field = "other"
	if base.Anchor() != "self" {
		t.Errorf("Append shares the anchor segment")
	}
}

func TestParent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"self.a[0].b", "self.a[0]"},
		{"self.a", "self"},
		{"self", ""},
	}
	for _, tt := range tests {
		got := MustParse(tt.in).Parent()
		if got.String() != tt.want {
			t.Errorf("Parent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsChildOf(t *testing.T) {
	p := MustParse("self.a[0].b")
	if !p.IsChildOf(MustParse("self.a")) {
		t.Errorf("expected child of self.a")
	}
	if p.IsChildOf(p) {
		t.Errorf("path is not its own child")
	}
	if p.IsChildOf(MustParse("self.b")) {
		t.Errorf("unexpected child of self.b")
	}
	if !p.Equal(MustParse("self.a[0].b")) {
		t.Errorf("Equal failed")
	}
}

func TestSteps(t *testing.T) {
	steps := MustParse(`x.a["k"][1]{0}`).Steps()
	var kinds []StepKind
	for _, s := range steps {
		kinds = append(kinds, s.StepKind())
	}
	want := []StepKind{AttrStep, KeyStep, IndexStep, EntryStep}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := MustParse("x.a[1]").Last().SegmentString(); got != "[1]" {
		t.Errorf("Last() = %q", got)
	}
}

func TestText(t *testing.T) {
	var p Path
	if err := p.UnmarshalText([]byte(`a["b"]`)); err != nil {
		t.Fatal(err)
	}
	d, err := p.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `a["b"]` {
		t.Errorf("got %q", d)
	}
}
