package debug

import "testing"

func TestSetWalk(t *testing.T) {
	prev := *d
	defer func() { *d = prev }()
	*d = debug{}
	if Any() {
		t.Fatal("no switch set")
	}
	SetWalk(true)
	if !Walk() || !Any() {
		t.Errorf("walk %v any %v", Walk(), Any())
	}
	SetWalk(false)
	if Walk() || Any() {
		t.Errorf("walk %v any %v", Walk(), Any())
	}
}
