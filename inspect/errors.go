package inspect

import (
	"errors"
	"fmt"

	"github.com/signadot/objbrowse/opath"
)

// ErrStale is matched by every ResolutionError: the path no longer leads to
// a value in the current state of the graph.
var ErrStale = errors.New("stale path")

// ResolutionError represents a failure to replay a path on the live graph
type ResolutionError struct {
	Path   *opath.Path // full path being resolved
	Step   int         // index of the failing step, 0 for the anchor
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	seg := "anchor"
	if e.Step > 0 {
		steps := e.Path.Steps()
		if e.Step <= len(steps) {
			seg = steps[e.Step-1].SegmentString()
		}
	} else if e.Path != nil {
		seg = e.Path.SegmentString()
	}
	return fmt.Sprintf("cannot resolve %s at %s: %s", e.Path, seg, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrStale
}
