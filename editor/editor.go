// Package editor launches an external editor on a file.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Placeholder is replaced by the file name in editor command templates.
const Placeholder = "{filename}"

var (
	ErrNoFile    = errors.New("no such file")
	ErrNoCommand = errors.New("empty editor command")
)

// Error represents a failure to start the editor
type Error struct {
	Template string
	File     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("editor %q on %s: %v", e.Template, e.File, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Command returns the argument vector for opening filename with the
// command template. The template is split like a shell command line and
// every occurrence of {filename} within an argument is replaced. When no
// argument contains the placeholder, filename is appended.
func Command(template, filename string) ([]string, error) {
	args, err := shellwords.Parse(template)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, ErrNoCommand
	}
	found := false
	for i, a := range args {
		if strings.Contains(a, Placeholder) {
			args[i] = strings.ReplaceAll(a, Placeholder, filename)
			found = true
		}
	}
	if !found {
		args = append(args, filename)
	}
	return args, nil
}

// Launch starts the editor on filename and returns without waiting for it
// to exit.
func Launch(template, filename string) error {
	wrap := func(err error) error {
		return &Error{Template: template, File: filename, Err: err}
	}
	if _, err := os.Stat(filename); err != nil {
		return wrap(fmt.Errorf("%w: %w", ErrNoFile, err))
	}
	args, err := Command(template, filename)
	if err != nil {
		return wrap(err)
	}
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return wrap(err)
	}
	if err := cmd.Process.Release(); err != nil {
		return wrap(err)
	}
	return nil
}
