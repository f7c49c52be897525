package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoBinDir means no binary directory was given and none could be located.
	ErrNoBinDir = errors.New("have no found abin, so please use --dir-bin")
	// ErrMutualSourcing means .cshrc and .tcshrc source each other.
	ErrMutualSourcing = errors.New(".tcshrc and .cshrc seem to source each other")
)

// DirectoryError reports an unusable directory setting.
type DirectoryError struct {
	Option  string
	Path    string
	Message string
	Cause   error
}

func (e *DirectoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Option, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Option, e.Path, e.Message)
}

func (e *DirectoryError) Unwrap() error {
	return e.Cause
}

// InvalidName is one rejected dotfile name.
type InvalidName struct {
	Name string
	// HasPath is true when the name contains a '/'.
	HasPath bool
}

func (n InvalidName) String() string {
	if n.HasPath {
		return fmt.Sprintf("dotfile %s contains a path ('/' char) (use --dir-dot to specify location)", n.Name)
	}
	return fmt.Sprintf("not sure how to modify file %s", n.Name)
}

// InvalidNamesError collects every rejected name of a candidate list.
type InvalidNamesError struct {
	Names []InvalidName
}

func (e *InvalidNamesError) Error() string {
	msgs := make([]string, len(e.Names))
	for i, n := range e.Names {
		msgs[i] = n.String()
	}
	return fmt.Sprintf("%d invalid dotfile name(s): %s", len(e.Names), strings.Join(msgs, "; "))
}
