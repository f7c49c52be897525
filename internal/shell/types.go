package shell

import "fmt"

// RCFileError represents an error with dotfile operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dot file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("dot file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}

// UnsupportedShellError is returned for a dotfile whose shell has no snippet
// syntax.
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %q (supported: bash, sh, zsh, tcsh, csh)", e.Shell)
}
