// Package locate finds installed programs the way a user's shell would.
package locate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Which locates programs by running the external `which` command, so the
// answer matches what an interactive shell with the same PATH would find.
type Which struct {
	// Command overrides the lookup command (default "which").
	Command string
}

// ProgramDir returns the directory containing prog, or "" when `which` exits
// with a non-zero status. Only a failure to run the command is an error.
func (w Which) ProgramDir(ctx context.Context, prog string) (string, error) {
	name := w.Command
	if name == "" {
		name = "which"
	}

	//nolint:gosec // G204: prog is a fixed program name chosen by the caller
	out, err := exec.CommandContext(ctx, name, prog).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", fmt.Errorf("run %s %s: %w", name, prog, err)
	}

	return dirOf(strings.TrimSpace(string(out)), prog), nil
}

// dirOf strips "/prog" from the end of a `which` result. Output that does not
// end in the program name (an alias report, for instance) yields "".
func dirOf(path, prog string) string {
	trail := "/" + prog
	if !strings.HasSuffix(path, trail) {
		return ""
	}
	return strings.TrimSuffix(path, trail)
}
