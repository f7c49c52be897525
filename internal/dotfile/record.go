package dotfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record is everything one planning run learns about a single dotfile.
type Record struct {
	Name Name
	Path string

	// Exists is true when Path is a regular file.
	Exists bool
	// Read is true when the file content was loaded into Lines.
	Read  bool
	Lines []string

	// Follows marks a file that sources its sibling (.tcshrc sourcing .cshrc),
	// so the sibling carries every modification.
	Follows bool
	// FollowedAsBashEnv marks a .bashrc that exports BASH_ENV.
	FollowedAsBashEnv bool

	NeedsPath       bool
	NeedsLibPath    bool
	NeedsCompletion bool
}

// ReadError reports an existing dotfile that could not be read.
// It is advisory: the Record is still usable and simply has no lines.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read existing dot file %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Load builds the Record for name under dir. A missing file is not an error.
// An unreadable one yields a usable Record together with a *ReadError.
func Load(dir string, name Name) (*Record, error) {
	rec := &Record{
		Name: name,
		Path: filepath.Join(dir, name.String()),
	}

	info, err := os.Stat(rec.Path)
	if err != nil || !info.Mode().IsRegular() {
		return rec, nil
	}
	rec.Exists = true

	content, err := os.ReadFile(rec.Path)
	if err != nil {
		return rec, &ReadError{Path: rec.Path, Cause: err}
	}
	rec.Read = true
	rec.Lines = splitLines(string(content))

	return rec, nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// HasToken is ContainsToken over the record's lines.
func (r *Record) HasToken(token string, substr bool) bool {
	return ContainsToken(r.Lines, token, substr)
}

// HasTokenPair is ContainsTokenPair over the record's lines.
func (r *Record) HasTokenPair(first, second string, substrFirst, substrSecond bool) bool {
	return ContainsTokenPair(r.Lines, first, second, substrFirst, substrSecond)
}

// Sources reports whether the file appears to contain "source <file>" or
// ". <file>". The file name may carry a path, so it is matched as a substring.
func (r *Record) Sources(file string) bool {
	return r.HasTokenPair("source", file, false, true) ||
		r.HasTokenPair(".", file, false, true)
}

// ModificationCount is the number of modifications the file needs.
func (r *Record) ModificationCount() int {
	n := 0
	for _, need := range []bool{r.NeedsPath, r.NeedsLibPath, r.NeedsCompletion} {
		if need {
			n++
		}
	}
	return n
}
