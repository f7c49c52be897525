package shell

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// newFileMode is used for dotfiles that did not exist before the edit.
const newFileMode fs.FileMode = 0o644

// BackupRCFile copies rcPath to rcPath+BackupSuffix, replacing any earlier
// backup, and returns the backup path. A symlinked rcPath is read through, so
// the backup holds the content AppendBlock is about to extend.
func BackupRCFile(rcPath string) (string, error) {
	info, err := os.Stat(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to stat file for backup",
			Cause:   err,
		}
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to read file for backup",
			Cause:   err,
		}
	}

	backupPath := rcPath + BackupSuffix
	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return "", &RCFileError{
			Path:    backupPath,
			Message: "failed to write backup file",
			Cause:   err,
		}
	}

	return backupPath, nil
}

// resolveRCPath returns the file an edit of rcPath must replace. A symlink is
// followed to its target so the rename keeps the link in place.
func resolveRCPath(rcPath string) (string, error) {
	info, err := os.Lstat(rcPath)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return rcPath, nil
	}
	target, err := filepath.EvalSymlinks(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to resolve symlink",
			Cause:   err,
		}
	}
	return target, nil
}

// AppendBlock appends block to rcPath, creating the file if needed. The new
// content is written to a temporary file in the same directory, synced and
// renamed over rcPath, so readers see either the old or the new file. When
// rcPath is a symlink its target is edited instead.
func AppendBlock(rcPath, block string) error {
	var existing []byte
	mode := newFileMode

	rcPath, err := resolveRCPath(rcPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(rcPath)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return &RCFileError{Path: rcPath, Message: "not a regular file"}
		}
		mode = info.Mode().Perm()
		existing, err = os.ReadFile(rcPath)
		if err != nil {
			return &RCFileError{
				Path:    rcPath,
				Message: "failed to read existing file",
				Cause:   err,
			}
		}
	case !os.IsNotExist(err):
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to stat file",
			Cause:   err,
		}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(rcPath), tmpPattern)
	if err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to create temporary file",
			Cause:   err,
		}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	fail := func(msg string, cause error) error {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: msg, Cause: cause}
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(block)

	if _, err := tmpFile.WriteString(b.String()); err != nil {
		return fail("failed to write content", err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return fail("failed to set file mode", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail("failed to sync file", err)
	}
	if err := tmpFile.Close(); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to close temporary file", Cause: err}
	}

	if err := os.Rename(tmpPath, rcPath); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to rename temp file",
			Cause:   err,
		}
	}

	return nil
}

// HasBlock reports whether rcPath already contains an initdot block for the
// named kind. Like AppendBlock it reads a symlink's target.
func HasBlock(rcPath, kind string) (bool, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{
			Path:    rcPath,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	marker := fmt.Sprintf("%s: %s", BlockMarker, kind)
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == marker {
			return true, nil
		}
	}
	return false, nil
}
