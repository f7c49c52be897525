// Package transaction guards dotfile edits with a directory lock and a
// journal recording which files were being changed, so an interrupted run
// can be reported and its backups found.
package transaction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// State represents the progress of a single file edit.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// journalPattern matches journal files left in a dotfile directory.
const journalPattern = ".initdot-txn-*.json"

// EditTxn is the on-disk journal of one apply run.
type EditTxn struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Files     []FileTxn `json:"files"`
}

// FileTxn records the state of one dotfile within an EditTxn.
type FileTxn struct {
	Path       string `json:"path"`
	State      State  `json:"state"`
	Updates    string `json:"updates,omitempty"`
	BackupPath string `json:"backup_path,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// New creates a journal with every path pending.
func New(paths []string) *EditTxn {
	files := make([]FileTxn, 0, len(paths))
	for _, path := range paths {
		files = append(files, FileTxn{Path: path, State: StatePending})
	}

	return &EditTxn{
		Version:   1,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Files:     files,
	}
}

// Filename returns the journal's base name.
func (t *EditTxn) Filename() string {
	return fmt.Sprintf(".initdot-txn-%s.json", t.ID)
}

// Save writes the journal into dir atomically.
func (t *EditTxn) Save(dir string) error {
	finalPath := filepath.Join(dir, t.Filename())
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write temporary journal file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename journal file: %w", err)
	}

	// sync the directory so the rename survives a crash
	df, err := os.Open(dir)
	if err == nil {
		if syncErr := df.Sync(); syncErr != nil {
			df.Close()
			return fmt.Errorf("sync directory: %w", syncErr)
		}
		df.Close()
	}

	return nil
}

// Remove deletes the journal from dir once the run is complete.
func (t *EditTxn) Remove(dir string) error {
	if err := os.Remove(filepath.Join(dir, t.Filename())); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove journal: %w", err)
	}
	return nil
}

// Load reads a journal from disk.
func Load(path string) (*EditTxn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var txn EditTxn
	if err := json.Unmarshal(data, &txn); err != nil {
		return nil, fmt.Errorf("unmarshal journal %s: %w", path, err)
	}
	return &txn, nil
}

// Find returns the journals left in dir by earlier runs, oldest name first.
func Find(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, journalPattern))
	if err != nil {
		return nil, fmt.Errorf("find journals: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// UpdateFile records the outcome for path.
func (t *EditTxn) UpdateFile(path string, state State, backupPath, updates string, err error) {
	for i := range t.Files {
		if t.Files[i].Path != path {
			continue
		}
		t.Files[i].State = state
		if backupPath != "" {
			t.Files[i].BackupPath = backupPath
		}
		if updates != "" {
			t.Files[i].Updates = updates
		}
		if err != nil {
			t.Files[i].LastError = err.Error()
		} else {
			t.Files[i].LastError = ""
		}
		return
	}
}

// Unfinished returns the files still pending or failed.
func (t *EditTxn) Unfinished() []FileTxn {
	var out []FileTxn
	for _, f := range t.Files {
		if f.State != StateCompleted {
			out = append(out, f)
		}
	}
	return out
}

// AllCompleted reports whether every file reached StateCompleted.
func (t *EditTxn) AllCompleted() bool {
	return len(t.Files) > 0 && len(t.Unfinished()) == 0
}

// Resolve marks the unfinished files whose paths are in done as completed and
// returns how many changed.
func (t *EditTxn) Resolve(done map[string]bool) int {
	n := 0
	for i := range t.Files {
		f := &t.Files[i]
		if f.State == StateCompleted || !done[f.Path] {
			continue
		}
		f.State = StateCompleted
		f.LastError = ""
		n++
	}
	return n
}
