package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

// Tokens and programs the checks look for.
const (
	FlatDir    = "/opt/X11/lib/flat_namespace"
	DylibVar   = "DYLD_LIBRARY_PATH"
	BashEnv    = "BASH_ENV"
	RefProgram = "afni_proc.py"
)

// Updates is a set of modification kinds.
type Updates uint8

const (
	// UpdateApsearch sources the shell's completion helper.
	UpdateApsearch Updates = 1 << iota
	// UpdateFlatdir sets DYLD_LIBRARY_PATH to the X11 flat namespace.
	UpdateFlatdir
	// UpdatePath adds the binary directory to PATH.
	UpdatePath

	UpdateNone Updates = 0
	UpdateAll          = UpdateApsearch | UpdateFlatdir | UpdatePath
)

// UpdateNames lists the values accepted by ParseUpdates.
var UpdateNames = []string{"apsearch", "flatdir", "path", "ALL"}

// ParseUpdates converts user-facing update names into a set.
func ParseUpdates(names []string) (Updates, error) {
	var u Updates
	for _, name := range names {
		switch name {
		case "apsearch":
			u |= UpdateApsearch
		case "flatdir":
			u |= UpdateFlatdir
		case "path":
			u |= UpdatePath
		case "ALL":
			u |= UpdateAll
		default:
			return UpdateNone, fmt.Errorf("invalid update %q (valid: %s)", name, strings.Join(UpdateNames, ", "))
		}
	}
	return u, nil
}

// Has reports whether every kind in k is present in u.
func (u Updates) Has(k Updates) bool {
	return k != UpdateNone && u&k == k
}

func (u Updates) String() string {
	var parts []string
	if u.Has(UpdateApsearch) {
		parts = append(parts, "apsearch")
	}
	if u.Has(UpdateFlatdir) {
		parts = append(parts, "flatdir")
	}
	if u.Has(UpdatePath) {
		parts = append(parts, "path")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Options is the raw, unvalidated input for one run.
type Options struct {
	// Dotfiles lists dotfile names to evaluate; nil means dotfile.Modifiable().
	Dotfiles []string
	// BinDir is the directory to add to PATH; empty means locate RefProgram.
	BinDir string
	// DotDir is where the dotfiles live; empty means $HOME.
	DotDir string

	Updates Updates
	Force   bool
	Backup  bool
	Test    bool
	Darwin  bool
	Verbose int
}

// Config is the resolved, validated form of Options. It is never modified
// after ConfigureDirectories returns.
type Config struct {
	BinDir   string
	DotDir   string
	Dotfiles []string

	Updates Updates
	Force   bool
	Backup  bool
	Test    bool
	Darwin  bool
	Verbose int
}

// Stage is a step of a planning run.
type Stage int

const (
	StageConfigureDirectories Stage = iota
	StageLoadCandidates
	StageResolveSiblingSourcing
	StageClassifyModificationNeeds
	StageDone
	StageApply
)

func (s Stage) String() string {
	switch s {
	case StageConfigureDirectories:
		return "ConfigureDirectories"
	case StageLoadCandidates:
		return "LoadCandidates"
	case StageResolveSiblingSourcing:
		return "ResolveSiblingSourcing"
	case StageClassifyModificationNeeds:
		return "ClassifyModificationNeeds"
	case StageDone:
		return "Done"
	case StageApply:
		return "Apply"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Plan is the outcome of a run.
type Plan struct {
	Config  Config
	Records []*dotfile.Record
	// Stage is the last stage reached; on error, the stage that failed.
	Stage Stage
	// Applied is set when the Apply stage ran.
	Applied *ApplyResult
}

// Record returns the record for name, or nil if it was not a candidate.
func (p *Plan) Record(name dotfile.Name) *dotfile.Record {
	for _, rec := range p.Records {
		if rec.Name == name {
			return rec
		}
	}
	return nil
}

// TotalModifications sums ModificationCount over all records.
func (p *Plan) TotalModifications() int {
	total := 0
	for _, rec := range p.Records {
		total += rec.ModificationCount()
	}
	return total
}

// Locator finds the directory holding an installed program.
type Locator interface {
	// ProgramDir returns the directory containing prog, or "" if prog is not
	// on the PATH. Not finding the program is not an error.
	ProgramDir(ctx context.Context, prog string) (string, error)
}

// Applier writes a finished plan to disk.
type Applier interface {
	Apply(ctx context.Context, plan *Plan) (*ApplyResult, error)
}

// ApplyResult describes what an Applier changed.
type ApplyResult struct {
	Files []FileChange
}

// FileChange is one edited dotfile.
type FileChange struct {
	Name    dotfile.Name
	Path    string
	Applied Updates
	// BackupPath is empty when no backup was made.
	BackupPath string
}
