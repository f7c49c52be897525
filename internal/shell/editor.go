package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
	"github.com/ZebulonRouseFrantzich/initdot/internal/planner"
	"github.com/ZebulonRouseFrantzich/initdot/internal/transaction"
)

// Editor writes planned modifications into dotfiles.
type Editor struct {
	log planner.Logger
}

// NewEditor creates an Editor. A nil logger discards messages.
func NewEditor(log planner.Logger) *Editor {
	if log == nil {
		log = planner.NopLogger()
	}
	return &Editor{log: log}
}

var _ planner.Applier = (*Editor)(nil)

// edit is the work decided for one record.
type edit struct {
	rec   *dotfile.Record
	kinds planner.Updates
}

// selected returns the kinds rec needs that the run asked for.
func selected(rec *dotfile.Record, updates planner.Updates) planner.Updates {
	var kinds planner.Updates
	if rec.NeedsPath {
		kinds |= planner.UpdatePath
	}
	if rec.NeedsLibPath {
		kinds |= planner.UpdateFlatdir
	}
	if rec.NeedsCompletion {
		kinds |= planner.UpdateApsearch
	}
	return kinds & updates
}

// Apply appends the selected blocks to every dotfile in plan that needs them.
func (e *Editor) Apply(ctx context.Context, plan *planner.Plan) (*planner.ApplyResult, error) {
	cfg := plan.Config
	result := &planner.ApplyResult{}

	if cfg.Updates == planner.UpdateNone {
		if plan.TotalModifications() > 0 {
			e.log.Warnf("no updates selected, nothing applied (see --do-updates)")
		}
		return result, nil
	}

	edits, err := e.collect(plan)
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		if cfg.Verbose > 0 {
			e.log.Notef("no selected updates are needed")
		}
		return result, nil
	}

	lock, err := transaction.AcquireLock(ctx, cfg.DotDir)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", cfg.DotDir, err)
	}
	defer lock.Release()

	leftovers := e.reportJournals(cfg.DotDir)

	paths := make([]string, 0, len(edits))
	for _, ed := range edits {
		paths = append(paths, ed.rec.Path)
	}
	txn := transaction.New(paths)
	if err := txn.Save(cfg.DotDir); err != nil {
		return nil, err
	}

	for _, ed := range edits {
		if err := ctx.Err(); err != nil {
			return result, e.abort(txn, cfg.DotDir, ed.rec.Path, fmt.Errorf("apply cancelled: %w", err))
		}

		change, err := e.editFile(cfg, ed)
		if err != nil {
			return result, e.abort(txn, cfg.DotDir, ed.rec.Path, err)
		}
		result.Files = append(result.Files, *change)

		txn.UpdateFile(ed.rec.Path, transaction.StateCompleted, change.BackupPath, change.Applied.String(), nil)
		if err := txn.Save(cfg.DotDir); err != nil {
			return result, err
		}
	}

	if err := txn.Remove(cfg.DotDir); err != nil {
		return result, err
	}
	e.resolveJournals(cfg, leftovers, result)
	return result, nil
}

// collect picks the records with work left after dropping unselected kinds
// and kinds whose block is already present.
func (e *Editor) collect(plan *planner.Plan) ([]edit, error) {
	cfg := plan.Config
	var edits []edit

	for _, rec := range plan.Records {
		if rec.ModificationCount() == 0 {
			continue
		}
		kinds := selected(rec, cfg.Updates)

		if !cfg.Force {
			for _, kind := range kindOrder {
				if !kinds.Has(kind) {
					continue
				}
				present, err := HasBlock(rec.Path, kind.String())
				if err != nil {
					return nil, err
				}
				if present {
					if cfg.Verbose > 1 {
						e.log.Notef("%s already has an initdot %s block, skipping", rec.Name, kind)
					}
					kinds &^= kind
				}
			}
		}

		if kinds != planner.UpdateNone {
			edits = append(edits, edit{rec: rec, kinds: kinds})
		}
	}
	return edits, nil
}

func (e *Editor) editFile(cfg planner.Config, ed edit) (*planner.FileChange, error) {
	rec := ed.rec
	change := &planner.FileChange{Name: rec.Name, Path: rec.Path, Applied: ed.kinds}

	block, err := Block(rec.Name, ed.kinds, cfg.BinDir)
	if err != nil {
		return nil, err
	}

	if cfg.Backup && rec.Exists {
		if change.BackupPath, err = BackupRCFile(rec.Path); err != nil {
			return nil, err
		}
		if cfg.Verbose > 1 {
			e.log.Notef("backed up %s to %s", rec.Name, change.BackupPath)
		}
	}

	if err := AppendBlock(rec.Path, block); err != nil {
		return nil, err
	}
	if cfg.Verbose > 0 {
		e.log.Progressf("updated %s: %s", rec.Name, ed.kinds)
	}
	return change, nil
}

// abort marks path failed and keeps the journal on disk for inspection.
func (e *Editor) abort(txn *transaction.EditTxn, dir, path string, cause error) error {
	txn.UpdateFile(path, transaction.StateFailed, "", "", cause)
	if err := txn.Save(dir); err != nil {
		e.log.Warnf("failed to save journal: %v", err)
	}
	e.log.Errorf("edits stopped at %s, see %s", path, txn.Filename())
	return cause
}

// leftover is a journal from an earlier run with unfinished files.
type leftover struct {
	path string
	txn  *transaction.EditTxn
}

// reportJournals warns about journals left behind by interrupted runs and
// returns them.
func (e *Editor) reportJournals(dir string) []leftover {
	found, err := transaction.Find(dir)
	if err != nil {
		e.log.Warnf("%v", err)
		return nil
	}

	var out []leftover
	for _, path := range found {
		txn, err := transaction.Load(path)
		if err != nil {
			e.log.Warnf("%v", err)
			continue
		}
		for _, f := range txn.Unfinished() {
			e.log.Warnf("earlier run left %s %s (journal %s)", f.Path, f.State, path)
		}
		out = append(out, leftover{path: path, txn: txn})
	}
	return out
}

// resolveJournals marks files edited by this run as done in earlier journals,
// removing each journal that has nothing left unfinished.
func (e *Editor) resolveJournals(cfg planner.Config, leftovers []leftover, result *planner.ApplyResult) {
	done := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		done[f.Path] = true
	}

	for _, lo := range leftovers {
		changed := lo.txn.Resolve(done)
		if len(lo.txn.Unfinished()) == 0 {
			if err := os.Remove(lo.path); err != nil && !os.IsNotExist(err) {
				e.log.Warnf("failed to remove journal: %v", err)
				continue
			}
			if cfg.Verbose > 1 {
				e.log.Notef("removed resolved journal %s", lo.path)
			}
			continue
		}
		if changed > 0 && filepath.Base(lo.path) == lo.txn.Filename() {
			if err := lo.txn.Save(cfg.DotDir); err != nil {
				e.log.Warnf("failed to update journal: %v", err)
			}
		}
	}
}
