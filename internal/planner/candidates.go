package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

// loadCandidates validates every requested name before reading any file, so
// all bad names are reported together.
func (p *Planner) loadCandidates(cfg Config) ([]*dotfile.Record, error) {
	names := make([]dotfile.Name, 0, len(cfg.Dotfiles))
	var invalid []InvalidName

	for _, file := range cfg.Dotfiles {
		name, ok := dotfile.Parse(file)
		if !ok || !name.Modifiable() {
			bad := InvalidName{Name: file, HasPath: strings.Contains(file, "/")}
			p.log.Errorf("%s", bad)
			invalid = append(invalid, bad)
			continue
		}
		names = append(names, name)
	}

	if len(invalid) > 0 {
		return nil, &InvalidNamesError{Names: invalid}
	}

	records := make([]*dotfile.Record, 0, len(names))
	for _, name := range names {
		if rec := findRecord(records, name); rec != nil {
			continue
		}
		rec := p.load(cfg, name)
		records = append(records, rec)

		if cfg.Verbose > 1 {
			state := "not found"
			if rec.Exists {
				state = fmt.Sprintf("%3d lines", len(rec.Lines))
			}
			p.log.Progressf("   %-20s : %s", name, state)
		}
	}

	return records, nil
}

// load reads one dotfile, downgrading read failures to a warning.
func (p *Planner) load(cfg Config, name dotfile.Name) *dotfile.Record {
	rec, err := dotfile.Load(cfg.DotDir, name)
	var readErr *dotfile.ReadError
	if errors.As(err, &readErr) && cfg.Verbose > 0 {
		p.log.Warnf("%v", readErr)
	}
	return rec
}

func findRecord(records []*dotfile.Record, name dotfile.Name) *dotfile.Record {
	for _, rec := range records {
		if rec.Name == name {
			return rec
		}
	}
	return nil
}
