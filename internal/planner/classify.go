package planner

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

// classify sets the Needs* flags on every record. It runs one pass per check
// in a fixed order: completion helper, library path, PATH.
func (p *Planner) classify(cfg Config, records []*dotfile.Record) {
	for _, rec := range records {
		p.checkCompletion(cfg, rec)
	}
	for _, rec := range records {
		p.checkLibPath(cfg, rec)
	}
	for _, rec := range records {
		p.checkPath(cfg, rec)
	}
}

func (p *Planner) checkCompletion(cfg Config, rec *dotfile.Record) {
	trace := cfg.Verbose > 2
	if trace {
		p.log.Printf("== check_to_add_apsearch: %s", rec.Name)
	}

	helper := rec.Name.CompletionFile()
	need := false
	switch {
	case rec.Follows:
		if trace {
			p.log.Notef("file %s is a follower", rec.Name)
		}
	case cfg.Force:
		if trace {
			p.log.Notef("file %s has forced updates", rec.Name)
		}
		need = true
	case helper == "":
		p.log.Warnf("file %s has unknown all_progs, skipping...", rec.Name)
		return
	case rec.HasToken(helper, true):
		if trace {
			p.log.Notef("found aps token %s in file %s", helper, rec.Name)
		}
	default:
		if trace {
			p.log.Notef("no aps token %s in file %s", helper, rec.Name)
		}
		need = true
	}

	if need {
		if trace {
			p.log.Progressf("will source %s in file %s", rec.Name.CompletionFile(), rec.Name)
		}
		rec.NeedsCompletion = true
	}
}

// checkLibPath decides whether DYLD_LIBRARY_PATH must include the X11 flat
// namespace. Force is honored before the Darwin gate, so a forced run marks
// this modification on every platform.
func (p *Planner) checkLibPath(cfg Config, rec *dotfile.Record) {
	trace := cfg.Verbose > 2
	if trace {
		p.log.Printf("== check_to_add_flatdir: %s", rec.Name)
	}

	need := false
	switch {
	case rec.Follows:
		if trace {
			p.log.Notef("file %s is a follower", rec.Name)
		}
	case rec.FollowedAsBashEnv:
		if trace {
			p.log.Notef("file %s is a %s follower", rec.Name, BashEnv)
		}
	case cfg.Force:
		if trace {
			p.log.Notef("file %s has forced updates", rec.Name)
		}
		need = true
	case !cfg.Darwin:
		if trace {
			p.log.Notef("not on a mac, skip flatdir")
		}
	case rec.HasToken(FlatDir, true) && rec.HasToken(DylibVar, true):
		if trace {
			p.log.Notef("found flatdir token %s in file %s", FlatDir, rec.Name)
		}
	default:
		if trace {
			p.log.Notef("no flatdir token %s in file %s", FlatDir, rec.Name)
		}
		need = true
	}

	if need {
		if trace {
			p.log.Progressf("will set %s to %s in file %s", DylibVar, FlatDir, rec.Name)
		}
		rec.NeedsLibPath = true
	}
}

func (p *Planner) checkPath(cfg Config, rec *dotfile.Record) {
	trace := cfg.Verbose > 2
	if trace {
		p.log.Printf("== check_to_set_path: %s", rec.Name)
	}

	need := false
	switch {
	case rec.Follows:
		if trace {
			p.log.Notef("file %s is a follower", rec.Name)
		}
	case cfg.Force:
		if trace {
			p.log.Notef("file %s has forced updates", rec.Name)
		}
		need = true
	default:
		tail := PathTail(cfg.BinDir)
		if rec.HasToken(tail, true) {
			if trace {
				p.log.Notef("found PATH token %s in file %s", tail, rec.Name)
			}
		} else {
			if trace {
				p.log.Notef("no PATH token %s in file %s", tail, rec.Name)
			}
			need = true
		}
	}

	if need {
		if trace {
			p.log.Progressf("will add %s to PATH in file %s", cfg.BinDir, rec.Name)
		}
		rec.NeedsPath = true
	}
}

// PathTail returns the part of path after its last '/', like $var:t in tcsh.
// A trailing slash therefore yields "".
func PathTail(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}
