package planner

import (
	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

// resolveSiblingSourcing decides whether .tcshrc and .cshrc are one logical
// file. Ideally exactly one sources the other; that one is marked as a
// follower so only its sibling gets edited.
func (p *Planner) resolveSiblingSourcing(cfg Config, plan *Plan) error {
	cshrc := plan.Record(dotfile.Cshrc)
	tcshrc := plan.Record(dotfile.Tcshrc)

	if cshrc == nil && tcshrc == nil {
		return nil
	}

	// Files that are not candidates are read only for this check.
	if cshrc == nil {
		cshrc = p.load(cfg, dotfile.Cshrc)
	}
	if tcshrc == nil {
		tcshrc = p.load(cfg, dotfile.Tcshrc)
	}

	if !cshrc.Exists || !tcshrc.Exists {
		return nil
	}

	tSourcesC := tcshrc.Sources(dotfile.Cshrc.String())
	cSourcesT := cshrc.Sources(dotfile.Tcshrc.String())

	switch {
	case tSourcesC && cSourcesT:
		p.log.Errorf("both %s and %s seem to source each other", dotfile.Tcshrc, dotfile.Cshrc)
		return ErrMutualSourcing
	case tSourcesC:
		tcshrc.Follows = true
		if cfg.Verbose > 0 {
			p.log.Notef("good: %s seems to contain 'source %s'", dotfile.Tcshrc, dotfile.Cshrc)
		}
	case cSourcesT:
		cshrc.Follows = true
		if cfg.Verbose > 0 {
			p.log.Notef("good: %s seems to contain 'source %s'", dotfile.Cshrc, dotfile.Tcshrc)
		}
	default:
		if cfg.Verbose > 0 {
			p.log.Warnf("%s does NOT seem to contain 'source %s'", dotfile.Tcshrc, dotfile.Cshrc)
			p.log.Printf("   (csh and tcsh will use different files)")
		}
	}

	return nil
}

// markBashEnv flags a .bashrc that exports BASH_ENV. The library path check
// skips such a file.
func (p *Planner) markBashEnv(cfg Config, plan *Plan) {
	rec := plan.Record(dotfile.Bashrc)
	if rec == nil {
		return
	}
	if rec.HasTokenPair("export", BashEnv, false, true) {
		if cfg.Verbose > 1 {
			p.log.Notef("note: %s exports %s", dotfile.Bashrc, BashEnv)
		}
		rec.FollowedAsBashEnv = true
	}
}
