// Package planner decides which edits a user's dotfiles need.
//
// Planning runs as a fixed sequence of stages, each a hard gate to the next:
//
//  1. ConfigureDirectories: resolve the binary directory (explicit, else the
//     directory holding afni_proc.py) and the dotfile directory (explicit,
//     else $HOME)
//  2. LoadCandidates: validate the requested dotfile names and read each file
//  3. ResolveSiblingSourcing: work out whether .tcshrc sources .cshrc (or the
//     reverse) and whether .bashrc exports BASH_ENV
//  4. ClassifyModificationNeeds: set the NeedsCompletion, NeedsLibPath and
//     NeedsPath flags on every record
//  5. Done (test mode) or Apply
//
// Planning never writes to disk. Writing is delegated to an Applier, which
// receives the finished Plan.
//
// # Example Usage
//
//	p := planner.New(planner.Deps{
//	    Locator: locate.Which{},
//	    Applier: shell.NewEditor(),
//	    Logger:  log,
//	})
//
//	plan, err := p.Run(ctx, planner.Options{
//	    Updates: planner.UpdateAll,
//	    Test:    true,
//	})
package planner
