// Package shell applies a finished plan to the user's dotfiles.
//
// Editor implements planner.Applier. For each dotfile with selected
// modifications it appends one block per kind, written in the syntax of the
// file's shell:
//
//	# added by initdot: path
//	export PATH=${PATH}:/home/user/abin
//
//	# added by initdot: path
//	setenv PATH ${PATH}:/home/user/abin
//
// Existing lines are never rewritten. Each edit is staged in a temporary
// file in the same directory, synced, and renamed over the original. With
// backups on, the original is first copied to <name>.iud.bak.
//
// The whole run holds the directory lock from package transaction and keeps
// a journal there until every file is done, so two runs never edit the same
// directory at once and an interrupted run leaves a record behind.
package shell
