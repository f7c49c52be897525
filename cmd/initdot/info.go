package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

const helpText = `=============================================================================
initdot - initialize user dotfiles (.cshrc, .tcshrc, .bashrc ...)

   Evaluate the shell dotfiles under a directory (default $HOME) and decide
   which of these modifications each one needs:

   1. path:     add ABIN to the PATH.
                ABIN is set by --dir-bin, else it comes from:

                   which afni_proc.py

   2. flatdir:  on a mac, add /opt/X11/lib/flat_namespace to
                DYLD_LIBRARY_PATH.

   3. apsearch: source the tab-completion file for the shell,
                $HOME/.afni/help/all_progs.COMP[.bash|.zsh].

   When .tcshrc sources .cshrc (or the reverse), only the sourced file is
   edited. Only modifications selected with --do-updates are written, each
   as a marked block appended to the file, and with --make-backup yes the
   original is first copied to <file>.iud.bak.

   Each edit run keeps a journal, .initdot-txn-<id>.json, in the dotfile
   directory until it succeeds. A journal left by a failed run is reported
   by later runs and removed once they have edited its files. It may also
   be deleted by hand.

   Defaults for any option may be set in a Lua file, $INITDOT_CONFIG or
   $HOME/.config/initdot/initdot.lua, e.g.

      initdot = {
        updates = platform.is_macos and { "ALL" } or { "path", "apsearch" },
        verb    = 2,
      }

------------------------------------------
examples:

   1. see what would be done to the default dotfiles, but change nothing

         initdot --test --verb 2

   2. add ABIN to PATH and set up tab completion in .bashrc and .cshrc

         initdot --dflist .bashrc,.cshrc --do-updates path,apsearch

   3. make every update to every modifiable dotfile, even where it seems
      unneeded

         initdot --do-updates ALL --force

------------------------------------------
terminal options:

      --help                    : show this help
      --help-dotfiles-all       : list all known dotfiles
      --help-dotfiles-mod       : list modifiable dotfiles
      --help-shells             : list valid shells
      --hist                    : show module history
      --show-valid-opts         : list valid options
      --ver                     : show current version

main options:

      --dflist DOTFILES         : dotfiles to evaluate (def: modifiable list)
      --dir-bin DIR             : directory to add to PATH
      --dir-dot DIR             : directory holding the dotfiles (def: $HOME)
      --do-updates UPDATES      : updates to make (apsearch, flatdir, path, ALL)
      --force                   : make every update, even when not needed
      --make-backup yes/no      : back up each edited file (def: yes)
      --test                    : only report, do not modify any file

other options:

      --config FILE             : Lua defaults file
      --verb LEVEL              : set the verbosity level (def: 1)

=============================================================================
`

const historyText = `
   initdot history:

   0.0  - dotfile checks taken from @update.afni.binaries
   0.1  - file records, token scanning, --force
   0.2  - --do-updates writes marked blocks, with backups and a lock
   0.3  - Lua defaults file, --platform
`

func printHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

func printHistory(w io.Writer) {
	fmt.Fprint(w, historyText)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "initdot version %s\n", Version)
}

// printValidOpts lists every visible flag.
func printValidOpts(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "valid options:")
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		fmt.Fprintf(w, "   --%-22s : %s\n", f.Name, f.Usage)
	})
}

// printDotfiles lists names with their shell and completion helper, or just
// the names when verb is 0.
func printDotfiles(w io.Writer, names []dotfile.Name, modifiable bool, verb int) {
	if verb == 0 {
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return
	}

	which := "all"
	if modifiable {
		which = "modifiable"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "known (RC)dotfiles (%s) :\n\n", which)
	fmt.Fprintf(w, "  %-15s  %-10s  %-15s\n", "dotfile", "shell", "apsearch_file")
	fmt.Fprintf(w, "  %-15s  %-10s  %-15s\n", "-------", "-----", strings.Repeat("-", 13))
	for _, n := range names {
		fmt.Fprintf(w, "  %-15s  %-10s  %-15s\n", n, n.Shell(), n.CompletionFile())
	}
	fmt.Fprintln(w)
}

func printShells(w io.Writer, verb int) {
	shells := make([]string, 0, len(dotfile.Shells()))
	for _, s := range dotfile.Shells() {
		shells = append(shells, s.String())
	}
	if verb > 0 {
		fmt.Fprintf(w, "valid shells : %s\n", strings.Join(shells, ", "))
		return
	}
	fmt.Fprintln(w, strings.Join(shells, "\n"))
}
