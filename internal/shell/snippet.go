package shell

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
	"github.com/ZebulonRouseFrantzich/initdot/internal/planner"
)

// kindOrder is the order blocks are appended in.
var kindOrder = []planner.Updates{
	planner.UpdatePath,
	planner.UpdateFlatdir,
	planner.UpdateApsearch,
}

// Snippet returns the lines that apply one modification kind in shell's
// syntax. binDir is only used for planner.UpdatePath.
func Snippet(shell dotfile.Shell, kind planner.Updates, binDir string) (string, error) {
	if !shell.IsValid() {
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
	csh := shell.IsCshFamily()

	switch kind {
	case planner.UpdatePath:
		if csh {
			return fmt.Sprintf("setenv PATH ${PATH}:%s\n", binDir), nil
		}
		return fmt.Sprintf("export PATH=${PATH}:%s\n", binDir), nil

	case planner.UpdateFlatdir:
		if csh {
			// csh refuses to expand an unset variable
			return fmt.Sprintf("if ( $?%[1]s ) then\n"+
				"   setenv %[1]s ${%[1]s}:%[2]s\n"+
				"else\n"+
				"   setenv %[1]s %[2]s\n"+
				"endif\n", planner.DylibVar, planner.FlatDir), nil
		}
		return fmt.Sprintf("export %[1]s=${%[1]s}:%[2]s\n", planner.DylibVar, planner.FlatDir), nil

	case planner.UpdateApsearch:
		helper := "$HOME/" + HelpDir + "/" + shell.CompletionFile()
		switch {
		case csh:
			return fmt.Sprintf("if ( -f %[1]s ) then\n"+
				"   source %[1]s\n"+
				"endif\n", helper), nil
		case shell == dotfile.ShellZsh:
			return fmt.Sprintf("if [ -f %[1]s ]; then\n"+
				"   autoload -U +X compinit && compinit\n"+
				"   source %[1]s\n"+
				"fi\n", helper), nil
		default:
			return fmt.Sprintf("if [ -f %[1]s ]; then\n"+
				"   . %[1]s\n"+
				"fi\n", helper), nil
		}
	}

	return "", fmt.Errorf("no snippet for update %q", kind)
}

// Block builds the text appended to name for kinds, each kind preceded by a
// marker comment naming it.
func Block(name dotfile.Name, kinds planner.Updates, binDir string) (string, error) {
	var b strings.Builder
	for _, kind := range kindOrder {
		if !kinds.Has(kind) {
			continue
		}
		snippet, err := Snippet(name.Shell(), kind, binDir)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(&b, "\n%s: %s\n%s", BlockMarker, kind, snippet)
	}
	return b.String(), nil
}
