package dotfile

// Name identifies one of the recognized dotfiles.
type Name int

// Recognized dotfiles, in catalog order.
const (
	Unknown Name = iota
	BashDyldVars
	BashLogin
	BashProfile
	Bashrc
	Cshrc
	Login
	Tcshrc
	Profile
	Zlogin
	Zprofile
	Zshenv
	Zshrc
)

// Shell is a command interpreter family that reads dotfiles.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellSh   Shell = "sh"
	ShellTcsh Shell = "tcsh"
	ShellCsh  Shell = "csh"
	ShellZsh  Shell = "zsh"
	// ShellNone is returned for names outside the catalog.
	ShellNone Shell = ""
)

// CompletionBase is the completion helper produced by apsearch, found under
// $HOME/.afni/help. Shells other than tcsh/csh use a suffixed variant.
const CompletionBase = "all_progs.COMP"

type entry struct {
	file       string
	shell      Shell
	modifiable bool
}

var catalog = [...]entry{
	Unknown:      {},
	BashDyldVars: {".bash_dyld_vars", ShellBash, false},
	BashLogin:    {".bash_login", ShellBash, false},
	BashProfile:  {".bash_profile", ShellBash, true},
	Bashrc:       {".bashrc", ShellBash, true},
	Cshrc:        {".cshrc", ShellTcsh, true},
	Login:        {".login", ShellTcsh, false},
	Tcshrc:       {".tcshrc", ShellTcsh, true},
	Profile:      {".profile", ShellSh, true},
	Zlogin:       {".zlogin", ShellZsh, false},
	Zprofile:     {".zprofile", ShellZsh, false},
	Zshenv:       {".zshenv", ShellZsh, false},
	Zshrc:        {".zshrc", ShellZsh, true},
}

// modifiableOrder is the default candidate list.
var modifiableOrder = []Name{BashProfile, Bashrc, Cshrc, Tcshrc, Profile, Zshrc}

// Parse maps a file name such as ".bashrc" to its Name.
// It returns Unknown and false for anything outside the catalog.
func Parse(file string) (Name, bool) {
	for n := BashDyldVars; n <= Zshrc; n++ {
		if catalog[n].file == file {
			return n, true
		}
	}
	return Unknown, false
}

// All returns every recognized dotfile in catalog order.
func All() []Name {
	names := make([]Name, 0, len(catalog)-1)
	for n := BashDyldVars; n <= Zshrc; n++ {
		names = append(names, n)
	}
	return names
}

// Modifiable returns the dotfiles initdot may edit, in default candidate order.
func Modifiable() []Name {
	return append([]Name(nil), modifiableOrder...)
}

// String returns the file name, or "" for Unknown.
func (n Name) String() string {
	if !n.valid() {
		return ""
	}
	return catalog[n].file
}

// Shell returns the shell family that sources the dotfile.
func (n Name) Shell() Shell {
	if !n.valid() {
		return ShellNone
	}
	return catalog[n].shell
}

// CompletionFile returns the completion helper this dotfile should source,
// or "" when the shell has none.
func (n Name) CompletionFile() string {
	return n.Shell().CompletionFile()
}

// Modifiable reports whether initdot is allowed to edit the dotfile.
func (n Name) Modifiable() bool {
	return n.valid() && catalog[n].modifiable
}

func (n Name) valid() bool {
	return n > Unknown && int(n) < len(catalog)
}

// Shells returns the shell families initdot knows how to handle.
func Shells() []Shell {
	return []Shell{ShellBash, ShellSh, ShellTcsh, ShellCsh, ShellZsh}
}

// IsValid returns true if the shell is supported
func (s Shell) IsValid() bool {
	switch s {
	case ShellBash, ShellSh, ShellTcsh, ShellCsh, ShellZsh:
		return true
	default:
		return false
	}
}

// IsCshFamily reports whether the shell uses csh syntax (setenv, source).
func (s Shell) IsCshFamily() bool {
	return s == ShellTcsh || s == ShellCsh
}

// CompletionFile returns the completion helper for the shell family.
func (s Shell) CompletionFile() string {
	switch s {
	case ShellBash, ShellSh:
		return CompletionBase + ".bash"
	case ShellTcsh, ShellCsh:
		return CompletionBase
	case ShellZsh:
		return CompletionBase + ".zsh"
	default:
		return ""
	}
}

func (s Shell) String() string {
	return string(s)
}
