package shell

const (
	// BackupSuffix is appended to a dotfile's name for its backup copy.
	BackupSuffix = ".iud.bak"

	// tmpPattern names the temporary file an edit is staged in.
	tmpPattern = ".tmp.iu.dotfile-*"

	// BlockMarker starts every comment line initdot writes.
	BlockMarker = "# added by initdot"

	// HelpDir is where AFNI keeps the completion helpers, relative to $HOME.
	HelpDir = ".afni/help"
)
