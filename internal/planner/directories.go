package planner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
)

// configureDirectories resolves and validates the binary and dotfile
// directories and freezes the run's Config.
func (p *Planner) configureDirectories(ctx context.Context, opts Options) (Config, error) {
	binDir := opts.BinDir
	if binDir == "" {
		abin, err := p.locateAbin(ctx, opts.Verbose)
		if err != nil {
			p.log.Errorf("failed to search PATH for %s: %v", RefProgram, err)
			return Config{}, err
		}
		if abin == "" {
			p.log.Errorf("%v", ErrNoBinDir)
			return Config{}, ErrNoBinDir
		}
		binDir = abin
		if opts.Verbose > 1 {
			p.log.Notef("setting dir_bin to ABIN %s", abin)
		}
	}

	if !isDir(binDir) {
		err := &DirectoryError{Option: "--dir-bin", Path: binDir, Message: "not an existing directory, too afraid to proceed"}
		p.log.Errorf("%v", err)
		return Config{}, err
	}

	// dotfiles may be sourced from any directory
	if !filepath.IsAbs(binDir) {
		err := &DirectoryError{Option: "--dir-bin", Path: binDir, Message: "must be an absolute path (start with '/'), since dot files can be sourced from any directory"}
		p.log.Errorf("%v", err)
		return Config{}, err
	}
	// Clean drops a trailing slash, so PathTail("/x/abin/") is "abin" rather than ""
	binDir = filepath.Clean(binDir)

	dotDir := opts.DotDir
	if dotDir == "" {
		dotDir = os.Getenv("HOME")
		if opts.Verbose > 1 {
			p.log.Notef("setting dir_dot to $HOME")
		}
	}

	if dotDir == "" || !isDir(dotDir) {
		err := &DirectoryError{Option: "--dir-dot", Path: dotDir, Message: "not an existing directory"}
		p.log.Errorf("%v", err)
		return Config{}, err
	}

	if abs, err := filepath.Abs(dotDir); err == nil {
		dotDir = abs
	}

	if err := enterable(dotDir); err != nil {
		derr := &DirectoryError{Option: "--dir-dot", Path: dotDir, Message: "failed to enter directory", Cause: err}
		p.log.Errorf("%v", derr)
		return Config{}, derr
	}

	cfg := Config{
		BinDir:   binDir,
		DotDir:   dotDir,
		Dotfiles: append([]string(nil), opts.Dotfiles...),
		Updates:  opts.Updates,
		Force:    opts.Force,
		Backup:   opts.Backup,
		Test:     opts.Test,
		Darwin:   opts.Darwin,
		Verbose:  opts.Verbose,
	}
	if len(cfg.Dotfiles) == 0 {
		if cfg.Verbose > 1 {
			p.log.Notef("using default dotfile list")
		}
		for _, name := range dotfile.Modifiable() {
			cfg.Dotfiles = append(cfg.Dotfiles, name.String())
		}
	}

	if cfg.Verbose > 2 {
		p.showConfig(cfg)
	}

	return cfg, nil
}

// locateAbin returns the directory of RefProgram on the current PATH, or "".
func (p *Planner) locateAbin(ctx context.Context, verb int) (string, error) {
	if p.locator == nil {
		return "", nil
	}

	dir, err := p.locator.ProgramDir(ctx, RefProgram)
	if err != nil {
		return "", err
	}

	if dir == "" {
		if verb > 1 {
			p.log.Notef("no %s in original PATH", RefProgram)
		}
		return "", nil
	}

	if verb > 1 {
		p.log.Progressf("have original abin %s", dir)
	}
	return dir, nil
}

func (p *Planner) showConfig(cfg Config) {
	p.log.Printf("== resolved settings:")
	p.log.Printf("   %-10s : %s", "dir_bin", cfg.BinDir)
	p.log.Printf("   %-10s : %s", "dir_dot", cfg.DotDir)
	p.log.Printf("   %-10s : %v", "dotfiles", cfg.Dotfiles)
	p.log.Printf("   %-10s : %s", "updates", cfg.Updates)
	p.log.Printf("   %-10s : %v", "force", cfg.Force)
	p.log.Printf("   %-10s : %v", "backup", cfg.Backup)
	p.log.Printf("   %-10s : %v", "test", cfg.Test)
	p.log.Printf("   %-10s : %v", "darwin", cfg.Darwin)
	p.log.Printf("   %-10s : %d", "verb", cfg.Verbose)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// enterable checks that the directory can be opened and listed, which is what
// the remaining stages need from it.
func enterable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
