// Package testutil provides utilities for testing initdot in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes the directories created by SetupTestEnv.
type Env struct {
	// BinDir is an absolute, existing directory whose last component is
	// "abin".
	BinDir string
	// DotDir is an empty directory that HOME points at.
	DotDir string
	// ConfigFile is where INITDOT_CONFIG points. It does not exist until a
	// test writes it.
	ConfigFile string
}

// SetupTestEnv creates isolated directories for each test so that tests never
// read or edit the real user's dotfiles or defaults file.
//
// HOME is pointed at Env.DotDir and INITDOT_CONFIG at Env.ConfigFile. Cleanup
// is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		BinDir:     filepath.Join(tmpDir, "abin"),
		DotDir:     filepath.Join(tmpDir, "home"),
		ConfigFile: filepath.Join(tmpDir, "config", "initdot.lua"),
	}

	for _, dir := range []string{env.BinDir, env.DotDir, filepath.Dir(env.ConfigFile)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.DotDir)
	t.Setenv("INITDOT_CONFIG", env.ConfigFile)

	return env
}

// WriteDotfile writes content to dir/name and returns the full path.
func WriteDotfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
