package planner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
	"github.com/ZebulonRouseFrantzich/initdot/internal/testutil"
)

// recordingLogger keeps every message with its marker.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) add(marker, format string, args ...interface{}) {
	l.lines = append(l.lines, marker+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.add("** error: ", format, args...)
}
func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.add("** warning: ", format, args...)
}
func (l *recordingLogger) Notef(format string, args ...interface{}) { l.add("-- ", format, args...) }
func (l *recordingLogger) Progressf(format string, args ...interface{}) {
	l.add("++ ", format, args...)
}
func (l *recordingLogger) Printf(format string, args ...interface{}) { l.add("", format, args...) }

func (l *recordingLogger) contains(substr string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type fakeLocator struct {
	dir   string
	err   error
	calls int
}

func (f *fakeLocator) ProgramDir(ctx context.Context, prog string) (string, error) {
	f.calls++
	return f.dir, f.err
}

type fakeApplier struct {
	calls int
	err   error
}

func (f *fakeApplier) Apply(ctx context.Context, plan *Plan) (*ApplyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ApplyResult{}, nil
}

// testDirs creates an absolute binary directory ending in "abin" and an empty
// dotfile directory, and points HOME at the latter.
func testDirs(t *testing.T) (binDir, dotDir string) {
	t.Helper()
	env := testutil.SetupTestEnv(t)
	return env.BinDir, env.DotDir
}

type flags struct {
	Path, LibPath, Completion, Follows bool
}

func flagsOf(rec *dotfile.Record) flags {
	return flags{rec.NeedsPath, rec.NeedsLibPath, rec.NeedsCompletion, rec.Follows}
}

func TestPlan_EmptyBashrc(t *testing.T) {
	_, dotDir := testDirs(t)
	binDir := "/opt/bin"
	if !isDir(binDir) {
		// /opt/bin is rarely present on build machines; use a stand-in with the same tail.
		binDir = filepath.Join(t.TempDir(), "bin")
		if err := os.Mkdir(binDir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	testutil.WriteDotfile(t, dotDir, ".bashrc", "")

	p := New(Deps{})
	plan, err := p.Plan(context.Background(), Options{
		Dotfiles: []string{".bashrc"},
		BinDir:   binDir,
		Verbose:  1,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	rec := plan.Record(dotfile.Bashrc)
	if rec == nil {
		t.Fatal("Plan() has no .bashrc record")
	}
	want := flags{Path: true, Completion: true}
	if diff := cmp.Diff(want, flagsOf(rec)); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if rec.ModificationCount() != 2 {
		t.Errorf("ModificationCount() = %d, want 2", rec.ModificationCount())
	}
	if plan.Stage != StageClassifyModificationNeeds {
		t.Errorf("Stage = %v, want %v", plan.Stage, StageClassifyModificationNeeds)
	}
}

func TestPlan_UnknownDotfile(t *testing.T) {
	binDir, dotDir := testDirs(t)
	testutil.WriteDotfile(t, dotDir, ".bashrc", "")

	log := &recordingLogger{}
	p := New(Deps{Logger: log})
	plan, err := p.Plan(context.Background(), Options{
		Dotfiles: []string{".bashrc", ".foorc", "sub/.cshrc", ".zlogin"},
		BinDir:   binDir,
	})

	var namesErr *InvalidNamesError
	if !errors.As(err, &namesErr) {
		t.Fatalf("Plan() error = %v, want *InvalidNamesError", err)
	}
	want := []InvalidName{
		{Name: ".foorc"},
		{Name: "sub/.cshrc", HasPath: true},
		{Name: ".zlogin"},
	}
	if diff := cmp.Diff(want, namesErr.Names); diff != "" {
		t.Errorf("invalid names mismatch (-want +got):\n%s", diff)
	}
	if plan.Stage != StageLoadCandidates {
		t.Errorf("Stage = %v, want %v", plan.Stage, StageLoadCandidates)
	}
	if len(plan.Records) != 0 {
		t.Errorf("Records = %d, want none classified", len(plan.Records))
	}
	if !log.contains("use --dir-dot") {
		t.Errorf("expected a --dir-dot hint, got %v", log.lines)
	}
}

func TestPlan_Force(t *testing.T) {
	tests := []struct {
		name   string
		darwin bool
	}{
		{"linux", false},
		{"darwin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binDir, dotDir := testDirs(t)
			testutil.WriteDotfile(t, dotDir, ".zshrc", "")
			testutil.WriteDotfile(t, dotDir, ".bashrc",
				"export PATH=$PATH:/x/abin\nsource ~/.afni/help/all_progs.COMP.bash\n")

			p := New(Deps{})
			plan, err := p.Plan(context.Background(), Options{
				Dotfiles: []string{".zshrc", ".bashrc", ".profile"},
				BinDir:   binDir,
				Force:    true,
				Darwin:   tt.darwin,
			})
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}

			// Force precedes the Darwin gate, so the library path is marked on
			// every platform.
			want := flags{Path: true, LibPath: true, Completion: true}
			for _, rec := range plan.Records {
				if diff := cmp.Diff(want, flagsOf(rec)); diff != "" {
					t.Errorf("%s flags mismatch (-want +got):\n%s", rec.Name, diff)
				}
			}
			if plan.TotalModifications() != 9 {
				t.Errorf("TotalModifications() = %d, want 9", plan.TotalModifications())
			}
		})
	}
}

func TestPlan_LibPath(t *testing.T) {
	tests := []struct {
		name    string
		content string
		darwin  bool
		bashEnv bool
		want    bool
	}{
		{
			name:   "not darwin",
			darwin: false,
			want:   false,
		},
		{
			name:   "darwin empty file",
			darwin: true,
			want:   true,
		},
		{
			name:    "darwin both tokens",
			content: "export DYLD_LIBRARY_PATH=${DYLD_LIBRARY_PATH}:/opt/X11/lib/flat_namespace\n",
			darwin:  true,
			want:    false,
		},
		{
			name:    "darwin split across lines still found",
			content: "x=/opt/X11/lib/flat_namespace\nexport DYLD_LIBRARY_PATH=$x\n",
			darwin:  true,
			want:    false,
		},
		{
			name:    "darwin only variable",
			content: "export DYLD_LIBRARY_PATH=/usr/lib\n",
			darwin:  true,
			want:    true,
		},
		{
			name:    "darwin tokens commented out",
			content: "# export DYLD_LIBRARY_PATH=/opt/X11/lib/flat_namespace\n",
			darwin:  true,
			want:    true,
		},
		{
			name:    "darwin bashrc exporting BASH_ENV",
			content: "export BASH_ENV=~/.bashrc\n",
			darwin:  true,
			bashEnv: true,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binDir, dotDir := testDirs(t)
			testutil.WriteDotfile(t, dotDir, ".bashrc", tt.content)

			p := New(Deps{})
			plan, err := p.Plan(context.Background(), Options{
				Dotfiles: []string{".bashrc"},
				BinDir:   binDir,
				Darwin:   tt.darwin,
			})
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}

			rec := plan.Record(dotfile.Bashrc)
			if rec.NeedsLibPath != tt.want {
				t.Errorf("NeedsLibPath = %v, want %v", rec.NeedsLibPath, tt.want)
			}
			if rec.FollowedAsBashEnv != tt.bashEnv {
				t.Errorf("FollowedAsBashEnv = %v, want %v", rec.FollowedAsBashEnv, tt.bashEnv)
			}
		})
	}
}

func TestPlan_PathAndCompletion(t *testing.T) {
	binDir, dotDir := testDirs(t)
	testutil.WriteDotfile(t, dotDir, ".bashrc", "export PATH=${PATH}:$HOME/abin\n")
	testutil.WriteDotfile(t, dotDir, ".zshrc", "# export PATH=$PATH:~/abin\nsource ~/.afni/help/all_progs.COMP.zsh\n")
	testutil.WriteDotfile(t, dotDir, ".cshrc", "set path = ( $path ~/abin )\nsource ~/.afni/help/all_progs.COMP\n")

	p := New(Deps{})
	plan, err := p.Plan(context.Background(), Options{
		Dotfiles: []string{".bashrc", ".zshrc", ".cshrc"},
		BinDir:   binDir,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	want := map[dotfile.Name]flags{
		dotfile.Bashrc: {Completion: true},
		dotfile.Zshrc:  {Path: true},
		dotfile.Cshrc:  {},
	}
	got := map[dotfile.Name]flags{}
	for _, rec := range plan.Records {
		got[rec.Name] = flagsOf(rec)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_SiblingSourcing(t *testing.T) {
	tests := []struct {
		name        string
		cshrc       string
		tcshrc      string
		dotfiles    []string
		wantErr     error
		wantCFollow bool
		wantTFollow bool
		wantWarning bool
	}{
		{
			name:        "tcshrc sources cshrc",
			cshrc:       "set path = ( $path )\n",
			tcshrc:      "source ~/.cshrc\n",
			dotfiles:    []string{".cshrc", ".tcshrc"},
			wantTFollow: true,
		},
		{
			name:        "cshrc sources tcshrc",
			cshrc:       ". .tcshrc\n",
			tcshrc:      "set path = ( $path )\n",
			dotfiles:    []string{".cshrc", ".tcshrc"},
			wantCFollow: true,
		},
		{
			name:     "mutual sourcing",
			cshrc:    "source ~/.tcshrc\n",
			tcshrc:   "source ~/.cshrc\n",
			dotfiles: []string{".cshrc", ".tcshrc"},
			wantErr:  ErrMutualSourcing,
		},
		{
			name:        "neither sources the other",
			cshrc:       "alias ll 'ls -l'\n",
			tcshrc:      "alias la 'ls -a'\n",
			dotfiles:    []string{".cshrc", ".tcshrc"},
			wantWarning: true,
		},
		{
			name:     "mutual sourcing with only cshrc a candidate",
			cshrc:    "source ~/.tcshrc\n",
			tcshrc:   "source ~/.cshrc\n",
			dotfiles: []string{".cshrc"},
			wantErr:  ErrMutualSourcing,
		},
		{
			name:     "transient tcshrc follows without entering plan",
			cshrc:    "set path = ( $path )\n",
			tcshrc:   "source ~/.cshrc\n",
			dotfiles: []string{".cshrc"},
		},
		{
			name:     "commented source line does not count",
			cshrc:    "set path = ( $path )\n",
			tcshrc:   "# source ~/.cshrc\n",
			dotfiles: []string{".cshrc", ".tcshrc"},
			// neither follows
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binDir, dotDir := testDirs(t)
			testutil.WriteDotfile(t, dotDir, ".cshrc", tt.cshrc)
			testutil.WriteDotfile(t, dotDir, ".tcshrc", tt.tcshrc)

			log := &recordingLogger{}
			p := New(Deps{Logger: log})
			plan, err := p.Plan(context.Background(), Options{
				Dotfiles: tt.dotfiles,
				BinDir:   binDir,
				Verbose:  1,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Plan() error = %v, want %v", err, tt.wantErr)
				}
				if plan.Stage != StageResolveSiblingSourcing {
					t.Errorf("Stage = %v, want %v", plan.Stage, StageResolveSiblingSourcing)
				}
				return
			}
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}

			if len(plan.Records) != len(tt.dotfiles) {
				t.Errorf("Records = %d, want %d", len(plan.Records), len(tt.dotfiles))
			}
			if rec := plan.Record(dotfile.Cshrc); rec != nil && rec.Follows != tt.wantCFollow {
				t.Errorf(".cshrc Follows = %v, want %v", rec.Follows, tt.wantCFollow)
			}
			if rec := plan.Record(dotfile.Tcshrc); rec != nil {
				if rec.Follows != tt.wantTFollow {
					t.Errorf(".tcshrc Follows = %v, want %v", rec.Follows, tt.wantTFollow)
				}
				if rec.Follows && rec.ModificationCount() != 0 {
					t.Errorf(".tcshrc follows but needs %d modifications", rec.ModificationCount())
				}
			}
			if got := log.contains("does NOT seem to contain"); got != tt.wantWarning {
				t.Errorf("warning emitted = %v, want %v (log %v)", got, tt.wantWarning, log.lines)
			}
		})
	}
}

func TestPlan_SiblingMissingOnDisk(t *testing.T) {
	binDir, dotDir := testDirs(t)
	testutil.WriteDotfile(t, dotDir, ".tcshrc", "source ~/.cshrc\n")

	p := New(Deps{})
	plan, err := p.Plan(context.Background(), Options{
		Dotfiles: []string{".cshrc", ".tcshrc"},
		BinDir:   binDir,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Record(dotfile.Tcshrc).Follows {
		t.Error(".tcshrc marked as follower although .cshrc does not exist")
	}
}

func TestPlan_Directories(t *testing.T) {
	binDir, dotDir := testDirs(t)

	tests := []struct {
		name       string
		opts       Options
		locator    *fakeLocator
		wantErr    bool
		wantErrIs  error
		wantBinDir string
		wantDotDir string
	}{
		{
			name:       "explicit directories",
			opts:       Options{BinDir: binDir, DotDir: dotDir},
			wantBinDir: binDir,
			wantDotDir: dotDir,
		},
		{
			name:       "bin dir from locator and dot dir from HOME",
			locator:    &fakeLocator{dir: binDir},
			wantBinDir: binDir,
			wantDotDir: dotDir,
		},
		{
			name:       "trailing slash is cleaned",
			opts:       Options{BinDir: binDir + "/"},
			wantBinDir: binDir,
			wantDotDir: dotDir,
		},
		{
			name:      "nothing located",
			locator:   &fakeLocator{},
			wantErr:   true,
			wantErrIs: ErrNoBinDir,
		},
		{
			name:      "no locator",
			wantErr:   true,
			wantErrIs: ErrNoBinDir,
		},
		{
			name:    "locator failure",
			locator: &fakeLocator{err: errors.New("boom")},
			wantErr: true,
		},
		{
			name:    "bin dir missing",
			opts:    Options{BinDir: filepath.Join(binDir, "nope")},
			wantErr: true,
		},
		{
			name:    "bin dir relative",
			opts:    Options{BinDir: "."},
			wantErr: true,
		},
		{
			name:    "dot dir missing",
			opts:    Options{BinDir: binDir, DotDir: filepath.Join(dotDir, "nope")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Deps{}
			if tt.locator != nil {
				deps.Locator = tt.locator
			}
			plan, err := New(deps).Plan(context.Background(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Plan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
				t.Errorf("Plan() error = %v, want %v", err, tt.wantErrIs)
			}
			if tt.wantErr {
				if plan.Stage != StageConfigureDirectories {
					t.Errorf("Stage = %v, want %v", plan.Stage, StageConfigureDirectories)
				}
				var dirErr *DirectoryError
				if tt.wantErrIs == nil && tt.locator == nil && !errors.As(err, &dirErr) {
					t.Errorf("Plan() error = %T, want *DirectoryError", err)
				}
				return
			}
			if plan.Config.BinDir != tt.wantBinDir {
				t.Errorf("BinDir = %q, want %q", plan.Config.BinDir, tt.wantBinDir)
			}
			if plan.Config.DotDir != tt.wantDotDir {
				t.Errorf("DotDir = %q, want %q", plan.Config.DotDir, tt.wantDotDir)
			}
		})
	}
}

func TestPlan_ExplicitBinDirSkipsLocator(t *testing.T) {
	binDir, _ := testDirs(t)
	loc := &fakeLocator{dir: "/elsewhere"}

	plan, err := New(Deps{Locator: loc}).Plan(context.Background(), Options{BinDir: binDir})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if loc.calls != 0 {
		t.Errorf("locator called %d times, want 0", loc.calls)
	}
	if plan.Config.BinDir != binDir {
		t.Errorf("BinDir = %q, want %q", plan.Config.BinDir, binDir)
	}
}

func TestPlan_DefaultDotfiles(t *testing.T) {
	binDir, _ := testDirs(t)

	plan, err := New(Deps{}).Plan(context.Background(), Options{BinDir: binDir})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	var got []string
	for _, rec := range plan.Records {
		got = append(got, rec.Name.String())
	}
	want := []string{".bash_profile", ".bashrc", ".cshrc", ".tcshrc", ".profile", ".zshrc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, plan.Config.Dotfiles); diff != "" {
		t.Errorf("Config.Dotfiles mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		test        bool
		applyErr    error
		wantCalls   int
		wantStage   Stage
		wantErr     bool
		wantApplied bool
	}{
		{
			name:      "test mode stops before apply",
			test:      true,
			wantCalls: 0,
			wantStage: StageDone,
		},
		{
			name:        "apply runs",
			wantCalls:   1,
			wantStage:   StageApply,
			wantApplied: true,
		},
		{
			name:      "apply failure",
			applyErr:  errors.New("disk full"),
			wantCalls: 1,
			wantStage: StageApply,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binDir, _ := testDirs(t)
			applier := &fakeApplier{err: tt.applyErr}

			plan, err := New(Deps{Applier: applier}).Run(context.Background(), Options{
				BinDir: binDir,
				Test:   tt.test,
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if applier.calls != tt.wantCalls {
				t.Errorf("Apply() calls = %d, want %d", applier.calls, tt.wantCalls)
			}
			if plan.Stage != tt.wantStage {
				t.Errorf("Stage = %v, want %v", plan.Stage, tt.wantStage)
			}
			if (plan.Applied != nil) != tt.wantApplied {
				t.Errorf("Applied = %v, want set=%v", plan.Applied, tt.wantApplied)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	binDir, _ := testDirs(t)
	applier := &fakeApplier{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Deps{Applier: applier}).Run(ctx, Options{BinDir: binDir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if applier.calls != 0 {
		t.Errorf("Apply() called %d times after cancellation", applier.calls)
	}
}

func TestSummary(t *testing.T) {
	binDir, dotDir := testDirs(t)
	testutil.WriteDotfile(t, dotDir, ".bashrc", "")

	log := &recordingLogger{}
	_, err := New(Deps{Logger: log}).Plan(context.Background(), Options{
		Dotfiles: []string{".bashrc"},
		BinDir:   binDir,
		Verbose:  1,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	wantTail := []string{
		"want 2 modifications across 1 files:",
		"   file             path  flatdir  apsearch",
		"   ---------------  ----  -------  --------",
		"   .bashrc          1     0        1       ",
	}
	got := log.lines[len(log.lines)-len(wantTail):]
	if diff := cmp.Diff(wantTail, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	quiet := &recordingLogger{}
	if _, err := New(Deps{Logger: quiet}).Plan(context.Background(), Options{
		Dotfiles: []string{".bashrc"},
		BinDir:   binDir,
		Verbose:  0,
	}); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(quiet.lines) != 0 {
		t.Errorf("verbosity 0 produced output: %v", quiet.lines)
	}
}

func TestPathTail(t *testing.T) {
	tests := map[string]string{
		"/opt/bin":         "bin",
		"/home/me/abin":    "abin",
		"abin":             "abin",
		"/":                "",
		"/usr/local/afni/": "",
	}
	for in, want := range tests {
		if got := PathTail(in); got != want {
			t.Errorf("PathTail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseUpdates(t *testing.T) {
	tests := []struct {
		names   []string
		want    Updates
		wantErr bool
	}{
		{nil, UpdateNone, false},
		{[]string{"path"}, UpdatePath, false},
		{[]string{"apsearch", "flatdir"}, UpdateApsearch | UpdateFlatdir, false},
		{[]string{"ALL"}, UpdateAll, false},
		{[]string{"path", "ALL"}, UpdateAll, false},
		{[]string{"all"}, UpdateNone, true},
		{[]string{"PATH"}, UpdateNone, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.names, "+"), func(t *testing.T) {
			got, err := ParseUpdates(tt.names)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUpdates() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseUpdates() = %v, want %v", got, tt.want)
			}
		})
	}
}
