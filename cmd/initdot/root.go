package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/ZebulonRouseFrantzich/initdot/internal/config"
	"github.com/ZebulonRouseFrantzich/initdot/internal/dotfile"
	"github.com/ZebulonRouseFrantzich/initdot/internal/locate"
	"github.com/ZebulonRouseFrantzich/initdot/internal/logging"
	"github.com/ZebulonRouseFrantzich/initdot/internal/planner"
	"github.com/ZebulonRouseFrantzich/initdot/internal/platform"
	"github.com/ZebulonRouseFrantzich/initdot/internal/shell"
)

// rootFlags holds command-line flags for initdot
type rootFlags struct {
	hist          bool
	showValidOpts bool
	ver           bool
	dotfilesAll   bool
	dotfilesMod   bool
	shells        bool

	dflist     []string
	dirBin     string
	dirDot     string
	doUpdates  []string
	force      bool
	makeBackup string
	test       bool
	verb       int
	config     string
	platform   string
}

// cliEnv carries the collaborators that touch the outside world.
type cliEnv struct {
	stdout   io.Writer
	stderr   io.Writer
	locator  planner.Locator
	detector platform.Detector
}

// reportedError wraps an error the logger has already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, cliEnv{
		stdout:   stdout,
		stderr:   stderr,
		locator:  locate.Which{},
		detector: platform.NewDetector(),
	})
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, env cliEnv) int {
	cmd := newRootCmd(env)
	// nil would make cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(env.stderr, "%s%v\n", logging.MarkError, err)
		}
		return 1
	}
	return 0
}

func newRootCmd(env cliEnv) *cobra.Command {
	fl := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "initdot",
		Short:         "Initialize user dotfiles for AFNI",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, env, fl)
		},
	}
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printHelp(c.OutOrStdout())
	})

	f := cmd.Flags()
	f.SortFlags = false

	f.BoolVar(&fl.hist, "hist", false, "show module history")
	f.BoolVar(&fl.showValidOpts, "show-valid-opts", false, "list valid options")
	f.BoolVar(&fl.ver, "ver", false, "show current version")
	f.BoolVar(&fl.dotfilesAll, "help-dotfiles-all", false, "list all known dotfiles")
	f.BoolVar(&fl.dotfilesMod, "help-dotfiles-mod", false, "list modifiable dotfiles")
	f.BoolVar(&fl.shells, "help-shells", false, "list valid shells")

	f.StringSliceVar(&fl.dflist, "dflist", nil, "dotfiles to evaluate (def: modifiable list)")
	f.StringVar(&fl.dirBin, "dir-bin", "", "directory to add to PATH")
	f.StringVar(&fl.dirDot, "dir-dot", "", "directory holding the dotfiles (def: $HOME)")
	f.StringSliceVar(&fl.doUpdates, "do-updates", nil,
		"updates to make ("+strings.Join(planner.UpdateNames, ", ")+")")
	f.BoolVar(&fl.force, "force", false, "make every update, even when not needed")
	f.StringVar(&fl.makeBackup, "make-backup", "yes", "back up each edited file (yes/no)")
	f.BoolVar(&fl.test, "test", false, "only report, do not modify any file")
	f.IntVar(&fl.verb, "verb", 1, "set the verbosity level")
	f.StringVar(&fl.config, "config", "", "Lua defaults file")
	f.StringVar(&fl.platform, "platform", "", "pretend to run on this OS (darwin, linux)")
	_ = f.MarkHidden("platform")

	return cmd
}

func runRoot(cmd *cobra.Command, env cliEnv, fl *rootFlags) error {
	out := cmd.OutOrStdout()

	// terminal options
	switch {
	case cmd.Flags().NFlag() == 0:
		printHelp(out)
		return nil
	case fl.hist:
		printHistory(out)
		return nil
	case fl.showValidOpts:
		printValidOpts(out, cmd.Flags())
		return nil
	case fl.ver:
		printVersion(out)
		return nil
	case fl.dotfilesAll:
		printDotfiles(out, dotfile.All(), false, fl.verb)
		return nil
	case fl.dotfilesMod:
		printDotfiles(out, dotfile.Modifiable(), true, fl.verb)
		return nil
	case fl.shells:
		printShells(out, fl.verb)
		return nil
	}

	ctx := cmd.Context()

	detector := env.detector
	if fl.platform != "" {
		detector = platform.Static{OS: fl.platform}
	}

	opts, defaults, err := buildOptions(ctx, cmd, fl, detector)
	if err != nil {
		return err
	}

	log := logging.New(out, zapcore.InfoLevel)
	defer log.Sync()

	if defaults.Source != "" && opts.Verbose > 1 {
		log.Notef("applied defaults from %s", defaults.Source)
	}

	p := planner.New(planner.Deps{
		Locator: env.locator,
		Applier: shell.NewEditor(log),
		Logger:  log,
	})
	if _, err := p.Run(ctx, opts); err != nil {
		return reportedError{err: err}
	}

	if opts.Test && opts.Verbose > 0 {
		log.Notef("test mode, no dotfiles were modified")
	}
	return nil
}

// buildOptions layers built-in defaults, the Lua defaults file and explicitly
// set flags, in that order.
func buildOptions(ctx context.Context, cmd *cobra.Command, fl *rootFlags, detector platform.Detector) (planner.Options, *config.Defaults, error) {
	opts := planner.Options{
		Backup:  true,
		Verbose: 1,
	}

	info, err := detector.Detect(ctx)
	if err != nil {
		return opts, nil, fmt.Errorf("detect platform: %w", err)
	}
	opts.Darwin = info.IsMacOS()

	changed := cmd.Flags().Changed

	// a file that fails to parse sets no verbosity of its own
	verbose := opts.Verbose
	if changed("verb") {
		verbose = fl.verb
	}
	defaults, err := config.NewParser(info).Load(ctx, fl.config)
	if err != nil {
		return opts, nil, errors.New(config.FormatError(err, verbose > 2))
	}
	defaults.Apply(&opts)

	if changed("dflist") {
		opts.Dotfiles = fl.dflist
	}
	if changed("dir-bin") {
		opts.BinDir = fl.dirBin
	}
	if changed("dir-dot") {
		opts.DotDir = fl.dirDot
	}
	if changed("do-updates") {
		if opts.Updates, err = planner.ParseUpdates(fl.doUpdates); err != nil {
			return opts, nil, fmt.Errorf("--do-updates: %w", err)
		}
	}
	if changed("force") {
		opts.Force = fl.force
	}
	if changed("make-backup") {
		switch strings.ToLower(fl.makeBackup) {
		case "yes":
			opts.Backup = true
		case "no":
			opts.Backup = false
		default:
			return opts, nil, fmt.Errorf("--make-backup: invalid value %q (want yes or no)", fl.makeBackup)
		}
	}
	if changed("verb") {
		opts.Verbose = fl.verb
	}
	opts.Test = fl.test

	return opts, defaults, nil
}
