package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/initdot/internal/planner"
	"github.com/ZebulonRouseFrantzich/initdot/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Defaults holds the values found in a defaults file. Nil and empty fields
// were not set by the file.
type Defaults struct {
	Dotfiles []string
	BinDir   string
	DotDir   string
	Updates  *planner.Updates
	Force    *bool
	Backup   *bool
	Verbose  *int

	// Source is the file the values came from, empty when none was read.
	Source string
}

// Apply copies every value set in d onto opts.
func (d *Defaults) Apply(opts *planner.Options) {
	if d == nil {
		return
	}
	if len(d.Dotfiles) > 0 {
		opts.Dotfiles = append([]string(nil), d.Dotfiles...)
	}
	if d.BinDir != "" {
		opts.BinDir = d.BinDir
	}
	if d.DotDir != "" {
		opts.DotDir = d.DotDir
	}
	if d.Updates != nil {
		opts.Updates = *d.Updates
	}
	if d.Force != nil {
		opts.Force = *d.Force
	}
	if d.Backup != nil {
		opts.Backup = *d.Backup
	}
	if d.Verbose != nil {
		opts.Verbose = *d.Verbose
	}
}

// ParseError represents a defaults file error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// FormatError formats err for display, dropping the Lua stack traceback
// unless verbose is set.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}

// DefaultPath returns $INITDOT_CONFIG, or initdot.lua under the user's
// config directory. explicit reports whether the path came from the
// environment.
func DefaultPath() (path string, explicit bool, err error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		if home, err = os.UserHomeDir(); err != nil {
			return "", false, fmt.Errorf("locate defaults file: %w", err)
		}
	}
	return filepath.Join(home, ".config", "initdot", "initdot.lua"), false, nil
}

// Parser evaluates defaults files with platform information available.
type Parser struct {
	info *platform.Info
}

// NewParser creates a Parser for an already detected platform. A nil info
// leaves the platform table out.
func NewParser(info *platform.Info) *Parser {
	return &Parser{info: info}
}

// Load reads the defaults file at path, or at DefaultPath when path is empty.
// A missing file at the implicit default location yields empty Defaults.
func (p *Parser) Load(ctx context.Context, path string) (*Defaults, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, explicit, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("defaults file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("defaults file %s is not a regular file", path)
	}
	if info.Size() > MaxConfigSize {
		return nil, fmt.Errorf("defaults file %s exceeds %d bytes", path, MaxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults file: %w", err)
	}

	d, err := p.ParseString(ctx, string(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Message = path + ": " + parseErr.Message
		}
		return nil, err
	}
	d.Source = path
	return d, nil
}

// ParseString evaluates luaCode and extracts the "initdot" table.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Defaults, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.info != nil {
		platform.InjectPlatformTable(L, p.info)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("defaults file cancelled: %w", ctx.Err())
		}
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractDefaults(L)
}

// extractDefaults reads the global "initdot" table. A file that never assigns
// it sets nothing.
func extractDefaults(L *lua.LState) (*Defaults, error) {
	d := &Defaults{}

	global := L.GetGlobal(luaGlobalInitdot)
	switch global.Type() {
	case lua.LTNil:
		return d, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' table", luaGlobalInitdot),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}
	table := global.(*lua.LTable)

	var err error
	if d.Dotfiles, err = stringList(table, luaFieldDotfiles); err != nil {
		return nil, err
	}
	if d.BinDir, err = stringField(table, luaFieldDirBin); err != nil {
		return nil, err
	}
	if d.DotDir, err = stringField(table, luaFieldDirDot); err != nil {
		return nil, err
	}

	updates, err := stringList(table, luaFieldUpdates)
	if err != nil {
		return nil, err
	}
	if updates != nil {
		u, err := planner.ParseUpdates(updates)
		if err != nil {
			return nil, &ParseError{Message: fieldMessage(luaFieldUpdates), Detail: err.Error()}
		}
		d.Updates = &u
	}

	if d.Force, err = boolField(table, luaFieldForce); err != nil {
		return nil, err
	}
	if d.Backup, err = boolField(table, luaFieldBackup); err != nil {
		return nil, err
	}

	if v := table.RawGetString(luaFieldVerb); v.Type() != lua.LTNil {
		n, ok := v.(lua.LNumber)
		if !ok || float64(n) != float64(int(n)) || n < 0 {
			return nil, &ParseError{
				Message: fieldMessage(luaFieldVerb),
				Detail:  fmt.Sprintf("expected non-negative integer, got %s", v.String()),
			}
		}
		verb := int(n)
		d.Verbose = &verb
	}

	return d, nil
}

func fieldMessage(field string) string {
	return fmt.Sprintf("invalid %s.%s", luaGlobalInitdot, field)
}

func stringField(table *lua.LTable, field string) (string, error) {
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", &ParseError{
			Message: fieldMessage(field),
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}
}

// stringList accepts either a list of strings or a single whitespace
// separated string. Nil entries, as left by platform.when, are skipped.
func stringList(table *lua.LTable, field string) ([]string, error) {
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		return strings.Fields(string(v)), nil
	case *lua.LTable:
		list := []string{}
		var bad lua.LValue
		v.ForEach(func(_, value lua.LValue) {
			switch value.Type() {
			case lua.LTNil:
			case lua.LTString:
				list = append(list, value.String())
			default:
				if bad == nil {
					bad = value
				}
			}
		})
		if bad != nil {
			return nil, &ParseError{
				Message: fieldMessage(field),
				Detail:  fmt.Sprintf("expected list of strings, found %s", bad.Type()),
			}
		}
		return list, nil
	default:
		return nil, &ParseError{
			Message: fieldMessage(field),
			Detail:  fmt.Sprintf("expected list of strings, got %s", v.Type()),
		}
	}
}

// boolField also accepts "yes" and "no", the spellings of --make-backup.
func boolField(table *lua.LTable, field string) (*bool, error) {
	var b bool
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		b = bool(v)
	case lua.LString:
		switch strings.ToLower(string(v)) {
		case "yes":
			b = true
		case "no":
			b = false
		default:
			return nil, &ParseError{
				Message: fieldMessage(field),
				Detail:  fmt.Sprintf("expected boolean, yes or no, got %q", string(v)),
			}
		}
	default:
		return nil, &ParseError{
			Message: fieldMessage(field),
			Detail:  fmt.Sprintf("expected boolean, got %s", v.Type()),
		}
	}
	return &b, nil
}
