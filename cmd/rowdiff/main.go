// Command rowdiff compares two texts line by line and shows the result as a
// unified, side-by-side or inline diff, with changed characters highlighted
// in modified lines.
//
// Usage:
//
//	rowdiff old.txt new.txt
//	rowdiff -M side-by-side -C 3 old.go new.go
//	git show HEAD:file.go | rowdiff --stdin file.go
//	git diff | rowdiff --diff-input
//	rowdiff --watch old.yaml new.yaml
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dacharyc/rowdiff"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes
const (
	exitIdentical = 0 // files are identical
	exitDiffer    = 1 // files differ
	exitError     = 2 // error occurred
)

// View modes
const (
	modeUnified    = "unified"
	modeSideBySide = "side-by-side"
	modeInline     = "inline"
)

// config holds configuration from profile files
type config struct {
	mode        string
	algorithm   string
	timeout     time.Duration
	cleanup     string
	context     int
	lineNumbers int
	width       int
	noColor     bool
	colorSpec   string
	startDelete string
	stopDelete  string
	startInsert string
	stopInsert  string
	lessMode    bool
	printerMode bool
	noDeleted   bool
	noInserted  bool
	noCommon    bool
	statistics  bool
	json        bool
}

// cliFlags holds all parsed command-line flags
type cliFlags struct {
	mode        *string
	algorithm   *string
	timeout     *time.Duration
	cleanup     *string
	context     *int
	lineNumbers *int
	width       *int
	noColor     *bool
	colorSpec   *string
	startDelete *string
	stopDelete  *string
	startInsert *string
	stopInsert  *string
	lessMode    *bool
	printerMode *bool
	noDeleted   *bool
	noInserted  *bool
	noCommon    *bool
	statistics  *bool
	json        *bool
	stdinMode   *bool
	diffInput   *bool
	watch       *bool
	help        *bool
	version     *bool
}

// prescanProfile extracts --profile value before flag parsing
func prescanProfile(args []string) string {
	for i, arg := range args {
		if arg == "--profile" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--profile=") {
			return strings.TrimPrefix(arg, "--profile=")
		}
	}
	return ""
}

// defineFlags sets up all command-line flags with config defaults
func defineFlags(fs *flag.FlagSet, cfg config) cliFlags {
	_ = fs.String("profile", "", "use settings from ~/.rowdiffrc.<profile>")

	f := cliFlags{
		mode:        fs.StringP("mode", "M", cfg.mode, "view: unified, side-by-side, or inline"),
		algorithm:   fs.StringP("algorithm", "A", cfg.algorithm, "line diff algorithm: dmp, histogram, or myers"),
		timeout:     fs.Duration("timeout", cfg.timeout, "time budget for the dmp algorithm (0 for no limit)"),
		cleanup:     fs.String("cleanup", cfg.cleanup, "line diff cleanup: lossless, semantic, or none"),
		context:     fs.IntP("context", "C", cfg.context, "show N lines of context around changes"),
		lineNumbers: fs.IntP("line-numbers", "L", cfg.lineNumbers, "show line numbers with specified width (0 for auto-width)"),
		width:       fs.IntP("width", "W", cfg.width, "side-by-side output width (0 for terminal width)"),
		noColor:     fs.Bool("no-color", cfg.noColor, "disable colored output"),
		colorSpec:   fs.StringP("color", "c", cfg.colorSpec, "set colors for deleted/inserted text (format: del_fg[:del_bg],ins_fg[:ins_bg], or 'list')"),
		startDelete: fs.StringP("start-delete", "w", cfg.startDelete, "string to mark begin of deleted text"),
		stopDelete:  fs.StringP("stop-delete", "x", cfg.stopDelete, "string to mark end of deleted text"),
		startInsert: fs.StringP("start-insert", "y", cfg.startInsert, "string to mark begin of inserted text"),
		stopInsert:  fs.StringP("stop-insert", "z", cfg.stopInsert, "string to mark end of inserted text"),
		lessMode:    fs.BoolP("less-mode", "l", cfg.lessMode, "use overstrike to highlight text for less -r"),
		printerMode: fs.BoolP("printer", "p", cfg.printerMode, "use overstrike to highlight text for printing"),
		noDeleted:   fs.BoolP("no-deleted", "1", cfg.noDeleted, "suppress printing of deleted lines"),
		noInserted:  fs.BoolP("no-inserted", "2", cfg.noInserted, "suppress printing of inserted lines"),
		noCommon:    fs.BoolP("no-common", "3", cfg.noCommon, "suppress printing of common lines"),
		statistics:  fs.BoolP("statistics", "s", cfg.statistics, "print statistics"),
		json:        fs.Bool("json", cfg.json, "print the diff as JSON"),
		stdinMode:   fs.Bool("stdin", false, "read first input from stdin, second from argument"),
		diffInput:   fs.Bool("diff-input", false, "read unified diff from stdin and highlight changed characters"),
		watch:       fs.Bool("watch", false, "redraw the diff whenever either file changes"),
		help:        fs.BoolP("help", "h", false, "show help"),
		version:     fs.BoolP("version", "v", false, "show version"),
	}

	fs.Lookup("color").NoOptDefVal = "default"
	fs.Lookup("line-numbers").NoOptDefVal = "0"

	name := fs.Name()
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file1 file2\n", name)
		fmt.Fprintf(os.Stderr, "       %s [options] --stdin file2\n", name)
		fmt.Fprintf(os.Stderr, "       %s [options] --diff-input\n", name)
		fmt.Fprintf(os.Stderr, "\nLine-level diff with character highlighting of modified lines.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s old.txt new.txt\n", name)
		fmt.Fprintf(os.Stderr, "  %s -M side-by-side -C 3 old.go new.go\n", name)
		fmt.Fprintf(os.Stderr, "  git show HEAD:file.go | %s --stdin file.go\n", name)
		fmt.Fprintf(os.Stderr, "  git diff | %s --diff-input\n", name)
		fmt.Fprintf(os.Stderr, "\nExit codes:\n")
		fmt.Fprintf(os.Stderr, "  0  files are identical\n")
		fmt.Fprintf(os.Stderr, "  1  files differ\n")
		fmt.Fprintf(os.Stderr, "  2  error occurred\n")
	}

	return f
}

// showColorList prints available colors
func showColorList(w io.Writer) {
	fmt.Fprintln(w, "Available colors:")
	colors := rowdiff.ColorNames()
	fmt.Fprintf(w, "  %s\n", strings.Join(colors[:8], ", "))
	fmt.Fprintf(w, "  %s\n", strings.Join(colors[8:], ", "))
	fmt.Fprintln(w, "\nUsage: -c delete_color[:delete_bg],insert_color[:insert_bg]")
	fmt.Fprintln(w, "Example: -c red,green")
	fmt.Fprintln(w, "Example: -c brightred:white,brightgreen:black")
}

// parseColors parses the color specification and returns delete/insert colors
func parseColors(colorSpec string) (deleteColor, insertColor string, err error) {
	if colorSpec == "" || colorSpec == "default" {
		return rowdiff.ANSIDeleteColor, rowdiff.ANSIInsertColor, nil
	}
	return rowdiff.ParseColorSpec(colorSpec)
}

// validateMode checks if the view mode is valid
func validateMode(mode string) error {
	switch mode {
	case modeUnified, modeSideBySide, modeInline:
		return nil
	}
	return fmt.Errorf("invalid mode %q (use unified, side-by-side, or inline)", mode)
}

// validateAlgorithm checks if the algorithm is valid
func validateAlgorithm(algorithm string) error {
	if rowdiff.ValidAlgorithm(algorithm) {
		return nil
	}
	return fmt.Errorf("invalid algorithm %q (use dmp, histogram, or myers)", algorithm)
}

// fail prints err and exits with the error status
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitError)
}

// readInputTexts reads input from stdin or files
func readInputTexts(fs *flag.FlagSet, stdinMode bool) (text1, text2 string, err error) {
	if stdinMode {
		if fs.NArg() < 1 {
			return "", "", fmt.Errorf("--stdin mode requires one file argument")
		}
		if text1, err = readAll(os.Stdin); err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		if text2, err = readFile(fs.Arg(0)); err != nil {
			return "", "", err
		}
		return text1, text2, nil
	}

	if fs.NArg() < 2 {
		return "", "", fmt.Errorf("requires two file arguments")
	}
	if text1, err = readFile(fs.Arg(0)); err != nil {
		return "", "", err
	}
	if text2, err = readFile(fs.Arg(1)); err != nil {
		return "", "", err
	}
	return text1, text2, nil
}

func main() {
	args := os.Args[1:]

	// Pre-scan for --profile flag before defining other flags
	profile := prescanProfile(args)

	// Load configuration from profile
	configPath, err := findConfigFile(profile)
	if err != nil {
		fail(err)
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fail(fmt.Errorf("loading config %s: %w", configPath, err))
	}

	// Define and parse flags
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	f := defineFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			os.Exit(exitIdentical)
		}
		os.Exit(exitError)
	}

	if *f.version {
		fmt.Printf("rowdiff version %s\n", Version)
		os.Exit(exitIdentical)
	}

	if *f.help {
		fs.Usage()
		os.Exit(exitIdentical)
	}

	// Handle -c list
	if *f.colorSpec == "list" {
		showColorList(os.Stdout)
		os.Exit(exitIdentical)
	}

	v, err := buildView(f)
	if err != nil {
		fail(err)
	}

	// Handle --diff-input mode
	if *f.diffInput {
		if err := rowdiff.ProcessUnifiedDiff(os.Stdin, os.Stdout, v.opts, v.fmtOpts); err != nil {
			fail(err)
		}
		os.Exit(exitIdentical)
	}

	// Handle --watch mode
	if *f.watch {
		if *f.stdinMode || fs.NArg() < 2 {
			fail(fmt.Errorf("--watch requires two file arguments"))
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		w := watcher{
			oldPath: fs.Arg(0),
			newPath: fs.Arg(1),
			view:    v,
			stdout:  os.Stdout,
			stderr:  os.Stderr,
			clear:   isTerminal(os.Stdout),
		}
		err := w.run(ctx)
		stop()
		if err != nil {
			fail(err)
		}
		os.Exit(exitIdentical)
	}

	// Get input texts
	text1, text2, err := readInputTexts(fs, *f.stdinMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(exitError)
	}

	out, err := v.render(text1, text2)
	if err != nil {
		fail(err)
	}
	if out.text != "" {
		fmt.Println(out.text)
	}

	if *f.statistics {
		printStatistics(os.Stderr, out.stats)
	}

	// Exit with appropriate code based on whether differences were found
	if out.changed {
		os.Exit(exitDiffer)
	}
	os.Exit(exitIdentical)
}

// buildView validates the parsed flags and turns them into diff and format
// options.
func buildView(f cliFlags) (view, error) {
	if err := validateMode(*f.mode); err != nil {
		return view{}, err
	}
	if err := validateAlgorithm(*f.algorithm); err != nil {
		return view{}, err
	}
	cleanup, err := rowdiff.ParseCleanup(*f.cleanup)
	if err != nil {
		return view{}, err
	}
	deleteColor, insertColor, err := parseColors(*f.colorSpec)
	if err != nil {
		return view{}, err
	}

	// Determine color output
	useColor := !*f.noColor && os.Getenv("NO_COLOR") == "" && (isTerminal(os.Stdout) || *f.colorSpec != "")
	if *f.lessMode || *f.printerMode {
		useColor = false
	}

	width := *f.width
	if width <= 0 {
		width = terminalWidth(os.Stdout)
	}

	return view{
		mode: *f.mode,
		json: *f.json,
		opts: rowdiff.Options{
			Algorithm:   *f.algorithm,
			Timeout:     *f.timeout,
			LineCleanup: cleanup,
		},
		fmtOpts: rowdiff.FormatOptions{
			StartDelete:     parseEscapeSequences(*f.startDelete),
			StopDelete:      parseEscapeSequences(*f.stopDelete),
			StartInsert:     parseEscapeSequences(*f.startInsert),
			StopInsert:      parseEscapeSequences(*f.stopInsert),
			NoDeleted:       *f.noDeleted,
			NoInserted:      *f.noInserted,
			NoCommon:        *f.noCommon,
			UseColor:        useColor,
			DeleteColor:     deleteColor,
			InsertColor:     insertColor,
			ChangeColor:     rowdiff.ANSIChangeColor,
			ColorReset:      rowdiff.ANSIReset,
			LessMode:        *f.lessMode,
			PrinterMode:     *f.printerMode,
			ShowLineNumbers: *f.lineNumbers >= 0,
			LineNumWidth:    max(0, *f.lineNumbers),
			Context:         *f.context,
			Width:           width,
		},
	}, nil
}

// printStatistics prints diff statistics
func printStatistics(w io.Writer, st rowdiff.DiffStatistics) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "old: %d lines  %d %d%% common  %d %d%% deleted  %d %d%% changed\n",
		st.OldLines,
		st.CommonLines, percent(st.CommonLines, st.OldLines),
		st.DeletedLines, percent(st.DeletedLines, st.OldLines),
		st.ModifiedLines, percent(st.ModifiedLines, st.OldLines))
	fmt.Fprintf(w, "new: %d lines  %d %d%% common  %d %d%% inserted  %d %d%% changed\n",
		st.NewLines,
		st.CommonLines, percent(st.CommonLines, st.NewLines),
		st.InsertedLines, percent(st.InsertedLines, st.NewLines),
		st.ModifiedLines, percent(st.ModifiedLines, st.NewLines))
}

// percent calculates percentage, handling division by zero
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part * 100) / total
}

// readFile reads an entire file into a string
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readAll reads all of r into a string
func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isTerminal returns true if the file is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of the terminal f is attached to, or
// rowdiff.DefaultWidth when f is not a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return rowdiff.DefaultWidth
}

// parseEscapeSequences converts escape sequences in a string.
func parseEscapeSequences(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '\\' || i+1 >= len(s) {
			result.WriteByte(s[i])
			i++
			continue
		}
		switch s[i+1] {
		case 'x', 'X':
			if i+3 < len(s) {
				if val, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					result.WriteByte(byte(val))
					i += 4
					continue
				}
			}
			result.WriteByte(s[i])
			i++
		case 'e':
			result.WriteByte('\033')
			i += 2
		case 'n':
			result.WriteByte('\n')
			i += 2
		case 't':
			result.WriteByte('\t')
			i += 2
		case '\\':
			result.WriteByte('\\')
			i += 2
		default:
			result.WriteByte(s[i])
			i++
		}
	}
	return result.String()
}

// findConfigFile returns the path to the config file for the given profile.
// If a profile is specified but the file doesn't exist, it returns an error.
func findConfigFile(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // No home dir, use defaults
	}

	if profile == "" {
		path := filepath.Join(home, ".rowdiffrc")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		path = filepath.Join(xdgConfig, "rowdiff", "config")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", nil // No default config found, use defaults
	}

	// Profile explicitly specified - file must exist
	path := filepath.Join(home, ".rowdiffrc."+profile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("profile config file not found: %s", path)
	}
	return path, nil
}

// loadConfig reads a config file and returns the configuration.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok {
			value = "true"
		}

		if err := applyConfigOption(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return cfg, scanner.Err()
}

// defaultConfig returns a config with default values
func defaultConfig() config {
	return config{
		mode:        modeUnified,
		algorithm:   rowdiff.AlgorithmDMP,
		timeout:     rowdiff.DefaultTimeout,
		cleanup:     rowdiff.CleanupLossless.String(),
		lineNumbers: -1,
		startDelete: "[-",
		stopDelete:  "-]",
		startInsert: "{+",
		stopInsert:  "+}",
	}
}

// applyStringOption handles string config options
func applyStringOption(cfg *config, key, value string) bool {
	switch key {
	case "color", "c":
		cfg.colorSpec = value
	case "start-delete", "w":
		cfg.startDelete = value
	case "stop-delete", "x":
		cfg.stopDelete = value
	case "start-insert", "y":
		cfg.startInsert = value
	case "stop-insert", "z":
		cfg.stopInsert = value
	default:
		return false
	}
	return true
}

// applyBoolOption handles boolean config options
func applyBoolOption(cfg *config, key, value string) bool {
	switch key {
	case "no-color":
		cfg.noColor = parseBool(value)
	case "less-mode", "l":
		cfg.lessMode = parseBool(value)
	case "printer", "p":
		cfg.printerMode = parseBool(value)
	case "no-deleted", "1":
		cfg.noDeleted = parseBool(value)
	case "no-inserted", "2":
		cfg.noInserted = parseBool(value)
	case "no-common", "3":
		cfg.noCommon = parseBool(value)
	case "statistics", "s":
		cfg.statistics = parseBool(value)
	case "json":
		cfg.json = parseBool(value)
	default:
		return false
	}
	return true
}

// applyIntOption handles integer config options
func applyIntOption(cfg *config, key, value string) bool {
	switch key {
	case "line-numbers", "L":
		cfg.lineNumbers = parseInt(value, -1)
	case "context", "C":
		cfg.context = parseInt(value, 0)
	case "width", "W":
		cfg.width = parseInt(value, 0)
	default:
		return false
	}
	return true
}

// applyConfigOption sets a config field based on key and value
func applyConfigOption(cfg *config, key, value string) error {
	if applyStringOption(cfg, key, value) {
		return nil
	}
	if applyBoolOption(cfg, key, value) {
		return nil
	}
	if applyIntOption(cfg, key, value) {
		return nil
	}

	// Special cases with validation
	switch key {
	case "mode", "M":
		if err := validateMode(value); err != nil {
			return err
		}
		cfg.mode = value
	case "algorithm", "A":
		if err := validateAlgorithm(value); err != nil {
			return err
		}
		cfg.algorithm = value
	case "cleanup":
		c, err := rowdiff.ParseCleanup(value)
		if err != nil {
			return err
		}
		cfg.cleanup = c.String()
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid timeout: %s (use a duration such as 200ms or 0)", value)
		}
		cfg.timeout = d
	default:
		return fmt.Errorf("unknown option: %s", key)
	}
	return nil
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1" || s == ""
}

// parseInt parses an integer value from a string
func parseInt(s string, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return val
}
