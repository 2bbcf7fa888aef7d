package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dacharyc/rowdiff"
	flag "github.com/spf13/pflag"
)

func TestLoadConfig(t *testing.T) {
	configContent := `# Comment line
mode = side-by-side
algorithm=histogram
cleanup = semantic
timeout = 1s
statistics
color=red,green
context=3
W=100
`
	configPath := filepath.Join(t.TempDir(), "testconfig")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}

	if cfg.mode != modeSideBySide {
		t.Errorf("mode = %q, want %q", cfg.mode, modeSideBySide)
	}
	if cfg.algorithm != rowdiff.AlgorithmHistogram {
		t.Errorf("algorithm = %q, want %q", cfg.algorithm, rowdiff.AlgorithmHistogram)
	}
	if cfg.cleanup != "semantic" {
		t.Errorf("cleanup = %q, want %q", cfg.cleanup, "semantic")
	}
	if cfg.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", cfg.timeout)
	}
	if !cfg.statistics {
		t.Error("statistics should be true")
	}
	if cfg.colorSpec != "red,green" {
		t.Errorf("colorSpec = %q, want %q", cfg.colorSpec, "red,green")
	}
	if cfg.context != 3 {
		t.Errorf("context = %d, want 3", cfg.context)
	}
	if cfg.width != 100 {
		t.Errorf("width = %d, want 100", cfg.width)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}

	// Should return defaults
	if cfg.mode != modeUnified {
		t.Errorf("mode = %q, want %q", cfg.mode, modeUnified)
	}
	if cfg.timeout != rowdiff.DefaultTimeout {
		t.Errorf("timeout = %v, want %v", cfg.timeout, rowdiff.DefaultTimeout)
	}
	if cfg.lineNumbers != -1 {
		t.Errorf("lineNumbers = %d, want -1", cfg.lineNumbers)
	}
	if cfg.startDelete != "[-" {
		t.Errorf("startDelete = %q, want %q", cfg.startDelete, "[-")
	}
	if cfg.stopInsert != "+}" {
		t.Errorf("stopInsert = %q, want %q", cfg.stopInsert, "+}")
	}
}

func TestLoadConfigReportsLine(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "badconfig")
	if err := os.WriteFile(configPath, []byte("# ok\nmode=unified\nmode=sideways\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := loadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("error %q does not name line 3", err)
	}
}

func TestApplyConfigOption(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		checkFn func(cfg config) bool
		wantErr bool
	}{
		{"statistics", "", func(cfg config) bool { return cfg.statistics }, false},
		{"s", "yes", func(cfg config) bool { return cfg.statistics }, false},
		{"json", "true", func(cfg config) bool { return cfg.json }, false},
		{"no-common", "1", func(cfg config) bool { return cfg.noCommon }, false},
		{"less-mode", "false", func(cfg config) bool { return !cfg.lessMode }, false},
		{"line-numbers", "4", func(cfg config) bool { return cfg.lineNumbers == 4 }, false},
		{"L", "oops", func(cfg config) bool { return cfg.lineNumbers == -1 }, false},
		{"C", "5", func(cfg config) bool { return cfg.context == 5 }, false},
		{"M", "inline", func(cfg config) bool { return cfg.mode == modeInline }, false},
		{"A", "myers", func(cfg config) bool { return cfg.algorithm == rowdiff.AlgorithmMyers }, false},
		{"timeout", "0", func(cfg config) bool { return cfg.timeout == 0 }, false},
		{"start-delete", "<<", func(cfg config) bool { return cfg.startDelete == "<<" }, false},
		{"mode", "split", nil, true},
		{"algorithm", "patience", nil, true},
		{"cleanup", "aggressive", nil, true},
		{"timeout", "soon", nil, true},
		{"timeout", "-1s", nil, true},
		{"unknown-option", "value", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := defaultConfig()
			err := applyConfigOption(&cfg, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFn != nil && !tt.checkFn(cfg) {
				t.Error("config check failed")
			}
		})
	}
}

func TestParseEscapeSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hex escape", `\x1b[31m`, "\x1b[31m"},
		{"escape character", `\e[1m`, "\x1b[1m"},
		{"named escape newline", `\n`, "\n"},
		{"named escape tab", `\t`, "\t"},
		{"escaped backslash", `\\`, `\`},
		{"mixed escapes with regular chars", `<<\t>>`, "<<\t>>"},
		{"no escapes passthrough", "[-", "[-"},
		{"invalid hex escape kept as-is", `\xZZ`, `\xZZ`},
		{"uppercase hex", `\X0A`, "\n"},
		{"trailing backslash", `abc\`, `abc\`},
		{"unknown escape kept", `\q`, `\q`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseEscapeSequences(tt.input)
			if result != tt.expected {
				t.Errorf("parseEscapeSequences(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPrescanProfile(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"a", "b"}, ""},
		{[]string{"--profile", "work", "a", "b"}, "work"},
		{[]string{"-s", "--profile=home", "a"}, "home"},
		{[]string{"--profile"}, ""},
	}

	for _, tt := range tests {
		if got := prescanProfile(tt.args); got != tt.want {
			t.Errorf("prescanProfile(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", "")

	writeConfig := func(t *testing.T, path string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# config"), 0644); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}
	}

	t.Run("no config file exists", func(t *testing.T) {
		result, err := findConfigFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds .rowdiffrc in home", func(t *testing.T) {
		configPath := filepath.Join(tmpHome, ".rowdiffrc")
		writeConfig(t, configPath)
		defer os.Remove(configPath)

		result, err := findConfigFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("finds XDG config", func(t *testing.T) {
		configPath := filepath.Join(tmpHome, ".config", "rowdiff", "config")
		writeConfig(t, configPath)
		defer os.RemoveAll(filepath.Join(tmpHome, ".config"))

		result, err := findConfigFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("prefers .rowdiffrc over XDG", func(t *testing.T) {
		homeConfig := filepath.Join(tmpHome, ".rowdiffrc")
		writeConfig(t, homeConfig)
		defer os.Remove(homeConfig)
		writeConfig(t, filepath.Join(tmpHome, ".config", "rowdiff", "config"))
		defer os.RemoveAll(filepath.Join(tmpHome, ".config"))

		result, err := findConfigFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != homeConfig {
			t.Errorf("expected home config %q, got %q", homeConfig, result)
		}
	})

	t.Run("finds profile-specific config", func(t *testing.T) {
		profileConfig := filepath.Join(tmpHome, ".rowdiffrc.myprofile")
		writeConfig(t, profileConfig)
		defer os.Remove(profileConfig)

		result, err := findConfigFile("myprofile")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != profileConfig {
			t.Errorf("expected %q, got %q", profileConfig, result)
		}
	})

	t.Run("missing profile is an error", func(t *testing.T) {
		if _, err := findConfigFile("nonexistent"); err == nil {
			t.Error("expected error for missing profile")
		}
	})

	t.Run("respects XDG_CONFIG_HOME", func(t *testing.T) {
		customXDG := filepath.Join(tmpHome, "custom-xdg")
		configPath := filepath.Join(customXDG, "rowdiff", "config")
		writeConfig(t, configPath)
		defer os.RemoveAll(customXDG)
		t.Setenv("XDG_CONFIG_HOME", customXDG)

		result, err := findConfigFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})
}

func TestBuildView(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	parse := func(t *testing.T, args ...string) cliFlags {
		t.Helper()
		fs := flag.NewFlagSet("rowdiff", flag.ContinueOnError)
		f := defineFlags(fs, defaultConfig())
		if err := fs.Parse(args); err != nil {
			t.Fatalf("Parse(%q) error: %v", args, err)
		}
		return f
	}

	t.Run("defaults", func(t *testing.T) {
		v, err := buildView(parse(t))
		if err != nil {
			t.Fatalf("buildView error: %v", err)
		}
		if v.mode != modeUnified {
			t.Errorf("mode = %q", v.mode)
		}
		if v.opts != rowdiff.DefaultOptions() {
			t.Errorf("opts = %+v, want defaults", v.opts)
		}
		if v.fmtOpts.UseColor {
			t.Error("NO_COLOR should disable color")
		}
		if v.fmtOpts.ShowLineNumbers {
			t.Error("line numbers should be off by default")
		}
		if v.fmtOpts.Width <= 0 {
			t.Errorf("width = %d, want a positive fallback", v.fmtOpts.Width)
		}
	})

	t.Run("flags", func(t *testing.T) {
		v, err := buildView(parse(t, "-M", "inline", "-A", "myers", "--cleanup=none", "--timeout=0", "-L", "-C", "2", "-W", "80", "-w", `\t<`))
		if err != nil {
			t.Fatalf("buildView error: %v", err)
		}
		if v.mode != modeInline || v.opts.Algorithm != rowdiff.AlgorithmMyers || v.opts.LineCleanup != rowdiff.CleanupNone {
			t.Errorf("view = %+v", v)
		}
		if v.opts.Timeout != 0 {
			t.Errorf("timeout = %v, want 0", v.opts.Timeout)
		}
		if !v.fmtOpts.ShowLineNumbers || v.fmtOpts.LineNumWidth != 0 {
			t.Errorf("line numbers = %v/%d, want on with auto width", v.fmtOpts.ShowLineNumbers, v.fmtOpts.LineNumWidth)
		}
		if v.fmtOpts.Context != 2 || v.fmtOpts.Width != 80 {
			t.Errorf("context/width = %d/%d", v.fmtOpts.Context, v.fmtOpts.Width)
		}
		if v.fmtOpts.StartDelete != "\t<" {
			t.Errorf("start marker = %q", v.fmtOpts.StartDelete)
		}
	})

	for _, args := range [][]string{
		{"-M", "split"},
		{"-A", "patience"},
		{"--cleanup", "aggressive"},
		{"--color=mauve"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := buildView(parse(t, args...)); err == nil {
				t.Errorf("buildView(%q) succeeded, want error", args)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		part     int
		total    int
		expected int
	}{
		{"zero total returns zero", 5, 0, 0},
		{"zero part returns zero", 0, 100, 0},
		{"50 percent", 50, 100, 50},
		{"100 percent", 100, 100, 100},
		{"rounding down", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percent(tt.part, tt.total); got != tt.expected {
				t.Errorf("percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.expected)
			}
		})
	}
}

func TestPrintStatistics(t *testing.T) {
	var sb strings.Builder
	printStatistics(&sb, rowdiff.DiffStatistics{
		OldLines: 4, NewLines: 5, CommonLines: 3,
		DeletedLines: 1, InsertedLines: 2, ModifiedLines: 1,
	})

	want := "\nold: 4 lines  3 75% common  1 25% deleted  1 25% changed\n" +
		"new: 5 lines  3 60% common  2 40% inserted  1 20% changed\n"
	if sb.String() != want {
		t.Errorf("printStatistics:\ngot:\n%q\nwant:\n%q", sb.String(), want)
	}
}
