package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME, XDG, and the working directory at a scratch dir so
// the developer's real config cannot leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, ".config"))
	for _, v := range []string{"TOOD_DB", "TOOD_EDITOR", "TOOD_LOG_LEVEL", "TOOD_LOG_FORMAT", "TOOD_INCOMPLETE"} {
		t.Setenv(v, "")
	}
	chdir(t, tmp)
	return tmp
}

// chdir is t.Chdir for Go versions before 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func load(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("tood", flag.ContinueOnError)
	cfg, err := Load(fs, args)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	tmp := isolate(t)

	cfg := load(t)
	if want := filepath.Join(tmp, ".tood", "todos.db"); cfg.DBPath != want {
		t.Errorf("DBPath: got %q, want %q", cfg.DBPath, want)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
	if cfg.IncompleteOnly {
		t.Error("IncompleteOnly should default to false")
	}
}

func TestProjectConfigFile(t *testing.T) {
	tmp := isolate(t)

	content := []byte("db_path = \"my.db\"\neditor = \"nano\"\nincomplete_only = true\n")
	if err := os.WriteFile(filepath.Join(tmp, "tood.toml"), content, 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg := load(t)
	if want := filepath.Join(tmp, "my.db"); cfg.DBPath != want {
		t.Errorf("DBPath: got %q, want %q", cfg.DBPath, want)
	}
	if cfg.Editor != "nano" {
		t.Errorf("Editor: got %q, want nano", cfg.Editor)
	}
	if !cfg.IncompleteOnly {
		t.Error("IncompleteOnly should be true from project config")
	}
}

func TestUserConfigFile(t *testing.T) {
	tmp := isolate(t)

	dir := filepath.Join(tmp, ".tood")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tood.toml"), []byte("log_level = \"info\"\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg := load(t)
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
}

func TestProjectOverridesUser(t *testing.T) {
	tmp := isolate(t)

	dir := filepath.Join(tmp, ".tood")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tood.toml"), []byte("editor = \"vim\"\n"), 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, ".tood.toml"), []byte("editor = \"nano\"\n"), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg := load(t)
	if cfg.Editor != "nano" {
		t.Errorf("Editor: got %q, want nano (project file wins)", cfg.Editor)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmp := isolate(t)

	if err := os.WriteFile(filepath.Join(tmp, "tood.toml"), []byte("db_path = \"file.db\"\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("TOOD_DB", filepath.Join(tmp, "env.db"))
	t.Setenv("TOOD_INCOMPLETE", "true")

	cfg := load(t)
	if want := filepath.Join(tmp, "env.db"); cfg.DBPath != want {
		t.Errorf("DBPath: got %q, want %q (env wins)", cfg.DBPath, want)
	}
	if !cfg.IncompleteOnly {
		t.Error("TOOD_INCOMPLETE=true should enable IncompleteOnly")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("TOOD_DB", filepath.Join(tmp, "env.db"))

	cfg := load(t, "-db", filepath.Join(tmp, "flag.db"))
	if want := filepath.Join(tmp, "flag.db"); cfg.DBPath != want {
		t.Errorf("DBPath: got %q, want %q (flag wins)", cfg.DBPath, want)
	}
}

func TestVerboseFlag(t *testing.T) {
	isolate(t)

	cfg := load(t, "-verbose")
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel with -verbose: got %q, want debug", cfg.LogLevel)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/todos.db", filepath.Join(home, "todos.db")},
		{"/abs/todos.db", "/abs/todos.db"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
