package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	// Test that root command is properly configured
	if RootCmd.Use != "uvve" {
		t.Errorf("expected Use to be 'uvve', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	if RootCmd.Version != version {
		t.Errorf("expected Version to be %q, got %q", version, RootCmd.Version)
	}

	if !RootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !RootCmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
	if RootCmd.SuggestionsMinimumDistance != 2 {
		t.Errorf("SuggestionsMinimumDistance = %d, want 2", RootCmd.SuggestionsMinimumDistance)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	// Test that every user-facing command is registered
	expectedCommands := []string{
		"create", "list", "activate", "edit", "remove",
		"status", "analytics", "cleanup",
		"lock", "freeze", "thaw", "add",
		"doctor", "watch",
	}

	foundCommands := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	// Test that --root flag is available
	flag := RootCmd.PersistentFlags().Lookup("root")
	if flag == nil {
		t.Fatal("expected --root flag to be registered")
	}

	if flag.Usage == "" {
		t.Error("expected --root flag to have usage text")
	}
}

func TestUvveRoot(t *testing.T) {
	tests := []struct {
		name     string
		rootFlag string
		rootEnv  string
		want     func(home string) string
	}{
		{
			name:     "flag wins over env",
			rootFlag: "FLAGDIR",
			rootEnv:  "ENVDIR",
			want:     func(string) string { return "FLAGDIR" },
		},
		{
			name:    "env wins over home",
			rootEnv: "ENVDIR",
			want:    func(string) string { return "ENVDIR" },
		},
		{
			name: "home default",
			want: func(home string) string { return filepath.Join(home, ".uvve") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			home := filepath.Join(base, "home")
			t.Setenv("HOME", home)

			oldRootDir := rootDir
			defer func() { rootDir = oldRootDir }()

			rootDir = ""
			if tt.rootFlag != "" {
				rootDir = filepath.Join(base, tt.rootFlag)
			}
			if tt.rootEnv != "" {
				t.Setenv("UVVE_ROOT", filepath.Join(base, tt.rootEnv))
			} else {
				t.Setenv("UVVE_ROOT", "")
			}

			got, err := uvveRoot()
			if err != nil {
				t.Fatalf("uvveRoot() error: %v", err)
			}

			want := tt.want(home)
			if !strings.HasPrefix(want, "/") {
				want = filepath.Join(base, want)
			}
			if got != want {
				t.Errorf("uvveRoot() = %q, want %q", got, want)
			}
		})
	}
}

func TestRootPathHelpers(t *testing.T) {
	root := "/tmp/uvve-root"

	if got := envsDir(root); got != filepath.Join(root, "envs") {
		t.Errorf("envsDir() = %q", got)
	}
	if got := historyPath(root); !strings.HasSuffix(got, "usage.db") {
		t.Errorf("expected historyPath to end with 'usage.db', got %q", got)
	}
	if got := defaultPIDFile(root); !strings.HasSuffix(got, "watch.pid") {
		t.Errorf("expected defaultPIDFile to end with 'watch.pid', got %q", got)
	}
	if got := defaultLogFile(root); !strings.HasSuffix(got, "watch.log") {
		t.Errorf("expected defaultLogFile to end with 'watch.log', got %q", got)
	}
}

func TestRootCommandHelp(t *testing.T) {
	t.Setenv("UVVE_ROOT", t.TempDir())

	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"--help"})
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("expected --help to succeed, got error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help output to contain 'Usage:', got: %s", out)
	}
	for _, name := range []string{"create", "cleanup", "lock", "thaw"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected help output to mention %q", name)
		}
	}
}

func TestBareInvocationSucceeds(t *testing.T) {
	// Bare 'uvve' prints an overview and exits 0.
	t.Setenv("UVVE_ROOT", t.TempDir())

	RootCmd.SetOut(bytes.NewBuffer(nil))
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{})
	if err := Execute(); err != nil {
		t.Errorf("expected bare invocation to succeed, got error: %v", err)
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	t.Setenv("UVVE_ROOT", t.TempDir())

	RootCmd.SetOut(bytes.NewBuffer(nil))
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"blorp"})
	err := Execute()

	if err == nil {
		t.Fatal("expected Execute() to return an error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected error to contain 'unknown command', got: %v", err)
	}
}
