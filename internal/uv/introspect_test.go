package uv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePipList(t *testing.T) {
	output := []byte(`[{"name": "flask", "version": "3.0.2"}, {"name": "requests", "version": "2.31.0"}]`)

	packages, err := parsePipList(output)
	if err != nil {
		t.Fatalf("parsePipList failed: %v", err)
	}
	if len(packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(packages))
	}
	if packages[0].Name != "flask" || packages[0].Version != "3.0.2" {
		t.Errorf("packages[0] = %+v, want flask 3.0.2", packages[0])
	}
	if packages[1].Name != "requests" || packages[1].Version != "2.31.0" {
		t.Errorf("packages[1] = %+v, want requests 2.31.0", packages[1])
	}
}

func TestParsePipList_Empty(t *testing.T) {
	packages, err := parsePipList([]byte(`[]`))
	if err != nil {
		t.Fatalf("parsePipList failed: %v", err)
	}
	if len(packages) != 0 {
		t.Errorf("got %d packages, want 0", len(packages))
	}
}

func TestParsePipList_Garbage_Fails(t *testing.T) {
	if _, err := parsePipList([]byte(`Resolved 12 packages`)); err == nil {
		t.Fatal("parsePipList accepted non-JSON output")
	}
}

func TestParseVersion(t *testing.T) {
	cases := []struct {
		output string
		want   string
	}{
		{"uv 0.5.9\n", "0.5.9"},
		{"uv 0.4.18 (7b55e9790 2024-10-01)\n", "0.4.18"},
	}
	for _, tc := range cases {
		got, err := parseVersion(tc.output)
		if err != nil {
			t.Errorf("parseVersion(%q) failed: %v", tc.output, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseVersion(%q) = %q, want %q", tc.output, got, tc.want)
		}
	}
}

func TestParseVersion_Unexpected_Fails(t *testing.T) {
	for _, output := range []string{"", "pip 24.0", "uv"} {
		if _, err := parseVersion(output); err == nil {
			t.Errorf("parseVersion(%q) succeeded, want error", output)
		}
	}
}

func TestExists_ChecksPyvenvCfg(t *testing.T) {
	root := t.TempDir()
	p := NewProvisioner(root)

	// Bare directory is not a venv.
	if err := os.MkdirAll(p.Dir("shell"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if p.Exists("shell") {
		t.Error("Exists = true for directory without pyvenv.cfg")
	}

	if err := os.WriteFile(filepath.Join(p.Dir("shell"), "pyvenv.cfg"), []byte("home = /usr\n"), 0644); err != nil {
		t.Fatalf("write pyvenv.cfg: %v", err)
	}
	if !p.Exists("shell") {
		t.Error("Exists = false for directory with pyvenv.cfg")
	}
}

func TestSizeBytes_SumsFiles(t *testing.T) {
	root := t.TempDir()
	p := NewProvisioner(root)

	dir := p.Dir("api")
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pyvenv.cfg"), make([]byte, 100), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib", "module.py"), make([]byte, 400), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	size, err := p.SizeBytes("api")
	if err != nil {
		t.Fatalf("SizeBytes failed: %v", err)
	}
	if size != 500 {
		t.Errorf("SizeBytes = %d, want 500", size)
	}
}

func TestRemove_MissingEnvironment_IsNoError(t *testing.T) {
	p := NewProvisioner(t.TempDir())
	if err := p.Remove("ghost"); err != nil {
		t.Errorf("Remove of missing environment failed: %v", err)
	}
}
