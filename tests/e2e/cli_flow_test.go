package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestCLI_AddStatusRemove(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "drip-e2e-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	dripBin := buildDripBinary(t, tempDir)
	dataDir := fmt.Sprintf("%s/data", tempDir)

	// Log two entries and verify the running total comes back from the store.
	out := runCmd(t, tempDir, dripBin, "add", "100", "--path", dataDir)
	if !strings.Contains(out, "Today: 100.0 ml") {
		t.Errorf("Expected total 100.0 ml after first add, got:\n%s", out)
	}

	out = runCmd(t, tempDir, dripBin, "add", "250", "--path", dataDir)
	if !strings.Contains(out, "Today: 350.0 ml") {
		t.Errorf("Expected total 350.0 ml after second add, got:\n%s", out)
	}

	// Machine readable status
	out = runCmd(t, tempDir, dripBin, "status", "--json", "--path", dataDir)
	var status struct {
		Unit  string  `json:"unit"`
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("Failed to decode status JSON: %v\n%s", err, out)
	}
	if status.Total != 350 {
		t.Errorf("Expected status total 350, got %v", status.Total)
	}
	if status.Unit != "ml" {
		t.Errorf("Expected status unit ml, got %q", status.Unit)
	}

	// Undo removes only the last entry
	out = runCmd(t, tempDir, dripBin, "remove", "--path", dataDir)
	if !strings.Contains(out, "Today: 100.0 ml") {
		t.Errorf("Expected total 100.0 ml after remove, got:\n%s", out)
	}

	// A second undo removes the remaining entry
	out = runCmd(t, tempDir, dripBin, "undo", "--path", dataDir)
	if !strings.Contains(out, "Today: 0.0 ml") {
		t.Errorf("Expected total 0.0 ml after second remove, got:\n%s", out)
	}

	// Nothing left to undo
	out = runCmd(t, tempDir, dripBin, "undo", "--path", dataDir)
	if !strings.Contains(out, "Nothing to remove") {
		t.Errorf("Expected a no-op message, got:\n%s", out)
	}
}

func TestCLI_DefaultIncrement(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "drip-e2e-inc-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	dripBin := buildDripBinary(t, tempDir)
	dataDir := fmt.Sprintf("%s/data", tempDir)

	// A bare add falls back to the default increment (500 ml).
	out := runCmd(t, tempDir, dripBin, "add", "--path", dataDir)
	if !strings.Contains(out, "Today: 500.0 ml") {
		t.Errorf("Expected default increment 500.0 ml, got:\n%s", out)
	}

	// Shrink the increment, bare adds must follow it.
	runCmd(t, tempDir, dripBin, "settings", "--increment", "200", "--path", dataDir)
	out = runCmd(t, tempDir, dripBin, "add", "--path", dataDir)
	if !strings.Contains(out, "Today: 700.0 ml") {
		t.Errorf("Expected total 700.0 ml after custom increment add, got:\n%s", out)
	}
}

func TestCLI_Version(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "drip-e2e-version-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	dripBin := buildDripBinary(t, tempDir)

	out := runCmd(t, tempDir, dripBin, "version")
	if !strings.HasPrefix(out, "drip version ") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

// runCmd executes the binary and returns stdout only. Logs go to stderr and
// would otherwise corrupt the JSON assertions.
func runCmd(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	fmt.Printf("[%s] Executing: %s %v\n", dir, name, args)
	if err := cmd.Run(); err != nil {
		t.Fatalf("Command %s %v failed in %s: %v\n%s", name, args, dir, err, stderr.String())
	}
	return stdout.String()
}
