package e2e

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// buildDripBinary builds the drip binary in the specified directory and
// returns its path. It handles the build command execution and error checking.
func buildDripBinary(t *testing.T, dir string) string {
	t.Helper()
	dripBin := filepath.Join(dir, "drip.exe")
	buildCmd := exec.Command("go", "build", "-o", dripBin, "../../cmd/drip")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build drip: %v\n%s", err, string(out))
	}
	return dripBin
}
