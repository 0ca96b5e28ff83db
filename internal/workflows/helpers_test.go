package workflows

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container/containertest"
)

const testPassword = "hunter2"

func testConfig() configs.Config {
	cfg := configs.Default()
	cfg.EnvironmentID = "pman-box"
	cfg.StagingDir = "/data/files"
	cfg.ManifestPath = "/data/outputs.txt"
	cfg.TransformCommand = "/usr/bin/pman"
	return cfg
}

func newRuntime(cfg configs.Config) *containertest.Runtime {
	rt := containertest.New(cfg.EnvironmentID, cfg.StagingDir)
	rt.Programs[cfg.TransformCommand] = containertest.Transform(cfg.ManifestPath, cfg.EncryptedExt)
	return rt
}

// isolateAudit points the audit log at a temporary data directory.
func isolateAudit(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	original := configs.UserSettings
	configs.UserSettings = &configs.Settings{ConfigDir: t.TempDir(), DataDir: dataDir}
	t.Cleanup(func() {
		configs.UserSettings = original
	})
	return filepath.Join(dataDir, "audit.jsonl")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be absent", path)
	}
}

func assertEnvironmentClean(t *testing.T, rt *containertest.Runtime, cfg configs.Config) {
	t.Helper()
	if left := rt.List(cfg.StagingDir); len(left) != 0 {
		t.Errorf("Expected empty staging dir, got %v", left)
	}
	if rt.Running {
		t.Error("Expected environment to be stopped")
	}
}
