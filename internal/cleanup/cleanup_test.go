package cleanup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	"github.com/PolarWolf314/stowaway/internal/container/containertest"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

func testConfig() configs.Config {
	cfg := configs.Default()
	cfg.EnvironmentID = "box"
	cfg.StagingDir = "/data/files"
	cfg.ManifestPath = "/data/outputs.txt"
	return cfg
}

func newCoordinator(t *testing.T, cfg configs.Config) (*Coordinator, *containertest.Runtime) {
	t.Helper()
	rt := containertest.New("box", cfg.StagingDir)
	ctrl := container.NewController(rt, "box")
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return NewCoordinator(ctrl, cfg), rt
}

func TestClearEnvironment(t *testing.T) {
	cfg := testConfig()
	c, rt := newCoordinator(t, cfg)
	rt.WriteFile("/data/files/secret.txt", []byte("plain"))
	rt.WriteFile("/data/files/secret.enc", []byte("cipher"))
	rt.WriteFile("/data/files/sub/leftover", []byte("x"))
	rt.AppendLine(cfg.ManifestPath, "/data/files/secret.enc")

	if err := c.ClearEnvironment(context.Background()); err != nil {
		t.Fatalf("ClearEnvironment failed: %v", err)
	}

	if left := rt.List("/data/files"); len(left) != 0 {
		t.Errorf("Expected empty staging dir, got %v", left)
	}
	if !rt.DirExists("/data/files") {
		t.Error("Expected staging dir to be recreated")
	}
	if data, _ := rt.ReadFile(cfg.ManifestPath); len(data) != 0 {
		t.Errorf("Expected manifest to be truncated, got %q", data)
	}
}

func TestClearEnvironment_Idempotent(t *testing.T) {
	c, rt := newCoordinator(t, testConfig())
	rt.WriteFile("/data/files/secret.txt", []byte("plain"))

	for i := 1; i <= 2; i++ {
		if err := c.ClearEnvironment(context.Background()); err != nil {
			t.Fatalf("ClearEnvironment run %d failed: %v", i, err)
		}
		if left := rt.List("/data/files"); len(left) != 0 {
			t.Errorf("Run %d: expected empty staging dir, got %v", i, left)
		}
	}
}

func TestClearEnvironment_Failures(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func() configs.Config
		setup func(rt *containertest.Runtime)
	}{
		{
			name:  "ClearCommandFails",
			cfg:   func() configs.Config { c := testConfig(); c.ClearCommand = []string{"python3", "/clear.py"}; return c },
			setup: func(rt *containertest.Runtime) { rt.Programs["python3"] = containertest.Exit(1, "Traceback") },
		},
		{
			name: "ClearCommandLeavesFiles",
			cfg:  func() configs.Config { c := testConfig(); c.ClearCommand = []string{"true"}; return c },
			setup: func(rt *containertest.Runtime) {
				rt.Programs["true"] = containertest.Exit(0, "")
				rt.WriteFile("/data/files/stale.enc", []byte("x"))
			},
		},
		{
			name: "StagingDirMissingAfterClear",
			cfg:  func() configs.Config { c := testConfig(); c.ClearCommand = []string{"rmdir"}; return c },
			setup: func(rt *containertest.Runtime) {
				rt.Programs["rmdir"] = func(rt *containertest.Runtime, args []string) (int, string) {
					rt.RemoveAll("/data/files")
					return 0, ""
				}
			},
		},
		{
			name:  "EnvironmentUnreachable",
			cfg:   testConfig,
			setup: func(rt *containertest.Runtime) { rt.ExecErr = errors.New("daemon gone") },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rt := newCoordinator(t, tc.cfg())
			tc.setup(rt)

			if err := c.ClearEnvironment(context.Background()); !errors.Is(err, kerrors.ErrCleanupFailed) {
				t.Errorf("Expected ErrCleanupFailed, got %v", err)
			}
		})
	}
}

func TestClearCommand_Custom(t *testing.T) {
	cfg := testConfig()
	cfg.ClearCommand = []string{"/bin/python3", "/home/pman/extern/clear_files.py"}
	c, _ := newCoordinator(t, cfg)

	got := c.ClearCommand()
	if len(got) != 2 || got[0] != "/bin/python3" {
		t.Errorf("Expected configured clear command, got %v", got)
	}
}

func TestRollback(t *testing.T) {
	c, _ := newCoordinator(t, testConfig())
	dir := t.TempDir()

	kept := filepath.Join(dir, "kept.txt")
	partial := filepath.Join(dir, "secret.enc")
	manifestCopy := filepath.Join(dir, "outputs.txt")
	for _, p := range []string{kept, partial, manifestCopy} {
		if err := os.WriteFile(p, []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}

	c.Track(manifestCopy)
	c.Track(partial)
	c.Track(filepath.Join(dir, "never-created"))

	if err := c.Release(manifestCopy); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if len(c.Tracked()) != 2 {
		t.Errorf("Expected 2 tracked files after release, got %v", c.Tracked())
	}

	if err := c.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	for _, p := range []string{partial, manifestCopy} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed", p)
		}
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("Untracked file must survive rollback: %v", err)
	}
}

func TestCommitKeepsFiles(t *testing.T) {
	c, _ := newCoordinator(t, testConfig())
	result := filepath.Join(t.TempDir(), "secret.enc")
	if err := os.WriteFile(result, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write result: %v", err)
	}

	c.Track(result)
	c.Commit()
	if err := c.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if _, err := os.Stat(result); err != nil {
		t.Errorf("Committed file must survive rollback: %v", err)
	}
}

func TestRemoveSource(t *testing.T) {
	c, _ := newCoordinator(t, testConfig())
	input := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(input, []byte("plain"), 0600); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	if err := c.RemoveSource(input); err != nil {
		t.Fatalf("RemoveSource failed: %v", err)
	}
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Error("Expected input to be deleted")
	}

	if err := c.RemoveSource(input); !errors.Is(err, kerrors.ErrCleanupFailed) {
		t.Errorf("Expected ErrCleanupFailed for a missing input, got %v", err)
	}
}
