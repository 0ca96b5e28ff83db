package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	"github.com/PolarWolf314/stowaway/internal/container/containertest"
)

const testPassword = "hunter2"

// testEnv is an isolated working directory, user settings and environment.
type testEnv struct {
	WorkDir string
	Config  configs.Config
	Runtime *containertest.Runtime
}

// setupTestEnvironment points user settings at temporary directories,
// changes into a fresh working directory, writes a config file and routes
// every runtime through an in-memory environment.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()
	ResetGlobalState()
	t.Setenv("NO_COLOR", "1")

	userDir := t.TempDir()
	originalSettings := configs.UserSettings
	configs.UserSettings = &configs.Settings{
		ConfigDir: filepath.Join(userDir, "config"),
		DataDir:   filepath.Join(userDir, "data"),
	}

	originalRuntime := newRuntime
	t.Cleanup(func() {
		configs.UserSettings = originalSettings
		newRuntime = originalRuntime
		ResetGlobalState()
	})

	cfg := configs.Default()
	cfg.EnvironmentID = "pman-box"
	cfg.StagingDir = "/data/files"
	cfg.ManifestPath = "/data/outputs.txt"
	cfg.TransformCommand = "/usr/bin/pman"
	if err := configs.SaveFile(configs.ConfigPath(), cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	rt := containertest.New(cfg.EnvironmentID, cfg.StagingDir)
	rt.Programs[cfg.TransformCommand] = containertest.Transform(cfg.ManifestPath, cfg.EncryptedExt)
	newRuntime = func(configs.Config) container.Runtime { return rt }

	wd := t.TempDir()
	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWD) })

	return &testEnv{WorkDir: wd, Config: cfg, Runtime: rt}
}

// runCLI executes the root command with args and returns everything printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.ExecuteContext(context.Background())
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func saveTestConfig(env *testEnv) error {
	return configs.SaveFile(configs.ConfigPath(), env.Config)
}
