package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/stowaway/internal/configs"
)

func withDataDir(t *testing.T, dir string) {
	t.Helper()
	original := configs.UserSettings
	configs.UserSettings = &configs.Settings{ConfigDir: t.TempDir(), DataDir: dir}
	t.Cleanup(func() {
		configs.UserSettings = original
	})
}

func TestLog_CreatesFile(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "stowaway")
	withDataDir(t, dataDir)

	Log(Entry{JobID: "job-1", Operation: "dispatch", Input: "/tmp/secret.txt"})

	logPath := filepath.Join(dataDir, "audit.jsonl")
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Audit log file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	dataDir := t.TempDir()
	withDataDir(t, dataDir)

	Log(Entry{Operation: "dispatch", JobID: "a"})
	Log(Entry{Operation: "dispatch", JobID: "b"})
	Log(Entry{Operation: "clean", JobID: "c"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[2].Operation != "clean" {
		t.Errorf("Expected last operation clean, got %s", entries[2].Operation)
	}
}

func TestLog_TimestampAndOmittedFields(t *testing.T) {
	dataDir := t.TempDir()
	withDataDir(t, dataDir)

	Log(Entry{Operation: "clean", State: "CONTAINER_STOPPED"})

	data, err := os.ReadFile(filepath.Join(dataDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	line := strings.TrimSpace(string(data))

	var parsed Entry
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}
	if !strings.HasSuffix(parsed.Timestamp, "Z") || !strings.Contains(parsed.Timestamp, ".") {
		t.Errorf("Unexpected timestamp format %s", parsed.Timestamp)
	}

	for _, field := range []string{`"artifact"`, `"digest"`, `"error"`, `"source_deleted"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted: %s", field, line)
		}
	}
}

func TestLog_NoDataDir(t *testing.T) {
	withDataDir(t, "")

	if LogPath() != "" {
		t.Errorf("Expected empty path, got %s", LogPath())
	}
	Log(Entry{Operation: "dispatch"})
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		count int
	}{
		{"Empty", "", 0},
		{"Valid", `{"ts":"2025-01-15T10:30:00.123456Z","op":"dispatch","job_id":"a"}` + "\n" +
			`{"ts":"2025-01-15T10:35:00.456789Z","op":"clean"}` + "\n", 2},
		{"SkipsMalformed", `{"op":"dispatch"}` + "\nnot json\n" + `{"op":"clean"}`, 2},
		{"BlankLines", "\n\n" + `{"op":"dispatch"}` + "\n\n", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := ParseEntries([]byte(tc.data))
			if err != nil {
				t.Fatalf("ParseEntries failed: %v", err)
			}
			if len(entries) != tc.count {
				t.Errorf("Expected %d entries, got %d", tc.count, len(entries))
			}
		})
	}
}

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.enc")
	b := filepath.Join(dir, "b.enc")
	if err := os.WriteFile(a, []byte("same"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("same"), 0600); err != nil {
		t.Fatal(err)
	}

	da, err := FileDigest(a)
	if err != nil {
		t.Fatalf("FileDigest failed: %v", err)
	}
	db, _ := FileDigest(b)
	if da != db {
		t.Errorf("Expected equal digests for equal content")
	}
	if len(da) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(da))
	}

	if _, err := FileDigest(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}
