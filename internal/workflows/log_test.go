package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/PolarWolf314/stowaway/internal/audit"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

func seedAuditLog(t *testing.T) {
	t.Helper()
	isolateAudit(t)
	audit.Log(audit.Entry{Timestamp: "2025-03-01T09:00:00.000000Z", JobID: "a", Operation: "dispatch", Input: "/w/a.txt", Destination: "/w/a.enc", Kind: "encrypted", SourceDeleted: true, State: "CONTAINER_STOPPED"})
	audit.Log(audit.Entry{Timestamp: "2025-03-02T09:00:00.000000Z", JobID: "b", Operation: "dispatch", State: "INPUT_STAGED", Error: "execution failed: pman exited with status 1"})
	audit.Log(audit.Entry{Timestamp: "2025-03-03T09:00:00.000000Z", JobID: "c", Operation: "clean", Environment: "box", State: "CLEARED"})
	audit.Log(audit.Entry{Timestamp: "2025-03-04T09:00:00.000000Z", JobID: "d", Operation: "dispatch", Input: "/w/a.enc", Destination: "/w/a.txt", Kind: "other", State: "CONTAINER_STOPPED"})
}

func jobIDs(entries []audit.Entry) string {
	ids := ""
	for _, e := range entries {
		ids += e.JobID
	}
	return ids
}

func TestLog_Filters(t *testing.T) {
	tests := []struct {
		name string
		opts LogOptions
		want string
	}{
		{"All", LogOptions{}, "abcd"},
		{"Reverse", LogOptions{Reverse: true}, "dcba"},
		{"LimitKeepsMostRecent", LogOptions{Limit: 2}, "cd"},
		{"ReverseLimit", LogOptions{Reverse: true, Limit: 1}, "d"},
		{"Operation", LogOptions{Operations: "clean"}, "c"},
		{"Operations", LogOptions{Operations: "Clean, dispatch"}, "abcd"},
		{"Failed", LogOptions{Failed: true}, "b"},
		{"Since", LogOptions{Since: "2025-03-03"}, "cd"},
		{"Until", LogOptions{Until: "2025-03-02"}, "ab"},
		{"Range", LogOptions{Since: "2025-03-02", Until: "2025-03-03", Operations: "dispatch"}, "b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seedAuditLog(t)

			result, err := Log(context.Background(), tc.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if got := jobIDs(result.Entries); got != tc.want {
				t.Errorf("Expected entries %q, got %q", tc.want, got)
			}
			if result.TotalEntriesBeforeFilter != 4 {
				t.Errorf("Expected 4 entries before filtering, got %d", result.TotalEntriesBeforeFilter)
			}
		})
	}
}

func TestLog_InvalidDate(t *testing.T) {
	seedAuditLog(t)

	for _, opts := range []LogOptions{{Since: "03/01/2025"}, {Until: "yesterday"}} {
		if _, err := Log(context.Background(), opts); !errors.Is(err, kerrors.ErrInvalidDateFormat) {
			t.Errorf("Expected ErrInvalidDateFormat for %+v, got %v", opts, err)
		}
	}
}

func TestLog_MissingLog(t *testing.T) {
	isolateAudit(t)

	result, err := Log(context.Background(), LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(result.Entries))
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		entry audit.Entry
		want  string
	}{
		{audit.Entry{Operation: "dispatch", Input: "/w/a.txt", Destination: "/w/a.enc", Kind: "encrypted", SourceDeleted: true}, "/w/a.txt -> /w/a.enc (encrypted), input deleted"},
		{audit.Entry{Operation: "dispatch", State: "INPUT_STAGED", Error: "boom"}, "failed in INPUT_STAGED: boom"},
		{audit.Entry{Operation: "clean", Environment: "box"}, "environment box cleared"},
		{audit.Entry{Operation: "unknown"}, ""},
	}

	for _, tc := range tests {
		if got := FormatDetails(tc.entry); got != tc.want {
			t.Errorf("FormatDetails(%+v) = %q, want %q", tc.entry, got, tc.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime("2025-03-01T09:00:00.000000Z"); got != "2025-03-01 09:00:00" {
		t.Errorf("Unexpected format %q", got)
	}
	if got := FormatDateTime("garbage"); got != "garbage" {
		t.Errorf("Expected unparseable timestamp unchanged, got %q", got)
	}
}
