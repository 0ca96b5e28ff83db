package manifest

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantKind Kind
	}{
		{"PathQualifiedEncrypted", "a/b/c.enc\n", "c.enc", Encrypted},
		{"PlainOther", "report.txt", "report.txt", Other},
		{"LastLineWins", "/data/files/old.enc\n/data/files/secret.txt\n", "secret.txt", Other},
		{"TrailingBlankLines", "/data/files/secret.enc\n\n  \n", "secret.enc", Encrypted},
		{"CRLF", "first.txt\r\n/data/files/second.enc\r\n", "second.enc", Encrypted},
		{"CaseSensitiveMarker", "backup.ENC", "backup.ENC", Other},
		{"MarkerMustBeFinalSegment", "archive.enc.gz", "archive.enc.gz", Other},
		{"NoExtension", "/data/files/README", "README", Other},
		{"SurroundingWhitespace", "   /data/files/x.enc   ", "x.enc", Encrypted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.text, "enc")
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got.Name != tc.wantName {
				t.Errorf("Expected name %q, got %q", tc.wantName, got.Name)
			}
			if got.Kind != tc.wantKind {
				t.Errorf("Expected kind %v, got %v", tc.wantKind, got.Kind)
			}
		})
	}
}

func TestResolve_Malformed(t *testing.T) {
	tests := map[string]string{
		"Empty":           "",
		"WhitespaceOnly":  " \n\t\n  ",
		"DirectoryRecord": "/data/files/",
		"DotRecord":       "/data/files/..",
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(text, "enc")
			if !errors.Is(err, kerrors.ErrMalformedManifest) {
				t.Errorf("Expected ErrMalformedManifest, got %v", err)
			}
		})
	}
}

func TestDestinationName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		artifact Artifact
		want     string
	}{
		{"EncryptedKeepsBaseName", "secret.txt", Artifact{"secret.enc", Encrypted}, "secret.enc"},
		{"EncryptedIgnoresProducedName", "notes.md", Artifact{"tmp123.enc", Encrypted}, "notes.enc"},
		{"EncryptedFromNestedPath", "docs/plan.txt", Artifact{"plan.enc", Encrypted}, "plan.enc"},
		{"EncryptedOnlyFinalExtension", "archive.tar.gz", Artifact{"archive.tar.enc", Encrypted}, "archive.tar.enc"},
		{"EncryptedNoExtension", "README", Artifact{"README.enc", Encrypted}, "README.enc"},
		{"EncryptedDotFile", ".env", Artifact{".env.enc", Encrypted}, ".env.enc"},
		{"OtherKeepsProducedName", "secret.enc", Artifact{"secret.txt", Other}, "secret.txt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DestinationName(tc.original, tc.artifact, "enc"); got != tc.want {
				t.Errorf("DestinationName(%q) = %q, want %q", tc.original, got, tc.want)
			}
		})
	}
}

func TestShouldDeleteSource(t *testing.T) {
	if !ShouldDeleteSource(Artifact{Kind: Encrypted}, true) {
		t.Error("Expected encrypted result to allow deletion")
	}
	if ShouldDeleteSource(Artifact{Kind: Encrypted}, false) {
		t.Error("Expected policy to prevent deletion")
	}
	if ShouldDeleteSource(Artifact{Kind: Other}, true) {
		t.Error("Expected decrypted result to keep the encrypted input")
	}
}

func TestKindString(t *testing.T) {
	if Encrypted.String() != "encrypted" || Other.String() != "other" {
		t.Errorf("Unexpected kind names: %s, %s", Encrypted, Other)
	}
}
