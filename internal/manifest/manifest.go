// Package manifest interprets the transfer log written by the
// transformation binary and decides how its result is named on the host.
//
// The manifest is plain text. Only its last non-empty line matters: it
// names the produced file, possibly with a directory prefix. The file's
// final extension tells whether the binary encrypted (marker extension) or
// decrypted (anything else) the input.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// Kind classifies a produced file.
type Kind int

const (
	// Other is any result without the encrypted marker, i.e. a decrypted file.
	Other Kind = iota
	// Encrypted is a result carrying the encrypted marker extension.
	Encrypted
)

func (k Kind) String() string {
	if k == Encrypted {
		return "encrypted"
	}
	return "other"
}

// Artifact is the file the transformation produced.
type Artifact struct {
	Name string
	Kind Kind
}

// Resolve extracts the artifact from the manifest text. encryptedExt is the
// marker extension without a dot.
func Resolve(text, encryptedExt string) (Artifact, error) {
	record := LastRecord(text)
	if record == "" {
		return Artifact{}, fmt.Errorf("%w: no file name recorded", kerrors.ErrMalformedManifest)
	}

	name := record
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = strings.TrimSpace(name[i+1:])
	}
	if name == "" || name == "." || name == ".." {
		return Artifact{}, fmt.Errorf("%w: record %q does not name a file", kerrors.ErrMalformedManifest, record)
	}

	return Artifact{Name: name, Kind: Classify(name, encryptedExt)}, nil
}

// LastRecord returns the last non-empty line of text, trimmed.
func LastRecord(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Classify reports Encrypted when the final dot-delimited segment of name
// equals encryptedExt exactly.
func Classify(name, encryptedExt string) Kind {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return Other
	}
	if name[i+1:] == encryptedExt {
		return Encrypted
	}
	return Other
}

// DestinationName returns the host file name for a. Encrypted results keep
// the input's base name with its final extension replaced by the marker;
// other results keep the name the binary produced.
func DestinationName(originalFileName string, a Artifact, encryptedExt string) string {
	if a.Kind != Encrypted {
		return a.Name
	}

	base := filepath.Base(originalFileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + "." + encryptedExt
}

// ShouldDeleteSource reports whether the input may be discarded: only a
// confirmed encryption, and only when policy allows it. An Other result
// means the input was the encrypted file, which is kept for replay.
func ShouldDeleteSource(a Artifact, deleteEncryptedSource bool) bool {
	return deleteEncryptedSource && a.Kind == Encrypted
}
