package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/govcs/internal/constants"
)

// ObjectType identifies the kind of a stored object. The set is closed:
// every switch over an ObjectType must handle all four variants.
type ObjectType string

const (
	BlobObjectType   ObjectType = "blob"
	TreeObjectType   ObjectType = "tree"
	CommitObjectType ObjectType = "commit"
	TagObjectType    ObjectType = "tag"
)

func (ot ObjectType) IsValid() bool {
	switch ot {
	case BlobObjectType, TreeObjectType, CommitObjectType, TagObjectType:
		return true
	default:
		return false
	}
}

// ParseObjectType converts the ASCII tag used in frame headers back into an
// ObjectType. Fails for anything outside the four recognized kinds.
func ParseObjectType(s string) (ObjectType, error) {
	ot := ObjectType(s)
	if !ot.IsValid() {
		return "", fmt.Errorf("invalid object type: %q", s)
	}
	return ot, nil
}

// Frame encodes the on-disk framing for an object payload:
// "<type> <size>\x00<payload>". The frame is what gets hashed and what gets
// compressed for storage.
func Frame(objectType ObjectType, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objectType, len(payload))
	frame := make([]byte, 0, len(header)+len(payload))
	frame = append(frame, header...)
	return append(frame, payload...)
}

// ComputeHash calculates the SHA-1 digest of the framed payload and renders
// it as 40 lowercase hex characters. Lowercase is the canonical digest form
// everywhere in govcs; uppercase input is normalized, never emitted.
func ComputeHash(payload []byte, objectType ObjectType) (string, error) {
	if !objectType.IsValid() {
		return "", fmt.Errorf("invalid object type: %s - hash not computed", objectType)
	}

	hash := sha1.Sum(Frame(objectType, payload))
	return fmt.Sprintf("%x", hash), nil
}

// NormalizeDigest validates that s is a full 40-character hex digest and
// returns it in canonical lowercase form.
func NormalizeDigest(s string) (string, error) {
	if len(s) != constants.HashStringLength {
		return "", fmt.Errorf("digest %q has length %d, want %d", s, len(s), constants.HashStringLength)
	}
	lower := strings.ToLower(s)
	if _, err := hex.DecodeString(lower); err != nil {
		return "", fmt.Errorf("digest %q is not hexadecimal", s)
	}
	return lower, nil
}

// BuildDirPath constructs os-agnostic display directory path with trailing separator preserving all components.
// Unlike filepath.Join, does not normalize "." or remove redundant separators.
func BuildDirPath(dirs ...string) string {
	return strings.Join(dirs, string(filepath.Separator)) + string(filepath.Separator)
}
