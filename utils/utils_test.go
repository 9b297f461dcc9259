package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFrame(t *testing.T) {
	frame := Frame(BlobObjectType, []byte("abc"))
	if string(frame) != "blob 3\x00abc" {
		t.Errorf("Expected frame %q, got %q", "blob 3\x00abc", frame)
	}

	empty := Frame(TreeObjectType, nil)
	if string(empty) != "tree 0\x00" {
		t.Errorf("Expected frame %q, got %q", "tree 0\x00", empty)
	}
}

// TestComputeHash_KnownDigest pins the digest format: hashing the frame
// "blob 6\x00hello\n" yields git's blob hash for the same payload.
func TestComputeHash_KnownDigest(t *testing.T) {
	hash, err := ComputeHash([]byte("hello\n"), BlobObjectType)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	expected := "ce013625030ba8dba906f756967f9e9ca394464a"
	if hash != expected {
		t.Errorf("Expected hash %s, got %s", expected, hash)
	}
}

func TestComputeHash_TypeChangesDigest(t *testing.T) {
	payload := []byte("same payload")

	blobHash, err := ComputeHash(payload, BlobObjectType)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	commitHash, err := ComputeHash(payload, CommitObjectType)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if blobHash == commitHash {
		t.Error("Expected different digests for different frame kinds")
	}
}

func TestComputeHash_InvalidType(t *testing.T) {
	if _, err := ComputeHash([]byte("x"), ObjectType("blub")); err == nil {
		t.Error("Expected error for invalid object type")
	}
}

func TestParseObjectType(t *testing.T) {
	for _, valid := range []string{"blob", "tree", "commit", "tag"} {
		ot, err := ParseObjectType(valid)
		if err != nil {
			t.Errorf("ParseObjectType(%q) failed: %v", valid, err)
		}
		if string(ot) != valid {
			t.Errorf("Expected %q, got %q", valid, ot)
		}
	}

	for _, invalid := range []string{"", "Blob", "blobs", "blub"} {
		if _, err := ParseObjectType(invalid); err == nil {
			t.Errorf("Expected error for %q", invalid)
		}
	}
}

func TestNormalizeDigest(t *testing.T) {
	digest := "ce013625030ba8dba906f756967f9e9ca394464a"

	got, err := NormalizeDigest(digest)
	if err != nil {
		t.Fatalf("NormalizeDigest failed: %v", err)
	}
	if got != digest {
		t.Errorf("Expected %s, got %s", digest, got)
	}

	// Uppercase input is accepted and canonicalized to lowercase.
	got, err = NormalizeDigest(strings.ToUpper(digest))
	if err != nil {
		t.Fatalf("NormalizeDigest of uppercase failed: %v", err)
	}
	if got != digest {
		t.Errorf("Expected lowercase %s, got %s", digest, got)
	}
}

func TestNormalizeDigest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		digest string
	}{
		{"too short", "f572d3"},
		{"too long", "ce013625030ba8dba906f756967f9e9ca394464a00"},
		{"empty", ""},
		{"non hex", "zz72d396fae9206628714fb2ce00f72e94f2258b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NormalizeDigest(tc.digest); err == nil {
				t.Errorf("Expected error for digest %q", tc.digest)
			}
		})
	}
}

func TestBuildDirPath(t *testing.T) {
	separator := string(filepath.Separator)

	got := BuildDirPath(".", ".govcs")
	expected := "." + separator + ".govcs" + separator
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
