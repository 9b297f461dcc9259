package objects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/utils"
)

// dirLayout is a minimal Layout over a bare temporary directory. It stands
// in for the repository handle so store-level tests need no .govcs
// bootstrap.
type dirLayout struct {
	root string
}

func (l dirLayout) ObjectPath(digest string, mkdir bool) (string, error) {
	fanoutDir := filepath.Join(l.root, constants.Objects, digest[:constants.HashDirPrefixLength])
	if mkdir {
		if err := os.MkdirAll(fanoutDir, constants.DirPerms); err != nil {
			return "", err
		}
	}
	return filepath.Join(fanoutDir, digest[constants.HashDirPrefixLength:]), nil
}

func (l dirLayout) MetaPath(logical string) (string, error) {
	return filepath.Join(l.root, filepath.FromSlash(logical)), nil
}

// newTestStore creates an object store over a fresh temporary directory.
func newTestStore(t *testing.T) (*ObjectStore, dirLayout) {
	t.Helper()

	layout := dirLayout{root: t.TempDir()}
	if err := os.MkdirAll(filepath.Join(layout.root, constants.Objects), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create objects dir: %v", err)
	}

	return NewObjectStore(layout), layout
}

// writeRawObject compresses frame and places it at digest's path, bypassing
// the store's write path. Used to plant corrupt or mismatched objects.
func writeRawObject(t *testing.T, layout dirLayout, digest string, frame []byte) {
	t.Helper()

	compressed, err := compress(frame)
	if err != nil {
		t.Fatalf("Failed to compress frame: %v", err)
	}

	objectPath, err := layout.ObjectPath(digest, true)
	if err != nil {
		t.Fatalf("Failed to resolve object path: %v", err)
	}

	if err := os.WriteFile(objectPath, compressed, constants.FilePerms); err != nil {
		t.Fatalf("Failed to write object file: %v", err)
	}
}

// assertBlobHash verifies blob hash matches expected value for given content.
func assertBlobHash(t *testing.T, blob *Blob, content []byte) {
	t.Helper()

	expectedHash, err := utils.ComputeHash(content, utils.BlobObjectType)
	if err != nil {
		t.Fatalf("Hash computation failed: %v", err)
	}

	if blob.Hash() != expectedHash {
		t.Fatalf("Expected hash [%s], got [%s]", expectedHash, blob.Hash())
	}
}

// assertBlobContent verifies blob stores exact content and correct size.
func assertBlobContent(t *testing.T, blob *Blob, expectedContent []byte) {
	t.Helper()

	if blob.Size() != len(expectedContent) {
		t.Fatalf("Expected size %d, got %d", len(expectedContent), blob.Size())
	}

	if string(blob.Content()) != string(expectedContent) {
		t.Fatalf("Expected content [%q], got [%q]", expectedContent, blob.Content())
	}
}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, mode FileMode, name, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(mode, name, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	return *entry
}

// createTree creates tree from entries and fails test on error.
func createTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()

	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	return tree
}

// storeObject persists an object and fails the test on error.
func storeObject(t *testing.T, store *ObjectStore, obj Object) {
	t.Helper()

	if err := store.Store(obj); err != nil {
		t.Fatalf("Failed to store %s: %v", obj.Type(), err)
	}
}

// storeBlob creates and persists a blob, returning its digest.
func storeBlob(t *testing.T, store *ObjectStore, content []byte) string {
	t.Helper()

	blob := NewBlob(content)
	storeObject(t, store, blob)
	return blob.Hash()
}

// storeTree builds, persists and returns a tree from the given entries.
func storeTree(t *testing.T, store *ObjectStore, entries []TreeEntry) *Tree {
	t.Helper()

	tree := createTree(t, entries)
	storeObject(t, store, tree)
	return tree
}

// parseCommitPayload parses a commit payload and fails the test on error.
func parseCommitPayload(t *testing.T, payload string) *Commit {
	t.Helper()

	commit, err := ParseCommit([]byte(payload))
	if err != nil {
		t.Fatalf("Failed to parse commit payload %q: %v", payload, err)
	}

	return commit
}

// assertTreeEntryEqual verifies two tree entries match.
func assertTreeEntryEqual(t *testing.T, actual, expected TreeEntry) {
	t.Helper()

	if actual.Name() != expected.Name() {
		t.Errorf("Entry name mismatch: expected %s, got %s", expected.Name(), actual.Name())
	}
	if actual.Hash() != expected.Hash() {
		t.Errorf("Entry hash mismatch: expected %s, got %s", expected.Hash(), actual.Hash())
	}
	if actual.Mode() != expected.Mode() {
		t.Errorf("Entry mode mismatch: expected %s, got %s", expected.Mode(), actual.Mode())
	}
}
