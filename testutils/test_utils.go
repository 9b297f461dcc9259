package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/KostasZigo/govcs/internal/constants"
)

// RandomString generates a random hex string of n bytes
func RandomString(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// RandomHash generates a random 40-character hex digest
func RandomHash() string {
	return RandomString(constants.HashByteLength)
}

// SetupTestRepoWithGovcsDir creates a temporary directory with .govcs/objects structure.
// This is useful for tests that need the repository structure but not full initialization.
func SetupTestRepoWithGovcsDir(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	govcsDir := filepath.Join(repoPath, constants.Govcs, constants.Objects)

	if err := os.MkdirAll(govcsDir, constants.DirPerms); err != nil {
		t.Fatalf("Failed to create %s/%s: %v", constants.Govcs, constants.Objects, err)
	}

	// A minimal config so the repository handle opens.
	WriteTestConfig(t, filepath.Join(repoPath, constants.Govcs))

	return repoPath
}

// SetupTestRepoWithInit creates a fully initialized .govcs repository structure.
// This includes objects/, branches/, refs/heads/, refs/tags/, HEAD and config.
func SetupTestRepoWithInit(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	govcsDir := filepath.Join(repoPath, constants.Govcs)

	// Create directory structure
	dirs := []string{
		filepath.Join(govcsDir, constants.Objects),
		filepath.Join(govcsDir, constants.Branches),
		filepath.Join(govcsDir, constants.Refs, constants.Heads),
		filepath.Join(govcsDir, constants.Refs, constants.Tags),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// Create HEAD file
	headPath := filepath.Join(govcsDir, constants.Head)
	headContent := []byte(constants.DefaultRefPrefix + constants.DefaultBranch + "\n")
	if err := os.WriteFile(headPath, headContent, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create %s file: %v", constants.Head, err)
	}

	WriteTestConfig(t, govcsDir)

	return repoPath
}

// WriteTestConfig writes a minimal valid repository config into govcsDir.
func WriteTestConfig(t *testing.T, govcsDir string) {
	t.Helper()

	configContent := []byte("core:\n" +
		"  repositoryformatversion: 0\n" +
		"  filemode: false\n" +
		"  bare: false\n")
	configPath := filepath.Join(govcsDir, constants.ConfigFile)
	if err := os.WriteFile(configPath, configContent, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create %s file: %v", constants.ConfigFile, err)
	}
}

// CreateTestFile creates a file with given content in the specified directory.
// Returns the full path to the created file.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, content, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}

	return filePath
}

// AssertFileExists checks that a file exists at the given path.
// Fails the test if the file doesn't exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected file to exist at %s", path)
	}
}

// AssertFileNotExists checks that a file does NOT exist at the given path.
// Fails the test if the file exists.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to NOT exist at %s", path)
	}
}

// AssertDirExists checks that a directory exists at the given path.
// Fails the test if the directory doesn't exist.
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected directory to exist at %s", path)
		return
	}
	if err != nil {
		t.Errorf("Failed to stat directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, but it's a file", path)
	}
}

// AssertFileContent checks that the file at path holds exactly content.
func AssertFileContent(t *testing.T, path string, content []byte) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read file %s: %v", path, err)
		return
	}
	if string(data) != string(content) {
		t.Errorf("File %s content = %q, want %q", path, data, content)
	}
}

// AssertRepositoryStructure validates complete .govcs directory structure.
// Verifies objects/, branches/, refs/heads/, refs/tags/ exist and HEAD
// contains the default branch reference.
func AssertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()

	govcsDir := filepath.Join(repoPath, constants.Govcs)
	AssertDirExists(t, govcsDir)

	expectedDirs := []string{
		constants.Objects,
		constants.Branches,
		constants.Refs,
		filepath.Join(constants.Refs, constants.Heads),
		filepath.Join(constants.Refs, constants.Tags),
	}
	for _, dir := range expectedDirs {
		AssertDirExists(t, filepath.Join(govcsDir, dir))
	}

	headPath := filepath.Join(govcsDir, constants.Head)
	AssertFileExists(t, headPath)

	content, err := os.ReadFile(headPath)
	if err != nil {
		t.Fatalf("Failed to read %s file: %v", constants.Head, err)
	}

	expectedContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"
	if string(content) != expectedContent {
		t.Errorf("%s content = %q, want %q", constants.Head, content, expectedContent)
	}

	AssertFileExists(t, filepath.Join(govcsDir, constants.Description))
	AssertFileExists(t, filepath.Join(govcsDir, constants.ConfigFile))
}
