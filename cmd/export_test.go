package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/govcs/testutils"
)

// createTestRootCmd creates a fresh root command with one subcommand attached.
func createTestRootCmd(cmd *cobra.Command) *cobra.Command {
	testRootCmd := &cobra.Command{Use: "govcs"}
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// assertRepositoryStructure verifies .govcs directory structure and HEAD file.
func assertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()

	govcsDir := filepath.Join(repoPath, ".govcs")
	testutils.AssertDirExists(t, govcsDir)

	expectedDirs := []string{"objects", "branches", "refs", "refs/heads", "refs/tags"}
	for _, dir := range expectedDirs {
		testutils.AssertDirExists(t, filepath.Join(govcsDir, dir))
	}

	headPath := filepath.Join(govcsDir, "HEAD")
	testutils.AssertFileExists(t, headPath)

	content, err := os.ReadFile(headPath)
	if err != nil {
		t.Fatalf("Failed to read HEAD file: %v", err)
	}

	expectedContent := "ref: refs/heads/main\n"
	if string(content) != expectedContent {
		t.Errorf("HEAD content = %q, want %q", content, expectedContent)
	}
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}

// runCommand executes a subcommand on a fresh root with the given args,
// returning captured stdout, stderr, and the execution error.
func runCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	root := createTestRootCmd(cmd)
	stdout := captureStdout(root)
	stderr := captureStderr(root)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
