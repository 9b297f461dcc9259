package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/KostasZigo/govcs/internal/constants"
)

var (
	// ErrNotARepository reports a path with no .govcs directory in it or
	// any of its parents.
	ErrNotARepository = errors.New("not a govcs repository")

	// ErrObjectsRootMissing reports a repository whose objects/ directory
	// is absent. Distinct from a missing individual object file, which the
	// object store detects itself.
	ErrObjectsRootMissing = errors.New("objects directory missing")
)

// Repository is the handle to an initialized .govcs directory. It resolves
// logical paths for the object store and carries the repository config.
type Repository struct {
	worktree string // Path to the working directory root
	govcsDir string // Path to the .govcs metadata directory
}

func (r *Repository) Worktree() string {
	return r.worktree
}

func (r *Repository) Dir() string {
	return r.govcsDir
}

// InitRepository creates the .govcs metadata structure under path.
func InitRepository(path string) error {
	// Resolves and adds OS specific separator
	govcsDir := filepath.Join(path, constants.Govcs)

	if err := checkRepositoryDoesNotExist(govcsDir); err != nil {
		return err
	}

	// Track if initialization of govcs directories and files was successful
	// Default value: false
	var initSuccess bool

	// Defer a func to clean up any directories/files in the case that
	// repository initialization failed (not all directories/files were created successfully).
	// If all resources got created successfully initSuccess is true, and the clean-up
	//  is not executed
	defer func() {
		if !initSuccess {
			cleanupRepository(govcsDir)
		}
	}()

	directories := []string{
		govcsDir,
		filepath.Join(govcsDir, constants.Objects),
		filepath.Join(govcsDir, constants.Branches),
		filepath.Join(govcsDir, constants.Refs),
		filepath.Join(govcsDir, constants.Refs, constants.Heads),
		filepath.Join(govcsDir, constants.Refs, constants.Tags),
	}

	// Create all govcs directories
	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", directory, err)
		}
	}

	// Create HEAD file pointing to main branch
	headFile := filepath.Join(govcsDir, constants.Head)
	headContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"

	if err := os.WriteFile(headFile, []byte(headContent), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create HEAD file: %w", err)
	}

	descriptionFile := filepath.Join(govcsDir, constants.Description)
	if err := os.WriteFile(descriptionFile, []byte(constants.DefaultDescription), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create description file: %w", err)
	}

	if err := writeDefaultConfig(govcsDir); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	initSuccess = true
	return nil
}

// writeDefaultConfig persists the initial repository configuration.
func writeDefaultConfig(govcsDir string) error {
	cfg := viper.New()
	cfg.Set(constants.ConfigKeyFormatVersion, constants.RepositoryFormatVersion)
	cfg.Set(constants.ConfigKeyFileMode, false)
	cfg.Set(constants.ConfigKeyBare, false)

	return cfg.WriteConfigAs(filepath.Join(govcsDir, constants.ConfigFile))
}

// OpenRepository opens an existing repository rooted at path, validating its
// configuration.
func OpenRepository(worktree string) (*Repository, error) {
	govcsDir := filepath.Join(worktree, constants.Govcs)

	info, err := os.Stat(govcsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, worktree)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check repository path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotARepository, govcsDir)
	}

	cfg := viper.New()
	cfg.SetConfigFile(filepath.Join(govcsDir, constants.ConfigFile))
	if err := cfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	if version := cfg.GetInt(constants.ConfigKeyFormatVersion); version != constants.RepositoryFormatVersion {
		return nil, fmt.Errorf("unsupported repository format version: %d", version)
	}

	return &Repository{
		worktree: worktree,
		govcsDir: govcsDir,
	}, nil
}

// FindRepository locates the enclosing repository by walking up the
// directory tree from start.
func FindRepository(start string) (*Repository, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		govcsPath := filepath.Join(dir, constants.Govcs)
		if info, err := os.Stat(govcsPath); err == nil && info.IsDir() {
			return OpenRepository(dir)
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .govcs
			return nil, fmt.Errorf("%w: no %s directory found above %s",
				ErrNotARepository, constants.Govcs, start)
		}
		dir = parent
	}
}

// ObjectPath returns the absolute path of the object file for digest under
// objects/<first 2 hex chars>/<remaining chars>. With mkdir set the fanout
// directory is created on demand. Implements objects.Layout.
func (r *Repository) ObjectPath(digest string, mkdir bool) (string, error) {
	if len(digest) != constants.HashStringLength {
		return "", fmt.Errorf("invalid digest %q", digest)
	}

	objectsRoot := filepath.Join(r.govcsDir, constants.Objects)
	if _, err := os.Stat(objectsRoot); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrObjectsRootMissing, objectsRoot)
	} else if err != nil {
		return "", fmt.Errorf("failed to check objects directory: %w", err)
	}

	fanoutDir := filepath.Join(objectsRoot, digest[:constants.HashDirPrefixLength])
	if mkdir {
		if err := os.MkdirAll(fanoutDir, constants.DirPerms); err != nil {
			return "", fmt.Errorf("failed to create object directory: %w", err)
		}
	}

	return filepath.Join(fanoutDir, digest[constants.HashDirPrefixLength:]), nil
}

// MetaPath resolves a slash-separated logical metadata path ("HEAD",
// "refs/heads/main") to an absolute path inside the .govcs directory.
// Implements objects.Layout.
func (r *Repository) MetaPath(logical string) (string, error) {
	cleaned := path.Clean(logical)
	if cleaned == "." || path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid repository path %q", logical)
	}

	return filepath.Join(r.govcsDir, filepath.FromSlash(cleaned)), nil
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fmt.Errorf("repository already exists at %s", path)
}

// Removes the entire .govcs directory if it exists
func cleanupRepository(govcsDir string) {
	if _, err := os.Stat(govcsDir); err == nil {
		slog.Debug("Cleaning up partial repository initialization",
			"path", govcsDir)

		if err := os.RemoveAll(govcsDir); err != nil {
			slog.Warn("Failed to cleanup repository directory",
				"path", govcsDir,
				"error", err)
		} else {
			slog.Debug("Successfully cleaned up repository directory",
				"path", govcsDir)
		}
	}
}
