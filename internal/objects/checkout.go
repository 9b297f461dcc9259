package objects

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KostasZigo/govcs/internal/constants"
)

// Checkout errors, matched with errors.Is. Store errors propagate unchanged.
var (
	// ErrTargetNotDirectory reports a checkout target that exists but is
	// not a directory.
	ErrTargetNotDirectory = errors.New("checkout target is not a directory")

	// ErrTargetNotEmpty reports a checkout target directory that already
	// has entries. Checked before any filesystem mutation.
	ErrTargetNotEmpty = errors.New("checkout target directory is not empty")

	// ErrNoTreeField reports a commit without a tree header field.
	ErrNoTreeField = errors.New("commit has no tree field")

	// ErrNotATree reports an object that cannot serve as a checkout root.
	ErrNotATree = errors.New("object is not a tree")

	// ErrDepthExceeded reports tree nesting beyond the recursion limit.
	ErrDepthExceeded = errors.New("tree nesting exceeds depth limit")
)

// Checkout materializes the tree identified by name (a digest, ref name, or
// commit whose tree field is followed) into targetDir. The target must be an
// empty directory or not exist yet.
//
// A failure partway through aborts immediately and leaves already-written
// files and directories in place; callers wanting atomicity should stage
// into a temporary directory and rename on success.
func Checkout(store *ObjectStore, name string, targetDir string) error {
	digest, err := store.Resolve(name)
	if err != nil {
		return err
	}

	obj, err := store.Read(digest)
	if err != nil {
		return err
	}

	tree, err := rootTree(store, obj)
	if err != nil {
		return err
	}

	// Validate the target before creating anything.
	if err := prepareTargetDir(targetDir); err != nil {
		return err
	}

	return checkoutTree(store, tree, targetDir, constants.MaxTreeDepth)
}

// rootTree maps a checkout root object to the tree to materialize:
// a tree is used directly, a commit is followed through its tree field,
// anything else cannot be checked out.
func rootTree(store *ObjectStore, obj Object) (*Tree, error) {
	switch root := obj.(type) {
	case *Tree:
		return root, nil
	case *Commit:
		treeHash, ok := root.TreeHash()
		if !ok {
			return nil, fmt.Errorf("%w: commit %s", ErrNoTreeField, root.Hash())
		}

		child, err := store.Read(treeHash)
		if err != nil {
			return nil, fmt.Errorf("failed to read tree of commit %s: %w", root.Hash(), err)
		}

		tree, ok := child.(*Tree)
		if !ok {
			return nil, fmt.Errorf("%w: commit %s tree field points at a %s",
				ErrNotATree, root.Hash(), child.Type())
		}
		return tree, nil
	case *Blob, *Tag:
		return nil, fmt.Errorf("%w: cannot check out a %s", ErrNotATree, obj.Type())
	default:
		return nil, fmt.Errorf("%w: cannot check out a %s", ErrNotATree, obj.Type())
	}
}

// prepareTargetDir ensures target is an empty directory, creating it when it
// does not exist.
func prepareTargetDir(target string) error {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(target, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create checkout target %s: %w", target, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check checkout target %s: %w", target, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrTargetNotDirectory, target)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return fmt.Errorf("failed to read checkout target %s: %w", target, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrTargetNotEmpty, target)
	}

	return nil
}

// checkoutTree expands one tree level into dir and recurses into sub-trees.
// Leaves are processed in stored order; the first failure aborts the whole
// checkout without rollback.
func checkoutTree(store *ObjectStore, tree *Tree, dir string, depth int) error {
	if depth <= 0 {
		return fmt.Errorf("%w: %d levels", ErrDepthExceeded, constants.MaxTreeDepth)
	}

	for _, entry := range tree.Entries() {
		child, err := store.Read(entry.Hash())
		if err != nil {
			return fmt.Errorf("failed to read tree leaf %s: %w", entry.Name(), err)
		}

		dest := filepath.Join(dir, entry.Name())

		switch child := child.(type) {
		case *Tree:
			if err := os.Mkdir(dest, constants.DirPerms); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dest, err)
			}
			if err := checkoutTree(store, child, dest, depth-1); err != nil {
				return err
			}
		case *Blob:
			if err := writeBlobFile(dest, child); err != nil {
				return err
			}
		default:
			// Commit and tag leaves (submodule-style references) are not
			// materialized in this core.
			slog.Debug("Skipping unsupported tree leaf",
				"kind", child.Type(),
				"path", dest)
		}
	}

	return nil
}

// writeBlobFile creates dest with the blob's raw content. Strict create-new
// semantics: an existing file is an error, never silently overwritten.
func writeBlobFile(dest string, blob *Blob) error {
	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.FilePerms)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", dest, err)
	}

	if _, err := file.Write(blob.Content()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file %s: %w", dest, err)
	}

	return file.Close()
}
