package objects

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/utils"
)

type FileMode string

const (
	ModeRegularFile FileMode = "100644" // Regular non-executable file
	ModeExecutable  FileMode = "100755" // Executable file
	ModeSymlink     FileMode = "120000" // Symbolic link
	ModeDirectory   FileMode = "040000" // Directory (tree)
	ModeSubmodule   FileMode = "160000" // Submodule reference
)

func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// isWellFormed reports whether the mode field has the shape the wire format
// requires: 5 or 6 ASCII decimal digits. Foreign trees may carry modes
// outside the named constants (for example "40000" without the leading
// zero); those must survive a parse/serialize round trip verbatim.
func (m FileMode) isWellFormed() bool {
	if len(m) < constants.TreeModeMinDigits || len(m) > constants.TreeModeMaxDigits {
		return false
	}
	for i := 0; i < len(m); i++ {
		if m[i] < '0' || m[i] > '9' {
			return false
		}
	}
	return true
}

// TreeEntry represents a single leaf in a tree object: one path segment
// referencing a child blob or sub-tree by digest.
type TreeEntry struct {
	mode FileMode
	name string
	hash string // lowercase hex digest of the referenced child object
}

func NewTreeEntry(mode FileMode, name string, hash string) (*TreeEntry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid file mode: %s", mode)
	}
	return &TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}, nil
}

func (e *TreeEntry) Mode() FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name
}

func (e *TreeEntry) Hash() string {
	return e.hash
}

func (treeEntry *TreeEntry) IsDirectory() bool {
	return treeEntry.mode == ModeDirectory
}

func (treeEntry *TreeEntry) IsExecutable() bool {
	return treeEntry.mode == ModeExecutable
}

// Tree represents a directory snapshot: an ordered sequence of leaves.
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of Tree Entries.
// Entries are sorted by name so identical directory contents always hash to
// the same digest, no matter the order the caller discovered them in.
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	slices.SortStableFunc(entries, compareTreeEntries)

	return newTreeFromEntries(entries)
}

// ParseTree deserializes a tree payload, walking leaf by leaf until the
// input is exhausted. Stored leaf order is preserved exactly; a truncated
// or malformed trailing leaf fails the whole parse.
func ParseTree(payload []byte) (*Tree, error) {
	var entries []TreeEntry

	rest := payload
	for len(rest) > 0 {
		entry, remaining, err := parseTreeEntry(rest)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		rest = remaining
	}

	return newTreeFromEntries(entries)
}

func newTreeFromEntries(entries []TreeEntry) (*Tree, error) {
	hash, err := utils.ComputeHash(buildTreeContent(entries), utils.TreeObjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for tree: %w", err)
	}

	return &Tree{
		entries: entries,
		hash:    hash,
	}, nil
}

// parseTreeEntry decodes one leaf from the front of data and returns the
// unconsumed remainder. Leaf layout: "<mode> <name>\0<20 raw digest bytes>".
func parseTreeEntry(data []byte) (TreeEntry, []byte, error) {
	spaceIndex := bytes.IndexByte(data, ' ')
	if spaceIndex == -1 {
		return TreeEntry{}, nil, fmt.Errorf("%w: no space after mode field", ErrBadMode)
	}

	mode := FileMode(data[:spaceIndex])
	if !mode.isWellFormed() {
		return TreeEntry{}, nil, fmt.Errorf("%w: %q (want 5 or 6 decimal digits)", ErrBadMode, mode)
	}

	nameStart := spaceIndex + 1
	nulOffset := bytes.IndexByte(data[nameStart:], constants.NullByte)
	if nulOffset == -1 {
		return TreeEntry{}, nil, fmt.Errorf("tree leaf: path %w", ErrMissingTerminator)
	}
	name := string(data[nameStart : nameStart+nulOffset])

	digestStart := nameStart + nulOffset + 1
	if len(data) < digestStart+constants.HashByteLength {
		return TreeEntry{}, nil, fmt.Errorf("%w: %d of %d bytes",
			ErrTruncatedDigest, len(data)-digestStart, constants.HashByteLength)
	}
	hash := hex.EncodeToString(data[digestStart : digestStart+constants.HashByteLength])

	entry := TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}
	return entry, data[digestStart+constants.HashByteLength:], nil
}

// compareTreeEntries implements the tree entry sorting rules:
// - Entries are sorted by name
// - Directory names are treated as if they have a trailing "/" for comparison
// - This ensures correct ordering when directories and files have similar names
func compareTreeEntries(a, b TreeEntry) int {
	nameA := getSortableName(a)
	nameB := getSortableName(b)
	return strings.Compare(nameA, nameB)
}

// getSortableName returns the name used for sorting.
// For directories, appends "/" to follow the tree sorting convention.
func getSortableName(entry TreeEntry) string {
	if entry.IsDirectory() {
		return entry.Name() + "/"
	}
	return entry.Name()
}

// buildTreeContent creates the raw tree content, one leaf after another
// with no delimiter between them:
// <mode> <name>\0<20-byte binary SHA> , ex:
// 100644 README.md\0[binary SHA for README blob]
// 040000 src\0[binary SHA for src/ tree]
func buildTreeContent(entries []TreeEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(string(entry.Mode()))
		buf.WriteByte(' ')
		buf.WriteString(entry.Name())
		buf.WriteByte(constants.NullByte)

		// Convert hex hash to binary hash
		hashBytes, _ := hex.DecodeString(entry.Hash())
		buf.Write(hashBytes)
	}

	return buf.Bytes()
}

func (t *Tree) Type() utils.ObjectType {
	return utils.TreeObjectType
}

// Hash returns the SHA-1 hash of the tree's frame.
func (t *Tree) Hash() string {
	return t.hash
}

// Entries returns all tree entries in serialization order.
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Size returns the size of the tree content.
func (t *Tree) Size() int {
	return len(buildTreeContent(t.entries))
}

// Content returns the raw tree content.
func (t *Tree) Content() []byte {
	return buildTreeContent(t.entries)
}

func (t *Tree) Data() []byte {
	return utils.Frame(utils.TreeObjectType, t.Content())
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by name
func (t *Tree) FindEntry(name string) (*TreeEntry, bool) {
	for _, entry := range t.entries {
		if entry.Name() == name {
			return &entry, true
		}
	}
	return nil, false
}
