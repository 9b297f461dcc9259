package constants

import "os"

// Command name constants used in tests and error messages.
// Cobra Use fields remain inline for CLI discoverability.
const (
	InitCmdName       = "init"
	HashObjectCmdName = "hash-object"
	CatFileCmdName    = "cat-file"
	LsTreeCmdName     = "ls-tree"
	LogCmdName        = "log"
	CheckoutCmdName   = "checkout"
)

// Repository directory and file names define the govcs metadata structure.
const (
	// Govcs is the repository metadata directory.
	Govcs = ".govcs"

	// Objects stores content-addressable objects (blobs, trees, commits, tags).
	Objects = "objects"

	// Refs contains branch and tag references.
	Refs = "refs"

	// Heads stores branch pointers under refs/.
	Heads = "heads"

	// Tags stores tag pointers under refs/.
	Tags = "tags"

	// Branches is a legacy layout directory, created at init and left empty.
	Branches = "branches"

	// Head points to current branch or detached commit.
	Head = "HEAD"

	// Description names the freeform repository description file.
	Description = "description"

	// ConfigFile names the repository configuration file.
	ConfigFile = "config.yaml"
)

// Default repository values.
const (
	// DefaultBranch is the initial branch name for new repositories.
	DefaultBranch = "main"

	// DefaultRefPrefix is prepended to branch names in HEAD file.
	DefaultRefPrefix = "ref: refs/heads/"

	// RefMarker prefixes symbolic references inside ref files.
	RefMarker = "ref: "

	// DefaultDescription is the initial content of the description file.
	DefaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

	// RepositoryFormatVersion is the only config format version this
	// implementation reads or writes.
	RepositoryFormatVersion = 0
)

// Repository configuration keys (dotted viper paths).
const (
	ConfigKeyFormatVersion = "core.repositoryformatversion"
	ConfigKeyFileMode      = "core.filemode"
	ConfigKeyBare          = "core.bare"
)

// File system permissions for created files and directories.
const (
	// DirPerms grants read/write/execute to owner, read/execute to others (rwxr-xr-x).
	DirPerms os.FileMode = 0755

	// FilePerms grants read/write to owner, read-only to others (rw-r--r--).
	FilePerms os.FileMode = 0644
)

// Cryptographic hash properties.
const (
	// HashByteLength is byte length of SHA-1 hash (20 bytes).
	HashByteLength = 20

	// HashStringLength is hex string length of SHA-1 hash (40 characters).
	HashStringLength = 40

	// HashDirPrefixLength is subdirectory prefix length under objects/ (2 characters).
	HashDirPrefixLength = 2
)

// Commit and tag header field names.
const (
	// TreeField references the root tree of a commit.
	TreeField = "tree"

	// ParentField references parent commits; a commit may carry several.
	ParentField = "parent"
)

// Object format constants.
const (
	// NullByte separates header from content in framed objects and
	// terminates the path segment inside tree leaves.
	NullByte = '\x00'

	// TreeModeMinDigits and TreeModeMaxDigits bound the ASCII decimal
	// mode field of a tree leaf.
	TreeModeMinDigits = 5
	TreeModeMaxDigits = 6
)

// Resource limits guarding recursive structures.
const (
	// MaxTreeDepth bounds recursion while materializing nested trees.
	MaxTreeDepth = 512

	// MaxRefHops bounds symbolic reference chains during name resolution.
	MaxRefHops = 16

	// ObjectCacheSize is the capacity of the in-memory read cache of
	// parsed objects.
	ObjectCacheSize = 512
)
