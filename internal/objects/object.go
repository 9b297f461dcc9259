package objects

import (
	"errors"
	"fmt"

	"github.com/KostasZigo/govcs/utils"
)

// Object represents any govcs object that can be stored.
// All govcs objects (blobs, trees, commits, tags) implement this interface.
type Object interface {
	// Type returns the object kind tagged in the frame header.
	Type() utils.ObjectType

	// Hash returns the SHA-1 hash of the object's frame.
	Hash() string

	// Content returns the serialized payload without the frame header.
	Content() []byte

	// Data returns the complete object frame including header.
	// Format: "<type> <size>\0<content>"
	Data() []byte
}

// Payload format errors shared by the tree and commit deserializers.
// Callers match them with errors.Is; the wrapping message carries the
// offending offset or line.
var (
	// ErrBadMode reports a tree leaf whose mode field is not 5 or 6
	// decimal digits followed by a space.
	ErrBadMode = errors.New("tree leaf: bad mode field")

	// ErrMissingTerminator reports a tree leaf path or commit header line
	// without its terminator byte.
	ErrMissingTerminator = errors.New("missing terminator")

	// ErrTruncatedDigest reports a tree leaf with fewer than 20 digest
	// bytes remaining.
	ErrTruncatedDigest = errors.New("tree leaf: truncated digest")

	// ErrInvalidUTF8 reports a commit or tag payload that is not valid
	// UTF-8 text.
	ErrInvalidUTF8 = errors.New("payload is not valid UTF-8")
)

// Deserialize parses a payload into its typed variant. The switch is
// exhaustive over the closed set of object types; adding a kind without a
// case here is a compile-visible change, not a silent runtime fallthrough.
func Deserialize(objectType utils.ObjectType, payload []byte) (Object, error) {
	switch objectType {
	case utils.BlobObjectType:
		return NewBlob(payload), nil
	case utils.TreeObjectType:
		return ParseTree(payload)
	case utils.CommitObjectType:
		return ParseCommit(payload)
	case utils.TagObjectType:
		return ParseTag(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, objectType)
	}
}
