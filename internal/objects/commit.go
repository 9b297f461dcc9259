package objects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/utils"
)

// field is one header entry of a commit or tag payload. Entries are kept as
// a flat ordered list, not a map: the same key may appear several times
// (multiple parents), keys may interleave, and serialization must reproduce
// the parsed payload byte for byte.
type field struct {
	key   string
	value string
}

// kvList is the shared key-value-list-with-message layout used by commit
// and tag payloads:
//
//	<key> SP <value>\n   (value continues on lines starting with one space)
//	...
//	\n
//	<message to end of payload>
type kvList struct {
	fields  []field
	message string
}

// parseKVList deserializes the header fields and message. Each header line
// must be terminated by a newline; continuation lines carry exactly one
// leading space, which is stripped here and re-added on serialization.
func parseKVList(payload []byte) (kvList, error) {
	if !utf8.Valid(payload) {
		return kvList{}, fmt.Errorf("commit: %w", ErrInvalidUTF8)
	}

	var kv kvList
	rest := string(payload)

	for len(rest) > 0 {
		// A blank line ends the headers; the remainder is the message.
		if rest[0] == '\n' {
			kv.message = rest[1:]
			return kv, nil
		}

		spaceIndex := strings.IndexByte(rest, ' ')
		newlineIndex := strings.IndexByte(rest, '\n')
		if spaceIndex == -1 || (newlineIndex != -1 && newlineIndex < spaceIndex) {
			return kvList{}, fmt.Errorf("commit header %q: %w between key and value",
				firstLine(rest), ErrMissingTerminator)
		}

		key := rest[:spaceIndex]
		rest = rest[spaceIndex+1:]

		var value strings.Builder
		for {
			lineEnd := strings.IndexByte(rest, '\n')
			if lineEnd == -1 {
				return kvList{}, fmt.Errorf("commit header %q: line %w",
					key, ErrMissingTerminator)
			}
			value.WriteString(rest[:lineEnd])
			rest = rest[lineEnd+1:]

			// A single leading space marks a continuation line.
			if len(rest) > 0 && rest[0] == ' ' {
				value.WriteByte('\n')
				rest = rest[1:]
				continue
			}
			break
		}

		kv.fields = append(kv.fields, field{key: key, value: value.String()})
	}

	// Headers ran to end of input without a blank line; the message is empty.
	return kv, nil
}

// serialize reproduces the payload: embedded newlines in values are emitted
// as "\n " so every continuation line regains its leading space.
func (kv *kvList) serialize() []byte {
	var buf strings.Builder

	for _, f := range kv.fields {
		buf.WriteString(f.key)
		buf.WriteByte(' ')
		buf.WriteString(strings.ReplaceAll(f.value, "\n", "\n "))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(kv.message)

	return []byte(buf.String())
}

// get collects every value recorded for key, in insertion order.
func (kv *kvList) get(key string) []string {
	var values []string
	for _, f := range kv.fields {
		if f.key == key {
			values = append(values, f.value)
		}
	}
	return values
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		return s[:i]
	}
	return s
}

// Commit represents a snapshot of the repository: a tree reference, zero or
// more parents, freeform metadata, and a message.
type Commit struct {
	kv   kvList
	hash string
}

// ParseCommit deserializes a commit payload.
func ParseCommit(payload []byte) (*Commit, error) {
	kv, err := parseKVList(payload)
	if err != nil {
		return nil, err
	}

	// Hash the re-serialized form so the digest always matches what a
	// subsequent write would persist.
	hash, err := utils.ComputeHash(kv.serialize(), utils.CommitObjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for commit: %w", err)
	}

	return &Commit{kv: kv, hash: hash}, nil
}

func (c *Commit) Type() utils.ObjectType {
	return utils.CommitObjectType
}

func (c *Commit) Hash() string {
	return c.hash
}

func (c *Commit) Content() []byte {
	return c.kv.serialize()
}

func (c *Commit) Size() int {
	return len(c.Content())
}

func (c *Commit) Data() []byte {
	return utils.Frame(utils.CommitObjectType, c.Content())
}

// Get returns all values recorded for key in insertion order,
// and whether the key is present at all.
func (c *Commit) Get(key string) ([]string, bool) {
	values := c.kv.get(key)
	return values, len(values) > 0
}

// Message returns the commit message verbatim, trailing newline included.
func (c *Commit) Message() string {
	return c.kv.message
}

// TreeHash returns the digest of the commit's root tree.
func (c *Commit) TreeHash() (string, bool) {
	trees := c.kv.get(constants.TreeField)
	if len(trees) == 0 {
		return "", false
	}
	return trees[0], true
}

// Parents returns the digests of all parent commits, oldest-declared first.
// Empty for an initial commit.
func (c *Commit) Parents() []string {
	return c.kv.get(constants.ParentField)
}

func (c *Commit) IsInitialCommit() bool {
	return len(c.Parents()) == 0
}

func (c *Commit) String() string {
	tree, _ := c.TreeHash()
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parents: %d}", c.hash, tree, len(c.Parents()))
}

// Tag shares the commit payload layout. Only the frame header tag differs
// in this storage core; annotated-tag specific semantics live with callers.
type Tag struct {
	kv   kvList
	hash string
}

// ParseTag deserializes a tag payload.
func ParseTag(payload []byte) (*Tag, error) {
	kv, err := parseKVList(payload)
	if err != nil {
		return nil, err
	}

	hash, err := utils.ComputeHash(kv.serialize(), utils.TagObjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for tag: %w", err)
	}

	return &Tag{kv: kv, hash: hash}, nil
}

func (t *Tag) Type() utils.ObjectType {
	return utils.TagObjectType
}

func (t *Tag) Hash() string {
	return t.hash
}

func (t *Tag) Content() []byte {
	return t.kv.serialize()
}

func (t *Tag) Data() []byte {
	return utils.Frame(utils.TagObjectType, t.Content())
}

// Get returns all values recorded for key in insertion order,
// and whether the key is present at all.
func (t *Tag) Get(key string) ([]string, bool) {
	values := t.kv.get(key)
	return values, len(values) > 0
}

// Message returns the tag message verbatim.
func (t *Tag) Message() string {
	return t.kv.message
}

func (t *Tag) String() string {
	return fmt.Sprintf("Tag{hash: %s, fields: %d}", t.hash, len(t.kv.fields))
}
