package objects

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zlib"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/utils"
)

// Store errors, matched by callers with errors.Is. The wrapping message
// carries the digest or name involved.
var (
	// ErrNotFound reports a digest with no object file behind it.
	ErrNotFound = errors.New("object not found")

	// ErrCorrupt reports an object file whose compressed data or frame
	// header cannot be decoded.
	ErrCorrupt = errors.New("object corrupt")

	// ErrSizeMismatch reports a frame whose declared payload length does
	// not equal the actual payload length.
	ErrSizeMismatch = errors.New("object size mismatch")

	// ErrUnknownKind reports a frame header naming a type outside the
	// recognized object kinds.
	ErrUnknownKind = errors.New("unknown object kind")

	// ErrIO wraps filesystem failures that are neither absence nor
	// corruption (permissions, disk full, unreadable store root).
	ErrIO = errors.New("object store I/O failure")

	// ErrUnknownName reports a name the resolver cannot map to a digest.
	ErrUnknownName = errors.New("cannot resolve name")
)

// Layout resolves logical repository paths to absolute filesystem paths.
// It is implemented by internal/repository; the store keeps it as an
// interface so tests can run against a bare temporary directory.
type Layout interface {
	// ObjectPath returns the absolute path of the object file for a
	// canonical digest, using the two-level fanout
	// objects/<first 2 hex chars>/<remaining 38>. With mkdir set the
	// fanout directory is created on demand. Fails when the object store
	// root itself is missing, distinctly from a missing object file.
	ObjectPath(digest string, mkdir bool) (string, error)

	// MetaPath returns the absolute path of a metadata file inside the
	// repository directory, named by a slash-separated logical path such
	// as "HEAD" or "refs/heads/main".
	MetaPath(logical string) (string, error)
}

// ObjectStore manages content-addressed storage of objects.
// Objects are immutable and writes are idempotent, so parsed objects are
// cached on read and never invalidated.
type ObjectStore struct {
	layout Layout
	cache  *lru.Cache[string, Object]
}

func NewObjectStore(layout Layout) *ObjectStore {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, Object](constants.ObjectCacheSize)
	return &ObjectStore{
		layout: layout,
		cache:  cache,
	}
}

// Read loads, decompresses, and parses the object addressed by digest.
func (store *ObjectStore) Read(digest string) (Object, error) {
	digest, err := utils.NormalizeDigest(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	if obj, ok := store.cache.Get(digest); ok {
		return obj, nil
	}

	objectFile, err := store.layout.ObjectPath(digest, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	compressedData, err := os.ReadFile(objectFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %s: %w", ErrIO, digest, err)
	}

	frame, err := decompress(compressedData)
	if err != nil {
		return nil, fmt.Errorf("%w: object %s: %w", ErrCorrupt, digest, err)
	}

	objectType, payload, err := parseFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", digest, err)
	}

	obj, err := Deserialize(objectType, payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", digest, err)
	}

	store.cache.Add(digest, obj)
	return obj, nil
}

// Write computes and returns the object's digest. The object is persisted
// only when persist is set; a bare hash computation never touches disk.
// Persistence is write-once: an existing object file is left untouched and
// the write reports success (content addressing guarantees identical bytes).
func (store *ObjectStore) Write(obj Object, persist bool) (string, error) {
	hash := obj.Hash()

	if !persist {
		return hash, nil
	}

	objectFile, err := store.layout.ObjectPath(hash, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	// Check if object already exists (content-addressable)
	if _, err := os.Stat(objectFile); err == nil {
		slog.Debug("Object with this hash already exists",
			"hash", hash)
		return hash, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: checking object %s: %w", ErrIO, hash, err)
	}

	compressedData, err := compress(obj.Data())
	if err != nil {
		return "", fmt.Errorf("failed to compress object: %w", err)
	}

	if err := os.WriteFile(objectFile, compressedData, constants.FilePerms); err != nil {
		return "", fmt.Errorf("%w: writing object %s: %w", ErrIO, hash, err)
	}

	return hash, nil
}

// Store persists an object unconditionally. Convenience wrapper over Write.
func (store *ObjectStore) Store(obj Object) error {
	_, err := store.Write(obj, true)
	return err
}

// Exists checks if an object exists in storage.
func (store *ObjectStore) Exists(digest string) bool {
	digest, err := utils.NormalizeDigest(digest)
	if err != nil {
		return false
	}
	objectFile, err := store.layout.ObjectPath(digest, false)
	if err != nil {
		return false
	}
	// Any stat failure counts as absent; a permission error must not
	// report the object as present.
	_, err = os.Stat(objectFile)
	return err == nil
}

// Resolve maps a name to a canonical digest. Full 40-character digests pass
// through (normalized to lowercase); "HEAD" and "refs/..." names are
// followed through symbolic ref files. Abbreviated digests and relative
// forms like "HEAD~1" are intentionally not supported yet; callers must not
// assume abbreviation works.
func (store *ObjectStore) Resolve(name string) (string, error) {
	if digest, err := utils.NormalizeDigest(name); err == nil {
		return digest, nil
	}

	ref := name
	for hop := 0; hop < constants.MaxRefHops; hop++ {
		refFile, err := store.layout.MetaPath(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrUnknownName, name, err)
		}

		data, err := os.ReadFile(refFile)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		if err != nil {
			return "", fmt.Errorf("%w: reading ref %q: %w", ErrIO, ref, err)
		}

		content := strings.TrimSpace(string(data))
		if target, isSymbolic := strings.CutPrefix(content, constants.RefMarker); isSymbolic {
			ref = target
			continue
		}

		digest, err := utils.NormalizeDigest(content)
		if err != nil {
			return "", fmt.Errorf("%w: ref %q points at %q", ErrUnknownName, ref, content)
		}
		return digest, nil
	}

	return "", fmt.Errorf("%w: %q: symbolic ref chain too long", ErrUnknownName, name)
}

// parseFrame splits a decompressed frame into its kind and payload,
// validating the declared payload length.
func parseFrame(frame []byte) (utils.ObjectType, []byte, error) {
	spaceIndex := bytes.IndexByte(frame, ' ')
	if spaceIndex == -1 {
		return "", nil, fmt.Errorf("%w: frame header has no space", ErrCorrupt)
	}

	nulIndex := bytes.IndexByte(frame, constants.NullByte)
	if nulIndex == -1 || nulIndex < spaceIndex {
		return "", nil, fmt.Errorf("%w: frame header has no NUL terminator", ErrCorrupt)
	}

	objectType, err := utils.ParseObjectType(string(frame[:spaceIndex]))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownKind, frame[:spaceIndex])
	}

	declaredSize, err := strconv.Atoi(string(frame[spaceIndex+1 : nulIndex]))
	if err != nil {
		return "", nil, fmt.Errorf("%w: unparsable size field %q", ErrCorrupt, frame[spaceIndex+1:nulIndex])
	}

	payload := frame[nulIndex+1:]
	if declaredSize != len(payload) {
		return "", nil, fmt.Errorf("%w: header declares %d bytes, payload has %d",
			ErrSizeMismatch, declaredSize, len(payload))
	}

	return objectType, payload, nil
}

// compress deflates a frame for on-disk storage.
func compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := zlib.NewWriter(&buffer)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}

	// Close flushes any buffered data
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// decompress inflates an object file back into its frame.
func decompress(compressedData []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(reader); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
