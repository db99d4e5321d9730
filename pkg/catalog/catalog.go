package catalog

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/zeebo/blake3"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

var (
	// ErrNotFound is returned for IDs or digests the catalog does not hold.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrInvalidID is returned for strings that are not KSUIDs.
	ErrInvalidID = errors.New("invalid catalog id")
)

const (
	entryPrefix  = "entry/"
	digestPrefix = "digest/"
)

// Entry is the catalog record of one scanned VFB file.
type Entry struct {
	ID         string              `json:"id"`
	Path       string              `json:"path"`
	Digest     string              `json:"digest"`
	Size       int64               `json:"size"`
	Magic      string              `json:"magic"`
	Version    [2]uint16           `json:"version"`
	AppVersion string              `json:"app_version,omitempty"`
	Metadata   []vfb.MetadataEntry `json:"metadata"`
	FieldCount int                 `json:"field_count"`
	KeyCounts  map[vfb.Key]int     `json:"key_counts"`
	IndexedAt  time.Time           `json:"indexed_at"`
}

// Catalog records scanned documents in a pebble database, keyed by KSUID and
// indexed by BLAKE3 content digest. Add and Remove are serialized so the
// digest check and the write that follows it cannot interleave.
type Catalog struct {
	mu  sync.Mutex
	db  *pebble.DB
	now func() time.Time
}

// Open opens (or creates) the catalog stored in dir.
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog at %s: %w", dir, err)
	}
	return &Catalog{db: db, now: time.Now}, nil
}

// Add scans the file at path and records it. A file whose content is already
// catalogued returns the existing entry.
func (c *Catalog) Add(path string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	digest, err := Digest(abs)
	if err != nil {
		return nil, err
	}
	if existing, err := c.Lookup(digest); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	doc, err := vfb.OpenFile(abs)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	id := ksuid.New()
	entry := NewEntry(doc)
	entry.ID = id.String()
	entry.Path = abs
	entry.Digest = digest
	entry.IndexedAt = c.now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}

	batch := c.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(entryKey(id), data, nil); err != nil {
		return nil, err
	}
	if err := batch.Set(digestKey(digest), id.Bytes(), nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to commit entry: %w", err)
	}
	return entry, nil
}

// NewEntry summarizes an opened document. Identity fields (ID, path, digest
// and time) are left for the caller.
func NewEntry(doc *vfb.Document) *Entry {
	h := doc.Header()
	entry := &Entry{
		Size:       doc.Size(),
		Magic:      h.MagicString(),
		Version:    h.Version,
		Metadata:   h.Metadata[:],
		FieldCount: doc.Len(),
		KeyCounts:  make(map[vfb.Key]int),
	}
	if v, ok := h.AppVersion(); ok {
		entry.AppVersion = fmt.Sprintf("%d.%d.%d build %d", v[0], v[1], v[2], v[3])
	}
	for _, f := range doc.Fields() {
		entry.KeyCounts[f.Key]++
	}
	return entry
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (*Entry, error) {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return c.get(kid)
}

func (c *Catalog) get(id ksuid.KSUID) (*Entry, error) {
	data, closer, err := c.db.Get(entryKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", id, err)
	}
	return &entry, nil
}

// Lookup returns the entry whose content has the given hex digest.
func (c *Catalog) Lookup(digest string) (*Entry, error) {
	data, closer, err := c.db.Get(digestKey(digest))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := ksuid.FromBytes(data)
	closer.Close()
	if err != nil {
		return nil, fmt.Errorf("corrupt digest index for %s: %w", digest, err)
	}
	return c.get(id)
}

// List returns every entry in ID order. KSUIDs sort by creation time to the
// second.
func (c *Catalog) List() ([]*Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(entryPrefix),
		UpperBound: prefixEnd(entryPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []*Entry
	for iter.First(); iter.Valid(); iter.Next() {
		var entry Entry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", iter.Key(), err)
		}
		entries = append(entries, &entry)
	}
	return entries, iter.Error()
}

// Remove deletes the entry with the given ID and its digest index.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, err := c.Get(id)
	if err != nil {
		return err
	}
	kid, _ := ksuid.Parse(entry.ID)

	batch := c.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(entryKey(kid), nil); err != nil {
		return err
	}
	if err := batch.Delete(digestKey(entry.Digest), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Digest returns the hex BLAKE3-256 digest of the file at path.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := blake3.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func entryKey(id ksuid.KSUID) []byte {
	return append([]byte(entryPrefix), id.String()...)
}

func digestKey(digest string) []byte {
	return []byte(digestPrefix + digest)
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
