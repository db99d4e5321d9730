package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

func writeFont(t *testing.T, dir, name, fontName string) string {
	t.Helper()
	var buf bytes.Buffer
	w := vfb.NewWriter(&buf)
	require.NoError(t, w.WriteHeader(vfb.NewHeader()))
	_, err := w.WriteField(vfb.KeyFontName, []byte(fontName))
	require.NoError(t, err)
	_, err = w.WriteField(vfb.KeyEncoding, []byte{0x01, 0x00, 0x41})
	require.NoError(t, err)
	_, err = w.WriteField(vfb.KeyEncoding, []byte{0x02, 0x00, 0x42})
	require.NoError(t, err)
	require.NoError(t, w.WriteEndMarker())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func openCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "vfb_catalog_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	c, err := Open(filepath.Join(tmpDir, "db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, tmpDir
}

func TestCatalog_AddGet(t *testing.T) {
	c, dir := openCatalog(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	path := writeFont(t, dir, "a.vfb", "Alpha")
	entry, err := c.Add(path)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, path, entry.Path)
	assert.Len(t, entry.Digest, 64)
	assert.Equal(t, vfb.Magic, entry.Magic)
	assert.Equal(t, [2]uint16{3, 44}, entry.Version)
	assert.Equal(t, "5.0.0 build 1", entry.AppVersion)
	assert.Equal(t, 5, entry.FieldCount)
	assert.Equal(t, 2, entry.KeyCounts[vfb.KeyEncoding])
	assert.Equal(t, 1, entry.KeyCounts[vfb.KeyFontName])
	assert.Equal(t, fixed, entry.IndexedAt)

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	byDigest, err := c.Lookup(entry.Digest)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, byDigest.ID)
}

func TestCatalog_AddDeduplicatesByContent(t *testing.T) {
	c, dir := openCatalog(t)
	first, err := c.Add(writeFont(t, dir, "a.vfb", "Same"))
	require.NoError(t, err)
	second, err := c.Add(writeFont(t, dir, "b.vfb", "Same"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	entries, err := c.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCatalog_ConcurrentAddSameContent(t *testing.T) {
	c, dir := openCatalog(t)
	path := writeFont(t, dir, "a.vfb", "Concurrent")

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := c.Add(path)
			errs[i] = err
			if err == nil {
				ids[i] = entry.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ids[0], entries[0].ID)
}

func TestCatalog_List(t *testing.T) {
	c, dir := openCatalog(t)
	var ids []string
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		entry, err := c.Add(writeFont(t, dir, name+".vfb", name))
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Contains(t, ids, entry.ID)
	}
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ID, entries[i].ID)
	}
}

func TestCatalog_Remove(t *testing.T) {
	c, dir := openCatalog(t)
	entry, err := c.Add(writeFont(t, dir, "a.vfb", "Alpha"))
	require.NoError(t, err)

	require.NoError(t, c.Remove(entry.ID))

	_, err = c.Get(entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup(entry.Digest)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Remove(entry.ID), ErrNotFound)
}

func TestCatalog_Errors(t *testing.T) {
	c, dir := openCatalog(t)

	_, err := c.Get("not-a-ksuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = c.Get("0ujtsYcgvSTl8PAuAdqWYSMnLOv")
	assert.ErrorIs(t, err, ErrNotFound)

	bad := filepath.Join(dir, "bad.vfb")
	require.NoError(t, os.WriteFile(bad, []byte("not a font at all"), 0600))
	_, err = c.Add(bad)
	assert.ErrorIs(t, err, vfb.ErrInvalidMagic)

	_, err = c.Add(filepath.Join(dir, "missing.vfb"))
	assert.Error(t, err)
}

func TestCatalog_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbDir := filepath.Join(tmpDir, "db")

	c, err := Open(dbDir)
	require.NoError(t, err)
	entry, err := c.Add(writeFont(t, tmpDir, "a.vfb", "Alpha"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dbDir)
	require.NoError(t, err)
	defer c.Close()
	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Digest, got.Digest)
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	a := writeFont(t, dir, "a.vfb", "Alpha")
	b := writeFont(t, dir, "b.vfb", "Beta")

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)

	again, err := Digest(a)
	require.NoError(t, err)
	assert.Equal(t, da, again)
}
