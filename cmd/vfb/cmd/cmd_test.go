package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/vfbkit/pkg/catalog"
	"github.com/ssargent/vfbkit/pkg/logging"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

// resetFlags restores every flag to its default so commands can run
// repeatedly within one test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type testEnv struct {
	dir        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "vfb_cmd_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	// Point at a config file that does not exist so defaults apply, with the
	// catalog kept inside the temp dir.
	return &testEnv{dir: tmpDir, configPath: filepath.Join(tmpDir, "config.yaml")}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--catalog-dir", filepath.Join(e.dir, "catalog"), "--log-level", "error"))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func (e *testEnv) writeFont(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	w := vfb.NewWriter(&buf)
	require.NoError(t, w.WriteHeader(vfb.NewHeader()))
	for _, f := range []struct {
		key     vfb.Key
		payload []byte
	}{
		{vfb.KeyEncodingDefault, []byte{0x01, 0x00, 0x2E}},
		{vfb.KeyEncoding, []byte{0x01, 0x00, 0x41}},
		{vfb.KeyEncoding, []byte{0x02, 0x00, 0x42}},
		{vfb.KeyFontName, []byte(name)},
		{vfb.KeyGlyph, bytes.Repeat([]byte{0x8B}, 16)},
	} {
		_, err := w.WriteField(f.key, f.payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteEndMarker())

	path := filepath.Join(e.dir, name+".vfb")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestInfoCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")

	out, err := env.run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "WLF10")
	assert.Contains(t, out, "3.44")
	assert.Contains(t, out, "5.0.0 build 1")
	assert.Contains(t, out, "Encoding")

	out, err = env.run(t, "info", path, "--output", "json", "--top", "1")
	require.NoError(t, err)
	var report InfoReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 7, report.FieldCount)
	require.Len(t, report.TopKeys, 1)
	assert.Equal(t, vfb.KeyEncoding, report.TopKeys[0].Key)
	assert.Equal(t, 2, report.TopKeys[0].Count)
}

func TestInfoCommand_BadFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "bad.vfb")
	require.NoError(t, os.WriteFile(path, []byte("\x1aWLF10"), 0600))

	_, err := env.run(t, "info", path)
	assert.ErrorIs(t, err, vfb.ErrTruncatedHeader)
}

func TestFieldsCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")

	out, err := env.run(t, "fields", path, "--output", "json")
	require.NoError(t, err)
	var rows []FieldRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 7)
	assert.Equal(t, vfb.KeyFontName, rows[3].Key)
	assert.Equal(t, "font_name", rows[3].Name)

	out, err = env.run(t, "fields", path, "--key", "Encoding", "--output", "json")
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 2, rows[1].Index)

	out, err = env.run(t, "fields", path)
	require.NoError(t, err)
	// go-pretty upper-cases footers.
	assert.Contains(t, strings.ToLower(out), "7 entries")

	_, err = env.run(t, "fields", path, "--key", "nonsense")
	assert.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")

	out, err := env.run(t, "dump", path, "--key", "font_name", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", out)

	out, err = env.run(t, "dump", path, "--key", "1500", "--nth", "1", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "\x02\x00B", out)

	out, err = env.run(t, "dump", path, "--index", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "font_name (key 1026)")
	assert.Contains(t, out, "41 6c 70 68 61")

	outFile := filepath.Join(env.dir, "glyph.bin")
	_, err = env.run(t, "dump", path, "--key", "Glyph", "--raw", "--out", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x8B}, 16), data)

	_, err = env.run(t, "dump", path)
	assert.Error(t, err)
	_, err = env.run(t, "dump", path, "--index", "99")
	assert.Error(t, err)
	_, err = env.run(t, "dump", path, "--key", "Encoding", "--nth", "5")
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteDump(t *testing.T) {
	field := vfb.FieldDescriptor{Key: vfb.KeyFontName, Offset: 75, Size: 5}

	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, field, []byte("Alpha"), false))
	assert.Contains(t, buf.String(), "# font_name (key 1026) at offset 75, 5 bytes")

	assert.Error(t, writeDump(failingWriter{}, field, []byte("Alpha"), true))
	assert.Error(t, writeDump(failingWriter{}, field, []byte("Alpha"), false))
}

func TestDumpCommand_OutErrors(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")

	_, err := env.run(t, "dump", path, "--index", "3", "--out", filepath.Join(env.dir, "missing", "x.txt"))
	assert.Error(t, err)

	outFile := filepath.Join(env.dir, "name.txt")
	_, err = env.run(t, "dump", path, "--index", "3", "--out", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "41 6c 70 68 61")
}

func TestStripCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")
	outPath := filepath.Join(env.dir, "stripped.vfb")

	out, err := env.run(t, "strip", path, outPath, "--drop", "Encoding,1501")
	require.NoError(t, err)
	assert.Contains(t, out, "kept 4 of 7 entries")

	doc, err := vfb.OpenFile(outPath)
	require.NoError(t, err)
	defer doc.Close()
	assert.Equal(t, 4, doc.Len())
	assert.Empty(t, doc.FieldsByKey(vfb.KeyEncoding))
	assert.Len(t, doc.FieldsByKey(vfb.KeyEOF), 1)

	_, err = env.run(t, "strip", path, path, "--drop", "Encoding")
	assert.Error(t, err)
	_, err = env.run(t, "strip", path, outPath)
	assert.Error(t, err)
}

func TestWriteStripped_RemovesPartialOutput(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")
	outPath := filepath.Join(env.dir, "partial.vfb")
	logger = logging.Discard()

	doc, err := vfb.OpenFile(path)
	require.NoError(t, err)
	defer doc.Close()

	// The source loses its font name payload after the scan, so the copy
	// fails midway through.
	names := doc.FieldsByKey(vfb.KeyFontName)
	require.Len(t, names, 1)
	require.NoError(t, os.Truncate(path, names[0].Offset+2))

	kept, err := writeStripped(outPath, doc, []vfb.Key{vfb.KeyEncodingDefault})
	assert.ErrorIs(t, err, vfb.ErrUnexpectedEndOfStream)
	assert.Equal(t, 2, kept)
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCatalogCommands(t *testing.T) {
	env := newTestEnv(t)
	alpha := env.writeFont(t, "Alpha")
	beta := env.writeFont(t, "Beta")

	out, err := env.run(t, "catalog", "add", alpha, beta, "--output", "json")
	require.NoError(t, err)
	var added []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.Len(t, added, 2)

	out, err = env.run(t, "catalog", "list", "--output", "json")
	require.NoError(t, err)
	var listed []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)

	out, err = env.run(t, "catalog", "show", added[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, added[0].Digest)
	assert.Contains(t, out, "font_name")

	out, err = env.run(t, "catalog", "rm", added[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	_, err = env.run(t, "catalog", "show", added[0].ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	out, err = env.run(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, added[1].ID)
	assert.NotContains(t, out, added[0].ID)
}

func TestCatalogAdd_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	alpha := env.writeFont(t, "Alpha")

	_, err := env.run(t, "catalog", "add", alpha, filepath.Join(env.dir, "missing.vfb"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files")
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "init", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "API key:")
	assert.FileExists(t, env.configPath)

	_, err = env.run(t, "init", "--config", env.configPath)
	assert.Error(t, err)

	_, err = env.run(t, "init", "--config", env.configPath, "--force")
	assert.NoError(t, err)

	// The written config is picked up by other commands.
	path := env.writeFont(t, "Alpha")
	_, err = env.run(t, "info", path, "--config", env.configPath)
	assert.NoError(t, err)
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFont(t, "Alpha")

	_, err := env.run(t, "info", path, "--config", filepath.Join(env.dir, "nope.yaml"))
	assert.Error(t, err)
}
