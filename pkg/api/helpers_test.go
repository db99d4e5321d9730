package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/vfbkit/pkg/catalog"
	"github.com/ssargent/vfbkit/pkg/logging"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

type testEnv struct {
	server  *Server
	handler http.Handler
	catalog *catalog.Catalog
	dir     string
}

func setupTestServer(t *testing.T, config ServerConfig) *testEnv {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "vfb_api_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cat, err := catalog.Open(filepath.Join(tmpDir, "catalog"))
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	metrics := NewMetrics(prometheus.NewRegistry())
	server := NewServer(cat, config, metrics, logging.Discard())
	return &testEnv{
		server:  server,
		handler: server.Routes(),
		catalog: cat,
		dir:     tmpDir,
	}
}

// writeFont writes a small document and returns its path and bytes.
func (e *testEnv) writeFont(t *testing.T, name string) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := vfb.NewWriter(&buf)
	require.NoError(t, w.WriteHeader(vfb.NewHeader()))
	for _, f := range []struct {
		key     vfb.Key
		payload []byte
	}{
		{vfb.KeyEncoding, []byte{0x01, 0x00, 0x41}},
		{vfb.KeyEncoding, []byte{0x02, 0x00, 0x42}},
		{vfb.KeyFontName, []byte(name)},
		{vfb.KeyGlyph, bytes.Repeat([]byte{0x8B}, 32)},
	} {
		_, err := w.WriteField(f.key, f.payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteEndMarker())

	path := filepath.Join(e.dir, name+".vfb")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path, buf.Bytes()
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.APIResponse
}
