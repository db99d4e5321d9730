package api

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/vfbkit/pkg/catalog"
	"github.com/ssargent/vfbkit/pkg/codec"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

// Server holds the API server state
type Server struct {
	catalog CatalogStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(cat CatalogStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog: cat,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.List()
	if err != nil {
		s.logger.Error("list catalog failed", "error", err)
		sendError(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*catalog.Entry{}
	}
	sendSuccess(w, entries)
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		sendError(w, "path is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	entry, err := s.catalog.Add(req.Path)
	if err != nil {
		s.metrics.RecordDocumentOpen(false, 0, time.Since(start))
		s.logError("add document failed", req.Path, err)
		s.sendCatalogError(w, err)
		return
	}
	s.metrics.RecordDocumentOpen(true, entry.FieldCount, time.Since(start))
	s.logger.Info("document catalogued", "path", entry.Path, "id", entry.ID, "fields", entry.FieldCount)
	sendCreated(w, entry)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	entry, doc, ok := s.openDocument(w, r)
	if !ok {
		return
	}
	defer doc.Close()

	sendSuccess(w, DocumentResponse{Entry: entry, Header: doc.Header()})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Remove(id); err != nil {
		s.sendCatalogError(w, err)
		return
	}
	s.logger.Info("document removed", "id", id)
	sendSuccess(w, map[string]string{"id": id, "status": "removed"})
}

func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	var filter *vfb.Key
	if raw := r.URL.Query().Get("key"); raw != "" {
		key, ok := vfb.ParseKey(raw)
		if !ok {
			sendError(w, "Unknown key: "+raw, http.StatusBadRequest)
			return
		}
		filter = &key
	}

	entry, doc, ok := s.openDocument(w, r)
	if !ok {
		return
	}
	defer doc.Close()

	views := []FieldView{}
	for i, f := range doc.Fields() {
		if filter != nil && f.Key != *filter {
			continue
		}
		name, _ := f.Key.Name()
		views = append(views, FieldView{Index: i, FieldDescriptor: f, Name: name})
	}
	sendSuccess(w, FieldsResponse{ID: entry.ID, Count: len(views), Fields: views})
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		sendError(w, "index must be a non-negative integer", http.StatusBadRequest)
		return
	}

	_, doc, ok := s.openDocument(w, r)
	if !ok {
		return
	}
	defer doc.Close()

	field, ok := doc.Field(index)
	if !ok {
		sendError(w, "Field not found", http.StatusNotFound)
		return
	}

	section, err := doc.Section(field)
	if err != nil {
		sendDecodeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatUint(uint64(field.Size), 10))
	w.Header().Set("X-VFB-Key", strconv.Itoa(int(field.Key)))
	w.Header().Set("X-VFB-Offset", strconv.FormatInt(field.Offset, 10))
	w.WriteHeader(http.StatusOK)

	// Headers are already sent; a short copy can only be logged.
	n, err := io.Copy(w, section)
	s.metrics.RecordPayloadBytes(int(n))
	if err != nil || n != section.Size() {
		s.logger.Warn("payload write failed",
			"path", r.URL.Path,
			"offset", field.Offset,
			"size", field.Size,
			"written", n,
			"error", err)
	}
}

// openDocument resolves the {id} route parameter and parses the file it names.
// On failure it writes the response and returns false.
func (s *Server) openDocument(w http.ResponseWriter, r *http.Request) (*catalog.Entry, *vfb.Document, bool) {
	entry, err := s.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.sendCatalogError(w, err)
		return nil, nil, false
	}

	start := time.Now()
	doc, err := vfb.OpenFile(entry.Path)
	if err != nil {
		s.metrics.RecordDocumentOpen(false, 0, time.Since(start))
		s.logError("open document failed", entry.Path, err)
		sendDecodeError(w, err)
		return nil, nil, false
	}
	s.metrics.RecordDocumentOpen(true, doc.Len(), time.Since(start))
	s.logger.Debug("document opened", "path", entry.Path, "fields", doc.Len())
	return entry, doc, true
}

func (s *Server) sendCatalogError(w http.ResponseWriter, err error) {
	var de *codec.Error
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		sendError(w, "Document not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrInvalidID):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &de):
		sendDecodeError(w, err)
	case errors.Is(err, fs.ErrNotExist):
		sendError(w, "File not found", http.StatusBadRequest)
	default:
		s.logger.Error("catalog operation failed", "error", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) logError(msg, path string, err error) {
	attrs := []any{"path", path, "error", err}
	if offset, ok := codec.OffsetOf(err); ok {
		attrs = append(attrs, "offset", offset)
	}
	s.logger.Warn(msg, attrs...)
}
