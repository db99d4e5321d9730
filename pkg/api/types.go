package api

import (
	"github.com/ssargent/vfbkit/pkg/catalog"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Detail  *ErrorDetail `json:"detail,omitempty"`
}

// ErrorDetail locates a decode failure inside a document
type ErrorDetail struct {
	Kind     string      `json:"kind"`
	Op       string      `json:"op,omitempty"`
	Offset   int64       `json:"offset"`
	Expected interface{} `json:"expected,omitempty"`
	Observed interface{} `json:"observed,omitempty"`
}

// AddDocumentRequest is the body of POST /documents
type AddDocumentRequest struct {
	Path string `json:"path"`
}

// DocumentResponse is a catalog entry together with the header read from disk
type DocumentResponse struct {
	Entry  *catalog.Entry `json:"entry"`
	Header vfb.Header     `json:"header"`
}

// FieldView is one directory entry as returned by the fields endpoint
type FieldView struct {
	Index int `json:"index"`
	vfb.FieldDescriptor
	Name string `json:"name,omitempty"`
}

// FieldsResponse lists the directory of a document
type FieldsResponse struct {
	ID     string      `json:"id"`
	Count  int         `json:"count"`
	Fields []FieldView `json:"fields"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // Empty disables authentication
}
