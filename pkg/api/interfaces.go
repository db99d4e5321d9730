package api

import "github.com/ssargent/vfbkit/pkg/catalog"

// CatalogStore is the subset of *catalog.Catalog the server needs.
type CatalogStore interface {
	Add(path string) (*catalog.Entry, error)
	Get(id string) (*catalog.Entry, error)
	List() ([]*catalog.Entry, error)
	Remove(id string) error
}
