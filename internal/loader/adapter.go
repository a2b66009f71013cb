// Package loader reads resolved invoice records exported by the upstream store
// and normalizes both schema versions into a model.Bundle.
package loader

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rezonia/fatura/internal/model"
)

// Schema identifies the version of a persisted invoice record
type Schema string

const (
	// SchemaCurrent records carry invoice_type and document_kind
	SchemaCurrent Schema = "current"
	// SchemaLegacy records carry a single `type` column
	SchemaLegacy Schema = "legacy"

	schemaUnknown = "unknown"
)

// Adapter parses one schema version of a JSON invoice record into a Bundle
type Adapter interface {
	// Parse parses record content into a Bundle
	Parse(ctx context.Context, r io.Reader) (*model.Bundle, error)

	// CanParse returns true if adapter can handle this content
	CanParse(content []byte) bool

	// Schema returns the schema version
	Schema() Schema
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with all adapters.
// Order matters: the legacy adapter recognizes a marker, the current one accepts any object.
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			NewLegacyAdapter(),  // `type` without invoice_type
			NewCurrentAdapter(), // any JSON object, last
		},
	}
}

// Detect identifies the schema version of a record
func (r *Registry) Detect(content []byte) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanParse(content) {
			return a, nil
		}
	}
	return nil, model.NewLoadError(schemaUnknown, "root", "unknown record format, expected a JSON object", nil)
}

// Parse parses a JSON record using the matching adapter
func (r *Registry) Parse(ctx context.Context, content []byte) (*model.Bundle, error) {
	adapter, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return adapter.Parse(ctx, bytes.NewReader(content))
}

// ParseFile reads a .json, .yaml or .yml record from disk
func (r *Registry) ParseFile(ctx context.Context, path string) (*model.Bundle, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return r.ParseYAML(ctx, content)
	default:
		return r.Parse(ctx, content)
	}
}

// RegisterAdapter adds a custom adapter to the registry
func (r *Registry) RegisterAdapter(a Adapter) {
	// Add at the beginning so custom adapters take priority
	r.adapters = append([]Adapter{a}, r.adapters...)
}

// GetAdapter returns adapter for a specific schema
func (r *Registry) GetAdapter(schema Schema) Adapter {
	for _, a := range r.adapters {
		if a.Schema() == schema {
			return a
		}
	}
	return nil
}
