package loader

import (
	"context"
	"io"

	"github.com/tidwall/gjson"

	"github.com/rezonia/fatura/internal/model"
)

// LegacyAdapter parses records written before invoice_type and document_kind
// existed. Their single `type` column holds one of standard_tax,
// simplified_tax, non_tax or credit_note.
type LegacyAdapter struct{}

// NewLegacyAdapter creates a new legacy-schema adapter
func NewLegacyAdapter() *LegacyAdapter {
	return &LegacyAdapter{}
}

// Schema returns the schema version
func (a *LegacyAdapter) Schema() Schema {
	return SchemaLegacy
}

// CanParse returns true for records with `type` and no invoice_type
func (a *LegacyAdapter) CanParse(content []byte) bool {
	if !gjson.ValidBytes(content) {
		return false
	}
	inv := invoiceObject(gjson.ParseBytes(content))
	return inv.IsObject() &&
		inv.Get("type").Type == gjson.String &&
		!inv.Get("invoice_type").Exists()
}

// Parse parses a legacy record into a Bundle
func (a *LegacyAdapter) Parse(ctx context.Context, r io.Reader) (*model.Bundle, error) {
	rec, err := readRecord(ctx, SchemaLegacy, r)
	if err != nil {
		return nil, err
	}

	b, err := rec.bundle()
	if err != nil {
		return nil, err
	}

	legacyType := text(rec.inv.Get("type"))
	b.Invoice.InvoiceType = model.ParseInvoiceType(legacyType)

	// Some rows were half-migrated and already carry document_kind
	kind := text(rec.inv.Get("document_kind"))
	if kind == "" {
		kind = legacyType
	}
	b.Invoice.DocumentKind = model.ParseDocumentKind(kind)

	if err := rec.amounts(b); err != nil {
		return nil, err
	}
	return b, nil
}
