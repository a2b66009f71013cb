package loader

import (
	"context"
	"io"

	"github.com/tidwall/gjson"

	"github.com/rezonia/fatura/internal/model"
)

// CurrentAdapter parses records with invoice_type and document_kind columns
type CurrentAdapter struct{}

// NewCurrentAdapter creates a new current-schema adapter
func NewCurrentAdapter() *CurrentAdapter {
	return &CurrentAdapter{}
}

// Schema returns the schema version
func (a *CurrentAdapter) Schema() Schema {
	return SchemaCurrent
}

// CanParse accepts any JSON object; it is the fallback adapter
func (a *CurrentAdapter) CanParse(content []byte) bool {
	return gjson.ValidBytes(content) && gjson.ParseBytes(content).IsObject()
}

// Parse parses a current-schema record into a Bundle
func (a *CurrentAdapter) Parse(ctx context.Context, r io.Reader) (*model.Bundle, error) {
	rec, err := readRecord(ctx, SchemaCurrent, r)
	if err != nil {
		return nil, err
	}

	b, err := rec.bundle()
	if err != nil {
		return nil, err
	}

	b.Invoice.InvoiceType = model.ParseInvoiceType(text(rec.inv.Get("invoice_type")))
	b.Invoice.DocumentKind = model.ParseDocumentKind(text(rec.inv.Get("document_kind")))

	if err := rec.amounts(b); err != nil {
		return nil, err
	}
	return b, nil
}
