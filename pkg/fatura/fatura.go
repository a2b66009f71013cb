// Package fatura provides a public API for rendering Saudi invoices as PDF.
//
// Records are loaded from JSON or YAML exports (current or legacy schema),
// validated, matched to one of four templates and rendered with a ZATCA
// phase-1 QR code where the invoice type requires one.
//
// Example usage:
//
//	gen, err := fatura.NewGenerator(fatura.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := gen.RenderFile(ctx, "invoice.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.pdf", res.PDF, 0o644)
package fatura

import (
	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/zatca"
)

// Re-export core types for public API
type (
	Bundle       = model.Bundle
	Invoice      = model.Invoice
	InvoiceItem  = model.InvoiceItem
	Client       = model.Client
	SellerInfo   = model.SellerInfo
	InvoiceType  = model.InvoiceType
	DocumentKind = model.DocumentKind
	Status       = model.Status
	TemplateName = render.TemplateName
	QRFields     = zatca.Fields
)

// Re-export invoice types
const (
	InvoiceTypeStandard   = model.InvoiceTypeStandard
	InvoiceTypeSimplified = model.InvoiceTypeSimplified
	InvoiceTypeRegular    = model.InvoiceTypeRegular
)

// Re-export document kinds
const (
	DocumentKindInvoice    = model.DocumentKindInvoice
	DocumentKindCreditNote = model.DocumentKindCreditNote
)

// Re-export template names
const (
	TemplateStandardTax   = render.TemplateStandardTax
	TemplateSimplifiedTax = render.TemplateSimplifiedTax
	TemplateRegular       = render.TemplateRegular
	TemplateCreditNote    = render.TemplateCreditNote
)

// Re-export error types
type (
	LoadError       = model.LoadError
	ValidationError = model.ValidationError
	EncodingError   = zatca.EncodingError
)

// EncodeQR returns the Base64 TLV payload for the five QR fields
func EncodeQR(f QRFields) (string, error) {
	return f.Encode()
}

// DecodeQR parses a payload produced by EncodeQR
func DecodeQR(payload string) (QRFields, error) {
	return zatca.ParseTLVBase64(payload)
}

// TemplateFor returns the template an invoice will be rendered with
func TemplateFor(inv *Invoice) TemplateName {
	return render.SelectFor(inv).Name()
}
