package render

import (
	"github.com/rezonia/fatura/internal/model"
)

var templates = map[TemplateName]Template{
	TemplateStandardTax:   standardTax{},
	TemplateSimplifiedTax: simplifiedTax{},
	TemplateRegular:       regular{},
	TemplateCreditNote:    creditNote{},
}

// Select maps a document kind and invoice type onto a template.
// Both the current and the legacy vocabulary are accepted; a credit note
// always wins and anything unrecognized gets the regular template.
func Select(documentKind, invoiceType string) Template {
	if model.ParseDocumentKind(documentKind) == model.DocumentKindCreditNote ||
		model.ParseDocumentKind(invoiceType) == model.DocumentKindCreditNote {
		return templates[TemplateCreditNote]
	}

	switch model.ParseInvoiceType(invoiceType) {
	case model.InvoiceTypeStandard:
		return templates[TemplateStandardTax]
	case model.InvoiceTypeSimplified:
		return templates[TemplateSimplifiedTax]
	default:
		return templates[TemplateRegular]
	}
}

// SelectFor selects the template of a normalized invoice
func SelectFor(inv *model.Invoice) Template {
	return Select(string(inv.DocumentKind), string(inv.InvoiceType))
}

// ByName returns the template with name
func ByName(name TemplateName) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// Names lists all templates in a stable order
func Names() []TemplateName {
	return []TemplateName{TemplateStandardTax, TemplateSimplifiedTax, TemplateRegular, TemplateCreditNote}
}
