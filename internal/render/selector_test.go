package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/render"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		typ      string
		expected render.TemplateName
	}{
		{"standard", "invoice", "standard", render.TemplateStandardTax},
		{"legacy standard", "invoice", "standard_tax", render.TemplateStandardTax},
		{"simplified", "invoice", "simplified", render.TemplateSimplifiedTax},
		{"legacy simplified", "", "simplified_tax", render.TemplateSimplifiedTax},
		{"regular", "invoice", "regular", render.TemplateRegular},
		{"legacy non tax", "invoice", "non_tax", render.TemplateRegular},
		{"unrecognized", "invoice", "unrecognized_value", render.TemplateRegular},
		{"empty", "", "", render.TemplateRegular},
		{"mixed case", "Invoice", " STANDARD ", render.TemplateStandardTax},
		{"legacy credit note type", "", "credit_note", render.TemplateCreditNote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render.Select(tt.kind, tt.typ).Name())
		})
	}
}

func TestSelect_CreditNoteWins(t *testing.T) {
	for _, typ := range []string{"standard", "standard_tax", "simplified", "simplified_tax", "regular", "non_tax", "", "garbage"} {
		tmpl := render.Select("credit_note", typ)
		assert.Equal(t, render.TemplateCreditNote, tmpl.Name(), typ)
		assert.False(t, tmpl.RequiresQR())
	}
}

func TestSelect_LegacyAliasEquivalence(t *testing.T) {
	assert.Equal(t, render.Select("invoice", "standard"), render.Select("invoice", "standard_tax"))
	assert.Equal(t, render.Select("invoice", "simplified"), render.Select("invoice", "simplified_tax"))
	assert.Equal(t, render.Select("invoice", "regular"), render.Select("invoice", "non_tax"))
}

func TestSelect_RequiresQR(t *testing.T) {
	assert.True(t, render.Select("invoice", "standard").RequiresQR())
	assert.True(t, render.Select("invoice", "simplified").RequiresQR())
	assert.False(t, render.Select("invoice", "regular").RequiresQR())
}

func TestSelectFor(t *testing.T) {
	inv := &model.Invoice{DocumentKind: model.DocumentKindInvoice, InvoiceType: model.InvoiceTypeSimplified}
	assert.Equal(t, render.TemplateSimplifiedTax, render.SelectFor(inv).Name())
}

func TestByName(t *testing.T) {
	for _, name := range render.Names() {
		tmpl, ok := render.ByName(name)
		assert.True(t, ok)
		assert.Equal(t, name, tmpl.Name())
	}

	_, ok := render.ByName("proforma")
	assert.False(t, ok)
}
