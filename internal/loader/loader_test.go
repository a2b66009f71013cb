package loader_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/model"
)

func TestRegistry_NewRegistry(t *testing.T) {
	registry := loader.NewRegistry()
	require.NotNil(t, registry)

	for _, s := range []loader.Schema{loader.SchemaCurrent, loader.SchemaLegacy} {
		adapter := registry.GetAdapter(s)
		require.NotNil(t, adapter, "adapter for %s should exist", s)
		assert.Equal(t, s, adapter.Schema())
	}
	assert.Nil(t, registry.GetAdapter("v0"))
}

func TestRegistry_Detect(t *testing.T) {
	registry := loader.NewRegistry()

	tests := []struct {
		name     string
		content  string
		expected loader.Schema
	}{
		{"nested current", `{"invoice":{"invoice_type":"standard","document_kind":"invoice"}}`, loader.SchemaCurrent},
		{"flat current", `{"invoice_number":"1","invoice_type":"regular"}`, loader.SchemaCurrent},
		{"nested legacy", `{"invoice":{"type":"standard_tax"}}`, loader.SchemaLegacy},
		{"flat legacy", `{"invoice_number":"1","type":"non_tax"}`, loader.SchemaLegacy},
		{"both columns prefers current", `{"type":"standard_tax","invoice_type":"simplified"}`, loader.SchemaCurrent},
		{"no type at all", `{"invoice_number":"1"}`, loader.SchemaCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := registry.Detect([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, adapter.Schema())
		})
	}
}

func TestRegistry_Detect_Unknown(t *testing.T) {
	registry := loader.NewRegistry()

	for _, content := range []string{`not json`, `[1,2,3]`, `"invoice"`} {
		_, err := registry.Detect([]byte(content))
		var loadErr *model.LoadError
		require.ErrorAs(t, err, &loadErr, content)
		assert.Equal(t, "unknown", loadErr.Schema)
	}
}

func TestRegistry_ParseFile_Standard(t *testing.T) {
	b, err := loader.NewRegistry().ParseFile(context.Background(), "testdata/standard.json")
	require.NoError(t, err)

	inv := b.Invoice
	assert.Equal(t, "INV-2025-0001", inv.InvoiceNumber)
	assert.Equal(t, "2025-01-01T10:00:00Z", inv.IssueDate)
	assert.Equal(t, model.StatusSent, inv.Status)
	assert.Equal(t, model.InvoiceTypeStandard, inv.InvoiceType)
	assert.Equal(t, model.DocumentKindInvoice, inv.DocumentKind)
	assert.Equal(t, "15000.00", money.Fixed(inv.Subtotal))
	assert.Equal(t, "15", inv.TaxRate.String())
	assert.Equal(t, "2250.00", money.Fixed(inv.TaxAmount))
	assert.Equal(t, "17250.00", money.Fixed(inv.TotalAmount))
	assert.Equal(t, "Payment within 30 days", inv.Notes)

	require.Len(t, b.Items, 2)
	assert.Equal(t, "Consulting", b.Items[0].Description)
	assert.Equal(t, 2, b.Items[0].Quantity)
	assert.Equal(t, "5000.00", money.Fixed(b.Items[1].UnitPrice))

	require.NotNil(t, b.Client)
	assert.Equal(t, "Client Co", b.Client.CompanyName)
	assert.Equal(t, "Riyadh", b.Client.City)

	assert.Equal(t, "شركة تجريبية", b.Seller.Name)
	assert.Equal(t, "310123456700003", b.Seller.VATNumber)
	assert.Equal(t, "1010010000", b.Seller.CRNumber)
}

func TestRegistry_ParseFile_LegacyYAML(t *testing.T) {
	b, err := loader.NewRegistry().ParseFile(context.Background(), "testdata/legacy.yaml")
	require.NoError(t, err)

	inv := b.Invoice
	assert.Equal(t, "INV-OLD-17", inv.InvoiceNumber)
	assert.Equal(t, model.InvoiceTypeSimplified, inv.InvoiceType)
	assert.Equal(t, model.DocumentKindInvoice, inv.DocumentKind)
	assert.Equal(t, model.StatusPaid, inv.Status)

	// subtotal and total are derived when the export omits them
	assert.Equal(t, "1000.00", money.Fixed(inv.Subtotal))
	assert.Equal(t, "150.00", money.Fixed(inv.TaxAmount))
	assert.Equal(t, "1150.00", money.Fixed(inv.TotalAmount))

	require.Len(t, b.Items, 1)
	assert.Equal(t, "1000.00", money.Fixed(b.Items[0].Total))

	assert.Nil(t, b.Client)
	assert.Equal(t, "Bean House", b.Seller.Name)
	assert.Equal(t, "311111111100003", b.Seller.VATNumber)
}

func TestLegacyAdapter_TypeMapping(t *testing.T) {
	tests := []struct {
		legacyType string
		kind       model.DocumentKind
		typ        model.InvoiceType
	}{
		{"standard_tax", model.DocumentKindInvoice, model.InvoiceTypeStandard},
		{"simplified_tax", model.DocumentKindInvoice, model.InvoiceTypeSimplified},
		{"non_tax", model.DocumentKindInvoice, model.InvoiceTypeRegular},
		{"credit_note", model.DocumentKindCreditNote, model.InvoiceTypeRegular},
		{"something_else", model.DocumentKindInvoice, model.InvoiceTypeRegular},
	}

	for _, tt := range tests {
		t.Run(tt.legacyType, func(t *testing.T) {
			content := `{"invoice":{"invoice_number":"1","type":"` + tt.legacyType + `"},"items":[]}`
			b, err := loader.NewLegacyAdapter().Parse(context.Background(), strings.NewReader(content))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, b.Invoice.DocumentKind)
			assert.Equal(t, tt.typ, b.Invoice.InvoiceType)
		})
	}
}

func TestLegacyAdapter_HalfMigratedRow(t *testing.T) {
	content := `{"type":"standard_tax","document_kind":"credit_note","related_invoice_number":"INV-9"}`
	b, err := loader.NewRegistry().Parse(context.Background(), []byte(content))
	require.NoError(t, err)
	assert.Equal(t, model.DocumentKindCreditNote, b.Invoice.DocumentKind)
	assert.Equal(t, model.InvoiceTypeStandard, b.Invoice.InvoiceType)
	assert.Equal(t, "INV-9", b.Invoice.RelatedInvoiceNumber)
}

func TestCurrentAdapter_JoinedExport(t *testing.T) {
	// select *, clients(*), invoice_items(*) from invoices
	content := `{
		"invoice_number": 42,
		"invoice_type": "Simplified",
		"document_kind": "invoice",
		"tax_rate": "15",
		"subtotal": "200",
		"clients": {"name": "Walk-in", "company": "N/A", "tax_number": "399999999900003"},
		"invoice_items": [{"name": "Tea", "quantity": 4, "unit_price": 50}]
	}`

	b, err := loader.NewRegistry().Parse(context.Background(), []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "42", b.Invoice.InvoiceNumber)
	assert.Equal(t, model.InvoiceTypeSimplified, b.Invoice.InvoiceType)
	assert.Equal(t, "30.00", money.Fixed(b.Invoice.TaxAmount), "tax computed from rate")
	assert.Equal(t, "230.00", money.Fixed(b.Invoice.TotalAmount))

	require.NotNil(t, b.Client)
	assert.Equal(t, "Walk-in", b.Client.Name)
	assert.Equal(t, "N/A", b.Client.CompanyName)
	assert.Equal(t, "399999999900003", b.Client.VATNumber)

	require.Len(t, b.Items, 1)
	assert.Equal(t, "Tea", b.Items[0].Description)
	assert.Equal(t, "200.00", money.Fixed(b.Items[0].Total))
}

func TestCurrentAdapter_NullsAreEmpty(t *testing.T) {
	content := `{"invoice":{"invoice_number":"N-1","invoice_type":"regular","document_kind":null,"notes":null,"due_date":null},"client":null,"items":[{"description":"x","quantity":1,"unit_price":null}]}`

	b, err := loader.NewRegistry().Parse(context.Background(), []byte(content))
	require.NoError(t, err)
	assert.Nil(t, b.Client)
	assert.Empty(t, b.Invoice.Notes)
	assert.Empty(t, b.Invoice.DueDate)
	assert.Equal(t, model.DocumentKindInvoice, b.Invoice.DocumentKind)
	assert.True(t, b.Items[0].UnitPrice.IsZero())
	assert.True(t, b.Invoice.TaxAmount.IsZero(), "regular invoices never derive tax")
}

func TestCurrentAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"fractional quantity", `{"items":[{"quantity":1.5,"unit_price":1}]}`, "items.0.quantity"},
		{"bad unit price", `{"items":[{"quantity":1,"unit_price":"ten"}]}`, "items.0.unit_price"},
		{"bad subtotal", `{"subtotal":"abc"}`, "subtotal"},
		{"bad vat amount", `{"vat_amount":"--"}`, "tax_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.NewRegistry().Parse(context.Background(), []byte(tt.content))
			var loadErr *model.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.field, loadErr.Field)
			assert.Equal(t, string(loader.SchemaCurrent), loadErr.Schema)
		})
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.NewRegistry().Parse(ctx, []byte(`{"invoice_number":"1"}`))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseYAML_Invalid(t *testing.T) {
	registry := loader.NewRegistry()

	_, err := registry.ParseYAML(context.Background(), []byte("invoice: [unclosed"))
	require.Error(t, err)

	_, err = registry.ParseYAML(context.Background(), []byte(""))
	require.Error(t, err)
}

func TestYAMLToJSON(t *testing.T) {
	data, err := loader.YAMLToJSON([]byte("invoice_number: INV-1\ntax_rate: 15\nitems:\n  - description: Tea\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice_number":"INV-1","tax_rate":15,"items":[{"description":"Tea"}]}`, string(data))

	_, err = loader.YAMLToJSON([]byte("- just\n- a list\n"))
	var loadErr *model.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := loader.NewRegistry().ParseFile(context.Background(), "testdata/does-not-exist.json")
	require.Error(t, err)
}

type fixedAdapter struct{}

func (fixedAdapter) Schema() loader.Schema        { return "fixed" }
func (fixedAdapter) CanParse(content []byte) bool { return true }
func (fixedAdapter) Parse(ctx context.Context, r io.Reader) (*model.Bundle, error) {
	return &model.Bundle{Invoice: model.Invoice{InvoiceNumber: "FIXED"}}, nil
}

func TestRegistry_RegisterAdapter(t *testing.T) {
	registry := loader.NewRegistry()
	registry.RegisterAdapter(fixedAdapter{})

	b, err := registry.Parse(context.Background(), []byte(`{"type":"standard_tax"}`))
	require.NoError(t, err)
	assert.Equal(t, "FIXED", b.Invoice.InvoiceNumber)
}
