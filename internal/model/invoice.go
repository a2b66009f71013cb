package model

import (
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/fatura/internal/decimal"
)

// DocumentKind distinguishes regular invoices from credit notes
type DocumentKind string

const (
	DocumentKindInvoice    DocumentKind = "invoice"
	DocumentKindCreditNote DocumentKind = "credit_note"
)

// InvoiceType is the ZATCA category of an invoice
type InvoiceType string

const (
	InvoiceTypeStandard   InvoiceType = "standard"   // B2B tax invoice
	InvoiceTypeSimplified InvoiceType = "simplified" // B2C tax invoice
	InvoiceTypeRegular    InvoiceType = "regular"    // not subject to VAT
)

// Values stored in the legacy `type` column before invoice_type/document_kind existed
const (
	LegacyTypeStandardTax   = "standard_tax"
	LegacyTypeSimplifiedTax = "simplified_tax"
	LegacyTypeNonTax        = "non_tax"
	LegacyTypeCreditNote    = "credit_note"
)

// Status is the lifecycle state of an invoice
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
	StatusUnknown   Status = ""
)

// DefaultCurrency is used when a record carries no currency code
const DefaultCurrency = "SAR"

// ParseInvoiceType maps both the current and the legacy vocabulary onto InvoiceType.
// Unrecognized values fall back to InvoiceTypeRegular.
func ParseInvoiceType(raw string) InvoiceType {
	switch normalize(raw) {
	case string(InvoiceTypeStandard), LegacyTypeStandardTax:
		return InvoiceTypeStandard
	case string(InvoiceTypeSimplified), LegacyTypeSimplifiedTax:
		return InvoiceTypeSimplified
	default:
		return InvoiceTypeRegular
	}
}

// ParseDocumentKind maps a stored document kind, or a legacy type value, onto DocumentKind.
// Anything that is not a credit note is an invoice.
func ParseDocumentKind(raw string) DocumentKind {
	switch normalize(raw) {
	case string(DocumentKindCreditNote), "creditnote":
		return DocumentKindCreditNote
	default:
		return DocumentKindInvoice
	}
}

// ParseStatus maps a stored status onto Status, StatusUnknown if unrecognized
func ParseStatus(raw string) Status {
	switch s := Status(normalize(raw)); s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return s
	default:
		return StatusUnknown
	}
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(s, "-", "_")
}

// IsTax returns true for invoice types that carry VAT and a ZATCA QR code
func (t InvoiceType) IsTax() bool {
	return t == InvoiceTypeStandard || t == InvoiceTypeSimplified
}

// Invoice is the resolved invoice header as persisted upstream
type Invoice struct {
	ID            string       `json:"id,omitempty"`
	InvoiceNumber string       `json:"invoice_number"`
	IssueDate     string       `json:"issue_date,omitempty"` // ISO-8601 as stored
	DueDate       string       `json:"due_date,omitempty"`
	Status        Status       `json:"status,omitempty"`
	DocumentKind  DocumentKind `json:"document_kind"`
	InvoiceType   InvoiceType  `json:"invoice_type"`
	Currency      string       `json:"currency,omitempty"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percent, e.g. 15
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	Notes string `json:"notes,omitempty"`

	// Credit notes reference the invoice they reverse
	RelatedInvoiceID     string `json:"related_invoice_id,omitempty"`
	RelatedInvoiceNumber string `json:"related_invoice_number,omitempty"`
}

// IsCreditNote returns true if the document reverses another invoice
func (inv *Invoice) IsCreditNote() bool {
	return inv.DocumentKind == DocumentKindCreditNote
}

// CurrencyCode returns the invoice currency or DefaultCurrency
func (inv *Invoice) CurrencyCode() string {
	if c := strings.TrimSpace(inv.Currency); c != "" {
		return strings.ToUpper(c)
	}
	return DefaultCurrency
}

// InvoiceItem is one line of an invoice
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"` // quantity * unit price, 2 decimals
}

// LineTotal returns the stored total, or quantity * unit price when none was stored
func (it InvoiceItem) LineTotal() decimal.Decimal {
	if !it.Total.IsZero() {
		return it.Total
	}
	return money.LineTotal(it.Quantity, it.UnitPrice)
}

// Client is the buyer as shown in the document header
type Client struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	VATNumber   string `json:"vat_number,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// SellerInfo is derived from the user's settings by the caller
type SellerInfo struct {
	Name      string `json:"name"`
	VATNumber string `json:"vat_number"`
	CRNumber  string `json:"cr_number,omitempty"` // commercial registration
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// IsEmpty returns true if no seller identity was supplied
func (s SellerInfo) IsEmpty() bool {
	return strings.TrimSpace(s.Name) == "" && strings.TrimSpace(s.VATNumber) == ""
}

// Bundle is a fully resolved invoice record: everything a render needs
type Bundle struct {
	Invoice Invoice       `json:"invoice"`
	Items   []InvoiceItem `json:"items"`
	Client  *Client       `json:"client"`
	Seller  SellerInfo    `json:"seller"`
}

// ApplyDefaultSeller fills the seller block when the record carries none
func (b *Bundle) ApplyDefaultSeller(seller SellerInfo) {
	if b.Seller.IsEmpty() {
		b.Seller = seller
	}
}

// ItemsTotal sums the line totals of all items
func (b *Bundle) ItemsTotal() decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(b.Items))
	for _, it := range b.Items {
		totals = append(totals, it.LineTotal())
	}
	return money.Sum(totals)
}
