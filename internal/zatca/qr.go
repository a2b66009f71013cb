package zatca

import (
	"encoding/base64"
	"strings"
	"time"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/model"
)

// Fields are the five values carried by a phase-1 ZATCA QR code
type Fields struct {
	SellerName   string `json:"seller_name"`
	VATNumber    string `json:"vat_number"`
	Timestamp    string `json:"timestamp"`
	InvoiceTotal string `json:"invoice_total"`
	VATTotal     string `json:"vat_total"`
}

// Records returns the fields as TLV records in tag order
func (f Fields) Records() []Record {
	return []Record{
		{Tag: TagSellerName, Value: f.SellerName},
		{Tag: TagVATNumber, Value: f.VATNumber},
		{Tag: TagTimestamp, Value: f.Timestamp},
		{Tag: TagInvoiceTotal, Value: f.InvoiceTotal},
		{Tag: TagVATTotal, Value: f.VATTotal},
	}
}

// Encode returns the standard Base64 encoding of the five TLV records.
// A nil error always comes with a non-empty payload.
func (f Fields) Encode() (string, error) {
	if strings.TrimSpace(f.SellerName) == "" {
		return "", ErrMissingField(TagSellerName, "seller name")
	}

	raw, err := EncodeRecords(f.Records())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// BuildTLVBase64 encodes the five QR fields in tag order 1 to 5
func BuildTLVBase64(sellerName, vatNumber, timestamp, invoiceTotal, vatTotal string) (string, error) {
	return Fields{
		SellerName:   sellerName,
		VATNumber:    vatNumber,
		Timestamp:    timestamp,
		InvoiceTotal: invoiceTotal,
		VATTotal:     vatTotal,
	}.Encode()
}

// ParseTLVBase64 decodes a QR payload back into its five fields.
// The payload must hold exactly tags 1 to 5, in order.
func ParseTLVBase64(payload string) (Fields, error) {
	records, err := DecodeBase64(payload)
	if err != nil {
		return Fields{}, err
	}

	values := make([]string, 0, 5)
	for i, r := range records {
		want := byte(i + 1)
		if i >= 5 || r.Tag != want {
			return Fields{}, ErrUnexpectedTag(r.Tag, want)
		}
		values = append(values, r.Value)
	}
	if len(values) < 5 {
		missing := byte(len(values) + 1)
		return Fields{}, ErrMissingField(missing, "record")
	}

	return Fields{
		SellerName:   values[0],
		VATNumber:    values[1],
		Timestamp:    values[2],
		InvoiceTotal: values[3],
		VATTotal:     values[4],
	}, nil
}

// DecodeBase64 decodes a Base64 payload into its raw TLV records without
// checking which tags are present
func DecodeBase64(payload string) ([]Record, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, ErrInvalidBase64(err)
	}
	return Decode(raw)
}

// FieldsFromInvoice derives the QR fields from a seller and an invoice.
// The timestamp is the issue date in UTC; an unparsable date is passed through.
func FieldsFromInvoice(seller model.SellerInfo, inv *model.Invoice) Fields {
	timestamp := strings.TrimSpace(inv.IssueDate)
	if t, ok := format.ParseTime(timestamp); ok {
		timestamp = t.UTC().Format(time.RFC3339)
	}

	return Fields{
		SellerName:   strings.TrimSpace(seller.Name),
		VATNumber:    strings.TrimSpace(seller.VATNumber),
		Timestamp:    timestamp,
		InvoiceTotal: money.Fixed(inv.TotalAmount),
		VATTotal:     money.Fixed(inv.TaxAmount),
	}
}

// RequiresQR returns true for tax invoices; credit notes never carry a QR
func RequiresQR(documentKind, invoiceType string) bool {
	if model.ParseDocumentKind(documentKind) == model.DocumentKindCreditNote {
		return false
	}
	return model.ParseInvoiceType(invoiceType).IsTax()
}
