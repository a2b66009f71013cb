// Package render lays out invoices as backend-independent documents.
//
// Four templates exist: standard tax invoice, simplified tax invoice, regular
// (non-tax) invoice and credit note. Templates are pure; every text value goes
// through the format package so missing data renders as a placeholder.
package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/model"
)

// TemplateName identifies a template
type TemplateName string

const (
	TemplateStandardTax   TemplateName = "standard_tax"
	TemplateSimplifiedTax TemplateName = "simplified_tax"
	TemplateRegular       TemplateName = "regular"
	TemplateCreditNote    TemplateName = "credit_note"
)

// Input is everything a template needs. Client and QR may be nil.
type Input struct {
	Invoice model.Invoice
	Client  *model.Client
	Items   []model.InvoiceItem
	Seller  model.SellerInfo
	QR      []byte
}

// InputFromBundle builds an Input from a resolved record
func InputFromBundle(b *model.Bundle, qr []byte) Input {
	return Input{
		Invoice: b.Invoice,
		Client:  b.Client,
		Items:   b.Items,
		Seller:  b.Seller,
		QR:      qr,
	}
}

// Template renders one kind of document
type Template interface {
	Name() TemplateName
	// RequiresQR returns true if the document carries a ZATCA QR code
	RequiresQR() bool
	Render(in Input) *Document
}

// builder holds the parts shared by all templates
type builder struct {
	in       Input
	currency string
}

func newBuilder(in Input) builder {
	return builder{in: in, currency: in.Invoice.CurrencyCode()}
}

func (b builder) document(name TemplateName, title Label) *Document {
	return &Document{
		Template:  name,
		Direction: RTL,
		Title:     title,
		Author:    format.SafeText(b.in.Seller.Name),
		Currency:  b.currency,
	}
}

func (b builder) sellerBlock() PartyBlock {
	s := b.in.Seller
	block := PartyBlock{
		Title: labelSeller,
		Name:  format.SafeText(s.Name),
		Fields: []Field{
			{Label: labelVATNumber, Value: format.SafeText(s.VATNumber), LTR: true},
			{Label: labelCRNumber, Value: format.SafeText(s.CRNumber), LTR: true},
			{Label: labelAddress, Value: format.Join(", ", s.Address, s.City, s.Country)},
		},
	}
	if strings.TrimSpace(s.Phone) != "" {
		block.Fields = append(block.Fields, Field{Label: labelPhone, Value: format.SafeText(s.Phone), LTR: true})
	}
	if strings.TrimSpace(s.Email) != "" {
		block.Fields = append(block.Fields, Field{Label: labelEmail, Value: format.SafeText(s.Email), LTR: true})
	}
	return block
}

// buyerBlock renders placeholders when the invoice has no client yet
func (b builder) buyerBlock(withVAT bool) PartyBlock {
	c := b.in.Client
	if c == nil {
		c = &model.Client{}
	}

	name := c.Name
	if strings.TrimSpace(name) == "" {
		name = c.CompanyName
	}

	block := PartyBlock{
		Title: labelBuyer,
		Name:  format.SafeText(name),
		Fields: []Field{
			{Label: labelCompany, Value: format.SafeText(c.CompanyName)},
		},
	}
	if withVAT {
		block.Fields = append(block.Fields, Field{Label: labelVATNumber, Value: format.SafeText(c.VATNumber), LTR: true})
	}
	block.Fields = append(block.Fields, Field{Label: labelAddress, Value: format.Join(", ", c.Address, c.City, c.Country)})
	return block
}

// meta returns number, issue date, due date and status
func (b builder) meta(number Label, withTime bool) []Field {
	inv := b.in.Invoice

	issued := format.Date(inv.IssueDate)
	if withTime {
		issued = format.DateTime(inv.IssueDate)
	}

	return []Field{
		{Label: number, Value: format.SafeText(inv.InvoiceNumber), LTR: true},
		{Label: labelIssueDate, Value: issued, LTR: true},
		{Label: labelDueDate, Value: format.Date(inv.DueDate), LTR: true},
		statusField(inv.Status),
	}
}

// condensedColumns is the column set without per-line tax
func condensedColumns() []Column {
	return []Column{
		{Key: ColIndex, Label: labelIndex, Width: 1, Numeric: true},
		{Key: ColDescription, Label: labelDescription, Width: 5},
		{Key: ColQuantity, Label: labelQuantity, Width: 1, Numeric: true},
		{Key: ColUnitPrice, Label: labelUnitPrice, Width: 2, Numeric: true},
		{Key: ColTotal, Label: labelLineTotal, Width: 3, Numeric: true},
	}
}

// table fills one row per item; cell formats the value of every column except index
func (b builder) table(cols []Column, cell func(it model.InvoiceItem, key string) string) Table {
	t := Table{Columns: cols, Rows: make([]Row, 0, len(b.in.Items))}
	for i, it := range b.in.Items {
		cells := make([]string, len(cols))
		for j, c := range cols {
			if c.Key == ColIndex {
				cells[j] = strconv.Itoa(i + 1)
				continue
			}
			cells[j] = cell(it, c.Key)
		}
		t.Rows = append(t.Rows, Row{Cells: cells, Shaded: i%2 == 1})
	}
	return t
}

// condensedCell formats the shared columns of a line item
func condensedCell(it model.InvoiceItem, key string) string {
	switch key {
	case ColDescription:
		return format.SafeText(it.Description)
	case ColQuantity:
		return strconv.Itoa(it.Quantity)
	case ColUnitPrice:
		return format.Amount(it.UnitPrice)
	case ColTotal:
		return format.Amount(it.LineTotal())
	default:
		return format.Placeholder
	}
}

func (b builder) subtotalLine() TotalLine {
	return TotalLine{Key: TotalSubtotal, Label: labelSubtotal, Value: format.Money(b.in.Invoice.Subtotal, b.currency)}
}

func (b builder) taxLine() TotalLine {
	inv := b.in.Invoice
	return TotalLine{Key: TotalTax, Label: taxLabel(inv.TaxRate), Value: format.Money(inv.TaxAmount, b.currency)}
}

func (b builder) grandTotalLine(label Label) TotalLine {
	return TotalLine{Key: TotalGrand, Label: label, Value: format.Money(b.in.Invoice.TotalAmount, b.currency), Emphasis: true}
}

// notes is nil unless the invoice carries non-blank notes
func (b builder) notes() *Notes {
	text := strings.TrimSpace(b.in.Invoice.Notes)
	if text == "" {
		return nil
	}
	return &Notes{Title: labelNotes, Text: text}
}

func lineTax(it model.InvoiceItem, rate decimal.Decimal) (tax, gross decimal.Decimal) {
	net := it.LineTotal()
	tax = money.CalculateVAT(net, rate)
	return tax, net.Add(tax)
}
