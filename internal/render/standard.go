package render

import (
	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/model"
)

var footerStandardTax = Label{
	AR: "صدرت هذه الفاتورة الضريبية وفق لائحة الفوترة الإلكترونية لهيئة الزكاة والضريبة والجمارك",
	EN: "Tax invoice issued under the ZATCA e-invoicing regulation",
}

// standardTax is the B2B tax invoice: buyer VAT number and per-line tax columns
type standardTax struct{}

func (standardTax) Name() TemplateName { return TemplateStandardTax }

func (standardTax) RequiresQR() bool { return true }

func (standardTax) Render(in Input) *Document {
	b := newBuilder(in)
	doc := b.document(TemplateStandardTax, titleStandardTax)

	doc.Header = Header{Seller: b.sellerBlock(), Buyer: b.buyerBlock(true), QR: in.QR}
	doc.Meta = b.meta(labelInvoiceNumber, true)

	rate := in.Invoice.TaxRate
	cols := []Column{
		{Key: ColIndex, Label: labelIndex, Width: 1, Numeric: true},
		{Key: ColDescription, Label: labelDescription, Width: 3},
		{Key: ColQuantity, Label: labelQuantity, Width: 1, Numeric: true},
		{Key: ColUnitPrice, Label: labelUnitPrice, Width: 2, Numeric: true},
		{Key: ColTaxRate, Label: labelTaxRate, Width: 1, Numeric: true},
		{Key: ColTaxAmount, Label: labelTaxAmount, Width: 2, Numeric: true},
		{Key: ColTotal, Label: labelTotalInclVAT, Width: 2, Numeric: true},
	}
	doc.Table = b.table(cols, func(it model.InvoiceItem, key string) string {
		switch key {
		case ColTaxRate:
			return format.Percent(rate)
		case ColTaxAmount:
			tax, _ := lineTax(it, rate)
			return format.Amount(tax)
		case ColTotal:
			_, gross := lineTax(it, rate)
			return format.Amount(gross)
		default:
			return condensedCell(it, key)
		}
	})

	doc.Totals = []TotalLine{b.subtotalLine(), b.taxLine(), b.grandTotalLine(labelGrandTotal)}
	doc.Notes = b.notes()
	doc.Footer = []Label{footerStandardTax, footerThanks}
	return doc
}
