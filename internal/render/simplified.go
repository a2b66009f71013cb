package render

var footerSimplifiedTax = Label{
	AR: "فاتورة ضريبية مبسطة، امسح الرمز للتحقق",
	EN: "Simplified tax invoice, scan the QR code to verify",
}

// simplifiedTax is the B2C tax invoice: condensed columns, buyer details optional
type simplifiedTax struct{}

func (simplifiedTax) Name() TemplateName { return TemplateSimplifiedTax }

func (simplifiedTax) RequiresQR() bool { return true }

func (simplifiedTax) Render(in Input) *Document {
	b := newBuilder(in)
	doc := b.document(TemplateSimplifiedTax, titleSimplifiedTax)

	doc.Header = Header{Seller: b.sellerBlock(), Buyer: b.buyerBlock(false), QR: in.QR}
	doc.Meta = b.meta(labelInvoiceNumber, true)
	doc.Table = b.table(condensedColumns(), condensedCell)
	doc.Totals = []TotalLine{b.subtotalLine(), b.taxLine(), b.grandTotalLine(labelGrandTotal)}
	doc.Notes = b.notes()
	doc.Footer = []Label{footerSimplifiedTax, footerThanks}
	return doc
}
