package render

var footerRegular = Label{
	AR: "هذه الفاتورة غير خاضعة لضريبة القيمة المضافة",
	EN: "This invoice is not subject to VAT",
}

// regular is the non-tax invoice: no QR and no tax line
type regular struct{}

func (regular) Name() TemplateName { return TemplateRegular }

func (regular) RequiresQR() bool { return false }

func (regular) Render(in Input) *Document {
	b := newBuilder(in)
	doc := b.document(TemplateRegular, titleRegular)

	doc.Header = Header{Seller: b.sellerBlock(), Buyer: b.buyerBlock(false)}
	doc.Meta = b.meta(labelInvoiceNumber, false)
	doc.Table = b.table(condensedColumns(), condensedCell)
	doc.Totals = []TotalLine{b.subtotalLine(), b.grandTotalLine(labelGrandTotal)}
	doc.Notes = b.notes()
	doc.Footer = []Label{footerRegular, footerThanks}
	return doc
}
