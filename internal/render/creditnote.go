package render

import (
	"slices"
	"strings"

	"github.com/rezonia/fatura/internal/format"
)

var footerCreditNote = Label{
	AR: "يلغي هذا الإشعار المبالغ المذكورة من الفاتورة الأصلية",
	EN: "This credit note reverses the amounts listed from the original invoice",
}

// creditNote reverses a previously issued invoice and names it in the metadata
type creditNote struct{}

func (creditNote) Name() TemplateName { return TemplateCreditNote }

func (creditNote) RequiresQR() bool { return false }

func (creditNote) Render(in Input) *Document {
	b := newBuilder(in)
	doc := b.document(TemplateCreditNote, titleCreditNote)

	doc.Header = Header{Seller: b.sellerBlock(), Buyer: b.buyerBlock(true)}

	ref := Field{Label: labelOriginalInvoice, Value: originalInvoice(in), LTR: true}
	doc.Meta = slices.Insert(b.meta(labelCreditNoteNumber, false), 1, ref)

	doc.Table = b.table(condensedColumns(), condensedCell)

	doc.Totals = []TotalLine{b.subtotalLine()}
	if !in.Invoice.TaxAmount.IsZero() {
		doc.Totals = append(doc.Totals, b.taxLine())
	}
	doc.Totals = append(doc.Totals, b.grandTotalLine(labelCreditTotal))

	doc.Notes = b.notes()
	doc.Footer = []Label{footerCreditNote, footerThanks}
	return doc
}

// originalInvoice prefers the human-readable number over the identifier
func originalInvoice(in Input) string {
	if n := strings.TrimSpace(in.Invoice.RelatedInvoiceNumber); n != "" {
		return n
	}
	return format.SafeText(in.Invoice.RelatedInvoiceID)
}
