package render

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/model"
)

var (
	titleStandardTax   = Label{AR: "فاتورة ضريبية", EN: "Tax Invoice"}
	titleSimplifiedTax = Label{AR: "فاتورة ضريبية مبسطة", EN: "Simplified Tax Invoice"}
	titleRegular       = Label{AR: "فاتورة", EN: "Invoice"}
	titleCreditNote    = Label{AR: "إشعار دائن", EN: "Credit Note"}

	labelSeller = Label{AR: "البائع", EN: "Seller"}
	labelBuyer  = Label{AR: "المشتري", EN: "Buyer"}

	labelVATNumber = Label{AR: "الرقم الضريبي", EN: "VAT Number"}
	labelCRNumber  = Label{AR: "السجل التجاري", EN: "CR Number"}
	labelAddress   = Label{AR: "العنوان", EN: "Address"}
	labelCompany   = Label{AR: "الشركة", EN: "Company"}
	labelPhone     = Label{AR: "الهاتف", EN: "Phone"}
	labelEmail     = Label{AR: "البريد الإلكتروني", EN: "Email"}

	labelInvoiceNumber    = Label{AR: "رقم الفاتورة", EN: "Invoice No."}
	labelCreditNoteNumber = Label{AR: "رقم الإشعار", EN: "Credit Note No."}
	labelOriginalInvoice  = Label{AR: "الفاتورة الأصلية", EN: "Original Invoice"}
	labelIssueDate        = Label{AR: "تاريخ الإصدار", EN: "Issue Date"}
	labelDueDate          = Label{AR: "تاريخ الاستحقاق", EN: "Due Date"}
	labelStatus           = Label{AR: "الحالة", EN: "Status"}

	labelIndex       = Label{EN: "#"}
	labelDescription = Label{AR: "الوصف", EN: "Description"}
	labelQuantity    = Label{AR: "الكمية", EN: "Qty"}
	labelUnitPrice   = Label{AR: "سعر الوحدة", EN: "Unit Price"}
	labelTaxRate     = Label{AR: "نسبة الضريبة", EN: "VAT Rate"}
	labelTaxAmount   = Label{AR: "مبلغ الضريبة", EN: "VAT Amount"}
	labelLineTotal   = Label{AR: "المجموع", EN: "Total"}

	labelTotalInclVAT = Label{AR: "المجموع شامل الضريبة", EN: "Total incl. VAT"}

	labelSubtotal    = Label{AR: "المجموع الفرعي", EN: "Subtotal"}
	labelGrandTotal  = Label{AR: "الإجمالي", EN: "Total"}
	labelCreditTotal = Label{AR: "إجمالي المبلغ المسترد", EN: "Total Credit"}
	labelNotes       = Label{AR: "ملاحظات", EN: "Notes"}

	footerThanks = Label{AR: "شكراً لتعاملكم معنا", EN: "Thank you for your business"}
)

var statusLabels = map[model.Status]Label{
	model.StatusDraft:     {AR: "مسودة", EN: "Draft"},
	model.StatusSent:      {AR: "مرسلة", EN: "Sent"},
	model.StatusPaid:      {AR: "مدفوعة", EN: "Paid"},
	model.StatusOverdue:   {AR: "متأخرة", EN: "Overdue"},
	model.StatusCancelled: {AR: "ملغاة", EN: "Cancelled"},
}

func statusField(s model.Status) Field {
	l, ok := statusLabels[s]
	if !ok {
		return Field{Label: labelStatus, Value: format.Placeholder}
	}
	return Field{Label: labelStatus, Value: l.EN, ValueLabel: &l}
}

func taxLabel(rate decimal.Decimal) Label {
	pct := format.Percent(rate)
	return Label{
		AR: "ضريبة القيمة المضافة (" + pct + ")",
		EN: "VAT (" + pct + ")",
	}
}
