// Package validation checks the preconditions a bundle must meet before it is
// rendered. Hard failures become errors; data-quality issues become warnings.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/zatca"
)

// Rule names reported in model.ValidationError
const (
	RuleRequired      = "required"
	RuleMaxBytes      = "max_bytes"
	RulePositive      = "positive"
	RuleNonNegative   = "non_negative"
	RuleVATFormat     = "vat_format"
	RuleReconcile     = "reconcile"
	RuleRegularNoTax  = "regular_no_tax"
	RuleDateFormat    = "date_format"
	RuleCreditNoteRef = "credit_note_reference"
)

// ZATCA VAT registration numbers are 15 digits starting and ending with 3
var vatNumberPattern = regexp.MustCompile(`^3\d{13}3$`)

// Report collects the outcome of Validate
type Report struct {
	Errors   []*model.ValidationError `json:"errors"`
	Warnings []string                 `json:"warnings"`
}

// Valid returns true when no error was found
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins all errors, or returns nil
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Option configures Validate
type Option func(*options)

type options struct {
	strict bool
}

// Strict reports data-quality issues as errors instead of warnings
func Strict() Option {
	return func(o *options) {
		o.strict = true
	}
}

type checker struct {
	opts   options
	report *Report
}

func (c *checker) fail(field string, value interface{}, rule, message string) {
	c.report.Errors = append(c.report.Errors, model.NewValidationError(field, value, rule, message))
}

func (c *checker) warn(field string, value interface{}, rule, message string) {
	if c.opts.strict {
		c.fail(field, value, rule, message)
		return
	}
	c.report.Warnings = append(c.report.Warnings, fmt.Sprintf("%s: %s", field, message))
}

// Validate checks a bundle. It never modifies it.
func Validate(b *model.Bundle, opts ...Option) *Report {
	c := &checker{report: &Report{}}
	for _, opt := range opts {
		opt(&c.opts)
	}

	if b == nil {
		c.fail("invoice", nil, RuleRequired, "record is empty")
		return c.report
	}

	inv := &b.Invoice

	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		c.fail("invoice_number", nil, RuleRequired, "invoice number is required")
	}
	if len(b.Items) == 0 {
		c.fail("items", nil, RuleRequired, "at least one line item is required")
	}

	if zatca.RequiresQR(string(inv.DocumentKind), string(inv.InvoiceType)) {
		checkSeller(c, b.Seller)
	}

	checkItems(c, b.Items)
	checkTotals(c, b)

	if inv.IssueDate != "" {
		if _, ok := format.ParseTime(inv.IssueDate); !ok {
			c.warn("issue_date", inv.IssueDate, RuleDateFormat, "issue date is not an ISO-8601 timestamp")
		}
	}

	if inv.IsCreditNote() && inv.RelatedInvoiceNumber == "" && inv.RelatedInvoiceID == "" {
		c.warn("related_invoice_number", nil, RuleCreditNoteRef, "credit note does not reference the invoice it reverses")
	}

	return c.report
}

// checkSeller enforces what the QR payload needs from the seller
func checkSeller(c *checker, s model.SellerInfo) {
	name := strings.TrimSpace(s.Name)
	switch {
	case name == "":
		c.fail("seller.name", nil, RuleRequired, "seller name is required for tax invoices")
	case len(name) > zatca.MaxValueLength:
		c.fail("seller.name", len(name), RuleMaxBytes,
			fmt.Sprintf("seller name must be at most %d bytes in UTF-8", zatca.MaxValueLength))
	}

	vat := strings.TrimSpace(s.VATNumber)
	switch {
	case len(vat) > zatca.MaxValueLength:
		c.fail("seller.vat_number", len(vat), RuleMaxBytes,
			fmt.Sprintf("seller VAT number must be at most %d bytes", zatca.MaxValueLength))
	case !vatNumberPattern.MatchString(vat):
		c.warn("seller.vat_number", vat, RuleVATFormat, "VAT number should be 15 digits starting and ending with 3")
	}
}

func checkItems(c *checker, items []model.InvoiceItem) {
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Quantity <= 0 {
			c.warn(field+".quantity", it.Quantity, RulePositive, "quantity should be positive")
		}
		if !money.IsNonNegative(it.UnitPrice) {
			c.warn(field+".unit_price", it.UnitPrice.String(), RuleNonNegative, "unit price should not be negative")
		}
	}
}

// checkTotals only warns: reconciliation is owned by the upstream store
func checkTotals(c *checker, b *model.Bundle) {
	inv := &b.Invoice

	if len(b.Items) > 0 {
		if items := b.ItemsTotal(); !money.Round(items).Equal(money.Round(inv.Subtotal)) {
			c.warn("subtotal", money.Fixed(inv.Subtotal), RuleReconcile,
				fmt.Sprintf("subtotal does not match sum of line totals %s", money.Fixed(items)))
		}
	}

	if sum := inv.Subtotal.Add(inv.TaxAmount); !money.Round(sum).Equal(money.Round(inv.TotalAmount)) {
		c.warn("total_amount", money.Fixed(inv.TotalAmount), RuleReconcile,
			fmt.Sprintf("total does not equal subtotal plus tax %s", money.Fixed(sum)))
	}

	if !inv.IsCreditNote() && !inv.InvoiceType.IsTax() && !inv.TaxAmount.IsZero() {
		c.warn("tax_amount", money.Fixed(inv.TaxAmount), RuleRegularNoTax, "regular invoice carries a tax amount that will not be shown")
	}
}
