package loader

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/model"
)

// Key aliases seen across exports of the upstream tables
var (
	itemsPaths  = []string{"items", "invoice.items", "invoice_items", "invoice.invoice_items"}
	clientPaths = []string{"client", "invoice.client", "clients", "invoice.clients"}
	sellerPaths = []string{"seller", "settings", "invoice.seller"}

	sellerNameKeys = []string{"name", "seller_name", "company_name", "business_name"}
	sellerVATKeys  = []string{"vat_number", "tax_number", "vat"}
	sellerCRKeys   = []string{"cr_number", "commercial_registration", "cr"}
	clientVATKeys  = []string{"vat_number", "tax_number"}
)

// record wraps a parsed JSON document and the object holding invoice columns
type record struct {
	schema Schema
	root   gjson.Result
	inv    gjson.Result
}

func readRecord(ctx context.Context, schema Schema, r io.Reader) (*record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewLoadError(string(schema), "root", "failed to read record", err)
	}
	if !gjson.ValidBytes(content) {
		return nil, model.NewLoadError(string(schema), "root", "invalid JSON", nil)
	}

	root := gjson.ParseBytes(content)
	if !root.IsObject() {
		return nil, model.NewLoadError(string(schema), "root", "record must be a JSON object", nil)
	}
	return &record{schema: schema, root: root, inv: invoiceObject(root)}, nil
}

// invoiceObject returns the nested invoice object, or the root for flat exports
func invoiceObject(root gjson.Result) gjson.Result {
	if inv := root.Get("invoice"); inv.IsObject() {
		return inv
	}
	return root
}

// bundle extracts everything except the type columns, which differ per schema
func (rec *record) bundle() (*model.Bundle, error) {
	inv := model.Invoice{
		ID:                   text(rec.inv.Get("id")),
		InvoiceNumber:        text(rec.inv.Get("invoice_number")),
		IssueDate:            text(first(rec.inv, "issue_date", "created_at")),
		DueDate:              text(rec.inv.Get("due_date")),
		Status:               model.ParseStatus(text(rec.inv.Get("status"))),
		Currency:             text(rec.inv.Get("currency")),
		Notes:                rec.inv.Get("notes").String(),
		RelatedInvoiceID:     text(first(rec.inv, "related_invoice_id", "original_invoice_id")),
		RelatedInvoiceNumber: text(first(rec.inv, "related_invoice_number", "original_invoice_number")),
	}

	var err error
	if inv.TaxRate, err = rec.decimal(rec.inv.Get("tax_rate"), "tax_rate"); err != nil {
		return nil, err
	}

	items, err := rec.items()
	if err != nil {
		return nil, err
	}

	b := &model.Bundle{
		Invoice: inv,
		Items:   items,
		Client:  rec.client(),
		Seller:  rec.seller(),
	}
	return b, nil
}

// amounts fills subtotal, tax and total, computing the ones the record omits.
// Call after the invoice type is known.
func (rec *record) amounts(b *model.Bundle) error {
	inv := &b.Invoice

	subtotal := rec.inv.Get("subtotal")
	tax := first(rec.inv, "tax_amount", "vat_amount")
	total := rec.inv.Get("total_amount")

	var err error
	if present(subtotal) {
		if inv.Subtotal, err = rec.decimal(subtotal, "subtotal"); err != nil {
			return err
		}
	} else {
		inv.Subtotal = b.ItemsTotal()
	}

	switch {
	case present(tax):
		if inv.TaxAmount, err = rec.decimal(tax, "tax_amount"); err != nil {
			return err
		}
	case inv.InvoiceType.IsTax():
		inv.TaxAmount = money.CalculateVAT(inv.Subtotal, inv.TaxRate)
	default:
		inv.TaxAmount = money.Zero
	}

	if present(total) {
		if inv.TotalAmount, err = rec.decimal(total, "total_amount"); err != nil {
			return err
		}
	} else {
		inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount)
	}
	return nil
}

func (rec *record) items() ([]model.InvoiceItem, error) {
	arr := first(rec.root, itemsPaths...)
	if !arr.IsArray() {
		return nil, nil
	}

	var items []model.InvoiceItem
	for i, it := range arr.Array() {
		field := func(name string) string {
			return "items." + strconv.Itoa(i) + "." + name
		}

		qty, err := rec.quantity(it.Get("quantity"), field("quantity"))
		if err != nil {
			return nil, err
		}
		price, err := rec.decimal(it.Get("unit_price"), field("unit_price"))
		if err != nil {
			return nil, err
		}

		item := model.InvoiceItem{
			Description: text(first(it, "description", "name", "product_name")),
			Quantity:    qty,
			UnitPrice:   price,
		}
		if total := it.Get("total"); present(total) {
			if item.Total, err = rec.decimal(total, field("total")); err != nil {
				return nil, err
			}
		} else {
			item.Total = money.LineTotal(qty, price)
		}
		items = append(items, item)
	}
	return items, nil
}

func (rec *record) client() *model.Client {
	c := first(rec.root, clientPaths...)
	if !c.IsObject() {
		return nil
	}
	return &model.Client{
		Name:        text(c.Get("name")),
		CompanyName: text(first(c, "company_name", "company")),
		VATNumber:   text(first(c, clientVATKeys...)),
		Address:     text(c.Get("address")),
		City:        text(c.Get("city")),
		Country:     text(c.Get("country")),
		Email:       text(c.Get("email")),
		Phone:       text(c.Get("phone")),
	}
}

func (rec *record) seller() model.SellerInfo {
	s := first(rec.root, sellerPaths...)
	if !s.IsObject() {
		return model.SellerInfo{}
	}
	return model.SellerInfo{
		Name:      text(first(s, sellerNameKeys...)),
		VATNumber: text(first(s, sellerVATKeys...)),
		CRNumber:  text(first(s, sellerCRKeys...)),
		Address:   text(s.Get("address")),
		City:      text(s.Get("city")),
		Country:   text(s.Get("country")),
		Phone:     text(s.Get("phone")),
		Email:     text(s.Get("email")),
	}
}

// decimal reads a JSON number or numeric string; absent and null read as zero
func (rec *record) decimal(v gjson.Result, field string) (decimal.Decimal, error) {
	raw, ok := numeric(v)
	if !ok {
		return money.Zero, nil
	}
	d, err := money.FromString(raw)
	if err != nil {
		return money.Zero, model.NewLoadError(string(rec.schema), field, "not a decimal number", err)
	}
	return d, nil
}

func (rec *record) quantity(v gjson.Result, field string) (int, error) {
	d, err := rec.decimal(v, field)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, model.NewLoadError(string(rec.schema), field, "quantity must be a whole number", nil)
	}
	return int(d.IntPart()), nil
}

func numeric(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Raw, true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	default:
		return "", false
	}
}

func present(v gjson.Result) bool {
	_, ok := numeric(v)
	return ok
}

func text(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// first returns the first key of obj holding a non-null value
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}
