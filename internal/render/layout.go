package render

// Direction is the reading direction of a document
type Direction string

const (
	RTL Direction = "rtl"
	LTR Direction = "ltr"
)

// Label is a bilingual caption. Writers without an Arabic-capable font use EN only.
type Label struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

func (l Label) String() string {
	switch {
	case l.AR == "":
		return l.EN
	case l.EN == "":
		return l.AR
	default:
		return l.AR + " / " + l.EN
	}
}

// Field is a captioned value. LTR values (numbers, codes) are never mirrored.
// ValueLabel is set for translated values; Value then holds the English text.
type Field struct {
	Label      Label  `json:"label"`
	Value      string `json:"value"`
	ValueLabel *Label `json:"value_label,omitempty"`
	LTR        bool   `json:"ltr,omitempty"`
}

// PartyBlock identifies the seller or the buyer
type PartyBlock struct {
	Title  Label   `json:"title"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Header is the top band of the first page
type Header struct {
	Seller PartyBlock `json:"seller"`
	Buyer  PartyBlock `json:"buyer"`
	QR     []byte     `json:"-"` // PNG, nil when absent
}

// Column keys of line-item tables
const (
	ColIndex       = "index"
	ColDescription = "description"
	ColQuantity    = "quantity"
	ColUnitPrice   = "unit_price"
	ColTaxRate     = "tax_rate"
	ColTaxAmount   = "tax_amount"
	ColTotal       = "total"
)

// Column of the line-item table. Widths are grid units out of 12.
type Column struct {
	Key     string `json:"key"`
	Label   Label  `json:"label"`
	Width   int    `json:"width"`
	Numeric bool   `json:"numeric,omitempty"`
}

// Row holds one formatted cell per column
type Row struct {
	Cells  []string `json:"cells"`
	Shaded bool     `json:"shaded,omitempty"`
}

// Table is the line-item table
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn returns true if the table has a column with key
func (t *Table) HasColumn(key string) bool {
	for _, c := range t.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Cell returns the value of column key in row i
func (t *Table) Cell(i int, key string) (string, bool) {
	if i < 0 || i >= len(t.Rows) {
		return "", false
	}
	for j, c := range t.Columns {
		if c.Key == key && j < len(t.Rows[i].Cells) {
			return t.Rows[i].Cells[j], true
		}
	}
	return "", false
}

// Total line keys
const (
	TotalSubtotal = "subtotal"
	TotalTax      = "tax"
	TotalGrand    = "total"
)

// TotalLine is one line of the totals block
type TotalLine struct {
	Key      string `json:"key"`
	Label    Label  `json:"label"`
	Value    string `json:"value"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Notes is the optional free-text block
type Notes struct {
	Title Label  `json:"title"`
	Text  string `json:"text"`
}

// Document is a backend-independent invoice layout
type Document struct {
	Template  TemplateName `json:"template"`
	Direction Direction    `json:"direction"`
	Title     Label        `json:"title"`
	Header    Header       `json:"header"`
	Meta      []Field      `json:"meta"`
	Table     Table        `json:"table"`
	Totals    []TotalLine  `json:"totals"`
	Notes     *Notes       `json:"notes,omitempty"`
	Footer    []Label      `json:"footer"`
	Author    string       `json:"author"`
	Currency  string       `json:"currency"`
}

// Total returns the totals line with key
func (d *Document) Total(key string) (TotalLine, bool) {
	for _, t := range d.Totals {
		if t.Key == key {
			return t, true
		}
	}
	return TotalLine{}, false
}

// Field returns the metadata field whose English label is en
func (d *Document) Field(en string) (Field, bool) {
	for _, f := range d.Meta {
		if f.Label.EN == en {
			return f, true
		}
	}
	return Field{}, false
}
