// Package pdf writes render.Document layouts as A4 PDF files with maroto and
// inspects the result with pdfcpu.
package pdf

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/rezonia/fatura/internal/render"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorShade   = &props.Color{Red: 240, Green: 244, Blue: 243}
)

const (
	gridSize     = 12
	margin       = 10.0
	fontSize     = 9.0
	lineHeight   = 4.5
	charsPerUnit = 9 // approximate glyphs per grid unit at 8pt on A4
)

// Writer turns render.Document layouts into PDF bytes. It is safe for concurrent use.
type Writer struct {
	fonts *FontSet
}

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithFonts sets the font family, usually the result of RegisterFonts
func WithFonts(fs *FontSet) WriterOption {
	return func(w *Writer) {
		if fs != nil {
			w.fonts = fs
		}
	}
}

// NewWriter creates a writer using DefaultFontSet unless WithFonts is given
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{fonts: DefaultFontSet()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Fonts returns the font set in use
func (w *Writer) Fonts() *FontSet {
	return w.fonts
}

// Write renders doc as a PDF
func (w *Writer) Write(doc *render.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	p := &page{fonts: w.fonts, rtl: doc.Direction == render.RTL && w.fonts.Unicode}

	m := maroto.New(p.config(doc))

	m.AddRows(p.headerRow(doc.Header))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(p.titleRow(doc.Title))
	m.AddRows(p.metaRow(doc.Meta))
	m.AddRows(line.NewRow(4))

	m.AddRows(p.tableHeaderRow(doc.Table.Columns))
	m.AddRows(p.tableRows(doc.Table)...)

	m.AddRows(line.NewRow(3, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(p.totalRows(doc.Totals)...)

	if doc.Notes != nil {
		m.AddRows(line.NewRow(4))
		m.AddRows(p.notesRows(doc.Notes)...)
	}

	if err := m.RegisterFooter(p.footerRows(doc.Footer)...); err != nil {
		return nil, fmt.Errorf("failed to register footer: %w", err)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}

// page carries the per-document settings used by the row builders
type page struct {
	fonts *FontSet
	rtl   bool
}

func (p *page) config(doc *render.Document) *entity.Config {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(margin).
		WithTopMargin(margin).
		WithRightMargin(margin).
		WithBottomMargin(margin).
		WithDefaultFont(&props.Font{Family: p.fonts.Family, Size: fontSize}).
		WithTitle(p.label(doc.Title), true).
		WithAuthor(doc.Author, true).
		WithCreator("fatura", true).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorGray,
		})
	if len(p.fonts.Custom) > 0 {
		b = b.WithCustomFonts(p.fonts.Custom)
	}
	return b.Build()
}

// label returns both languages when the font can draw Arabic, English otherwise
func (p *page) label(l render.Label) string {
	if p.fonts.Unicode || l.EN == "" {
		return l.String()
	}
	return l.EN
}

// textAlign is the alignment of free text in the current direction
func (p *page) textAlign() align.Type {
	if p.rtl {
		return align.Right
	}
	return align.Left
}

// order mirrors columns for right-to-left documents
func (p *page) order(cols ...core.Col) []core.Col {
	if !p.rtl {
		return cols
	}
	out := make([]core.Col, len(cols))
	for i, c := range cols {
		out[len(cols)-1-i] = c
	}
	return out
}

func (p *page) headerRow(h render.Header) core.Row {
	sellerWidth, qrWidth := 5, 2
	if h.QR == nil {
		sellerWidth, qrWidth = 6, 0
	}

	seller, sellerLines := p.partyCol(sellerWidth, h.Seller)
	buyer, buyerLines := p.partyCol(gridSize-sellerWidth-qrWidth, h.Buyer)

	cols := []core.Col{seller}
	if qrWidth > 0 {
		cols = append(cols, col.New(qrWidth).Add(
			image.NewFromBytes(h.QR, extension.Png, props.Rect{Center: true, Percent: 95}),
		))
	}
	cols = append(cols, buyer)

	height := float64(max(sellerLines, buyerLines))*lineHeight + 4
	if qrWidth > 0 {
		height = max(height, 34)
	}
	return row.New(height).Add(p.order(cols...)...)
}

func (p *page) partyCol(width int, b render.PartyBlock) (core.Col, int) {
	a := p.textAlign()
	c := col.New(width).Add(
		text.New(p.label(b.Title), props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: a, Top: 1}),
		text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 10, Align: a, Top: 1 + lineHeight}),
	)
	for i, f := range b.Fields {
		c.Add(text.New(p.field(f), props.Text{
			Size:  8,
			Color: colorGray,
			Align: a,
			Top:   1 + float64(i+2)*lineHeight,
		}))
	}
	return c, len(b.Fields) + 2
}

func (p *page) field(f render.Field) string {
	return p.label(f.Label) + ": " + p.value(f)
}

func (p *page) value(f render.Field) string {
	if f.ValueLabel != nil {
		return p.label(*f.ValueLabel)
	}
	return f.Value
}

func (p *page) titleRow(title render.Label) core.Row {
	return row.New(12).Add(
		text.NewCol(gridSize, p.label(title), props.Text{
			Style: fontstyle.Bold,
			Size:  15,
			Align: align.Center,
			Color: colorPrimary,
			Top:   3,
		}),
	)
}

func (p *page) metaRow(meta []render.Field) core.Row {
	widths := spread(len(meta))
	cols := make([]core.Col, 0, len(widths))
	for i, f := range meta[:len(widths)] {
		cols = append(cols, col.New(widths[i]).Add(
			text.New(p.label(f.Label), props.Text{Size: 7, Color: colorGray, Align: align.Center}),
			text.New(p.value(f), props.Text{Style: fontstyle.Bold, Size: fontSize, Align: align.Center, Top: 4}),
		))
	}
	return row.New(11).Add(p.order(cols...)...)
}

// cellAlign keeps numbers right-aligned in both directions
func (p *page) cellAlign(c render.Column) align.Type {
	switch {
	case c.Key == render.ColIndex:
		return align.Center
	case c.Numeric:
		return align.Right
	default:
		return p.textAlign()
	}
}

func (p *page) tableHeaderRow(columns []render.Column) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.Width).Add(text.New(p.label(c.Label), props.Text{
			Style: fontstyle.Bold,
			Size:  7.5,
			Align: p.cellAlign(c),
			Color: colorWhite,
			Top:   2,
			Left:  1,
			Right: 1,
		})))
	}

	height := 8.0
	if p.fonts.Unicode {
		height = 11
	}
	return row.New(height).
		Add(p.order(cols...)...).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (p *page) tableRows(t render.Table) []core.Row {
	rows := make([]core.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		lines := 1
		cols := make([]core.Col, 0, len(t.Columns))
		for j, c := range t.Columns {
			value := ""
			if j < len(r.Cells) {
				value = r.Cells[j]
			}
			lines = max(lines, wrappedLines(value, c.Width))
			cols = append(cols, col.New(c.Width).Add(text.New(value, props.Text{
				Size:  8,
				Align: p.cellAlign(c),
				Top:   1.5,
				Left:  1,
				Right: 1,
			})))
		}

		rr := row.New(float64(lines)*lineHeight + 3).Add(p.order(cols...)...)
		if r.Shaded {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: colorShade})
		}
		rows = append(rows, rr)
	}
	return rows
}

func (p *page) totalRows(totals []render.TotalLine) []core.Row {
	rows := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		style := props.Text{Size: fontSize, Align: align.Right, Right: 1}
		height := 6.0
		if t.Emphasis {
			style = props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Right: 1}
			height = 9
		}
		labelStyle := style
		labelStyle.Align = p.textAlign()

		rows = append(rows, row.New(height).Add(p.order(
			col.New(5),
			text.NewCol(4, p.label(t.Label), labelStyle),
			text.NewCol(3, t.Value, style),
		)...))
	}
	return rows
}

func (p *page) notesRows(n *render.Notes) []core.Row {
	lines := wrappedLines(n.Text, gridSize)
	return []core.Row{
		row.New(6).Add(text.NewCol(gridSize, p.label(n.Title), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: p.textAlign(),
		})),
		row.New(float64(lines)*lineHeight + 2).Add(text.NewCol(gridSize, n.Text, props.Text{
			Size: 8, Align: p.textAlign(),
		})),
	}
}

func (p *page) footerRows(footer []render.Label) []core.Row {
	rows := make([]core.Row, 0, len(footer))
	for _, l := range footer {
		rows = append(rows, row.New(5).Add(text.NewCol(gridSize, p.label(l), props.Text{
			Size: 7, Color: colorGray, Align: align.Center,
		})))
	}
	return rows
}

// spread splits the grid into n near-equal widths
func spread(n int) []int {
	if n <= 0 {
		return nil
	}
	n = min(n, gridSize)
	widths := make([]int, n)
	for i := range widths {
		widths[i] = gridSize / n
		if i < gridSize%n {
			widths[i]++
		}
	}
	return widths
}

// wrappedLines estimates how many lines s takes in a column of width grid units
func wrappedLines(s string, width int) int {
	perLine := max(width*charsPerUnit, 1)
	lines := 0
	for _, part := range strings.Split(s, "\n") {
		n := utf8.RuneCountInString(part)
		lines += max(1, (n+perLine-1)/perLine)
	}
	return lines
}
