package fatura

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/zatca"
)

// Options configures a Generator
type Options struct {
	// Fonts. Without FontRegular the built-in helvetica is used and Arabic
	// labels are left out of the PDF.
	FontFamily  string
	FontRegular string // path to a TTF with Arabic glyphs
	FontBold    string // defaults to FontRegular

	QRSize int // QR image edge in pixels (default: 256)

	// Defaults applied to records that leave them out
	Seller   SellerInfo
	Currency string

	// Strict turns validation warnings into errors
	Strict bool

	Logger *zap.Logger
}

// DefaultOptions returns default generator options
func DefaultOptions() Options {
	return Options{
		QRSize:   zatca.DefaultQRSize,
		Currency: model.DefaultCurrency,
	}
}

// Renderer renders invoice records as PDF documents
type Renderer interface {
	// Render renders a loaded bundle
	Render(ctx context.Context, b *Bundle) (*Result, error)

	// RenderReader loads a JSON record and renders it
	RenderReader(ctx context.Context, r io.Reader) (*Result, error)

	// RenderBatch renders several bundles concurrently
	RenderBatch(ctx context.Context, bundles []*Bundle) ([]*Result, error)
}

// Result is one rendered document
type Result struct {
	PDF       []byte       `json:"-"`
	Template  TemplateName `json:"template"`
	QRPayload string       `json:"qr_payload,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
}
