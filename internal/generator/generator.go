// Package generator runs the document pipeline: validate a resolved record,
// pick its template, build the ZATCA QR code when required, lay the document
// out and write it as PDF.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/observability/logger"
	"github.com/rezonia/fatura/internal/observability/metrics"
	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/validation"
	"github.com/rezonia/fatura/internal/zatca"
)

// WarningFallbackFont is added to every result rendered without a Unicode font
const WarningFallbackFont = "no Unicode font registered: Arabic labels are omitted from the PDF"

// Result is the outcome of one generation
type Result struct {
	PDF       []byte              `json:"-"`
	Template  render.TemplateName `json:"template"`
	QRPayload string              `json:"qr_payload,omitempty"`
	Document  *render.Document    `json:"-"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// Generator turns bundles into PDF documents. It is safe for concurrent use.
type Generator struct {
	writer   *pdf.Writer
	log      *zap.Logger
	metrics  *metrics.Metrics
	qrSize   int
	strict   bool
	seller   model.SellerInfo
	currency string
}

// Option configures a Generator
type Option func(*Generator)

// WithWriter sets the PDF writer, usually one built with registered fonts
func WithWriter(w *pdf.Writer) Option {
	return func(g *Generator) {
		if w != nil {
			g.writer = w
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = logger.OrNop(log)
	}
}

// WithMetrics sets the prometheus recorder
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithQRSize sets the QR image edge in pixels
func WithQRSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.qrSize = size
		}
	}
}

// WithStrictValidation turns validation warnings into errors
func WithStrictValidation(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithDefaultSeller is used for records that carry no seller block
func WithDefaultSeller(seller model.SellerInfo) Option {
	return func(g *Generator) {
		g.seller = seller
	}
}

// WithDefaultCurrency is used for records that carry no currency code
func WithDefaultCurrency(code string) Option {
	return func(g *Generator) {
		g.currency = strings.ToUpper(strings.TrimSpace(code))
	}
}

// New creates a generator
func New(opts ...Option) *Generator {
	g := &Generator{
		writer: pdf.NewWriter(),
		log:    zap.NewNop(),
		qrSize: zatca.DefaultQRSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders one bundle. The bundle is not modified.
func (g *Generator) Generate(ctx context.Context, b *model.Bundle) (*Result, error) {
	start := time.Now()

	res, err := g.generate(ctx, b)

	name := ""
	if res != nil {
		name = string(res.Template)
	}
	if err != nil {
		g.metrics.ObserveRender(name, outcome(err), time.Since(start), 0)
		g.log.Error("generation failed",
			zap.String("template", name),
			zap.String("invoice_number", invoiceNumber(b)),
			zap.Error(err),
		)
		return nil, err
	}

	g.metrics.ObserveRender(name, metrics.OutcomeSuccess, time.Since(start), len(res.PDF))
	g.log.Debug("document generated",
		zap.String("template", name),
		zap.String("invoice_number", invoiceNumber(b)),
		zap.Int("bytes", len(res.PDF)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, b *model.Bundle) (*Result, error) {
	res, err := g.layout(ctx, b)
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	data, err := g.writer.Write(res.Document)
	if err != nil {
		return res, fmt.Errorf("failed to write pdf: %w", err)
	}
	res.PDF = data
	return res, nil
}

// Layout runs every step except PDF writing
func (g *Generator) Layout(ctx context.Context, b *model.Bundle) (*Result, error) {
	return g.layout(ctx, b)
}

func (g *Generator) layout(ctx context.Context, b *model.Bundle) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, model.NewValidationError("invoice", nil, validation.RuleRequired, "record is empty")
	}

	bundle := g.resolve(b)

	var vopts []validation.Option
	if g.strict {
		vopts = append(vopts, validation.Strict())
	}
	report := validation.Validate(bundle, vopts...)
	if !report.Valid() {
		return nil, fmt.Errorf("invalid record %s: %w", invoiceNumber(bundle), report.Err())
	}

	tmpl := render.SelectFor(&bundle.Invoice)
	res := &Result{Template: tmpl.Name(), Warnings: report.Warnings}
	g.log.Debug("template selected",
		zap.String("template", string(tmpl.Name())),
		zap.String("document_kind", string(bundle.Invoice.DocumentKind)),
		zap.String("invoice_type", string(bundle.Invoice.InvoiceType)),
	)

	var qr []byte
	if tmpl.RequiresQR() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		payload, err := zatca.FieldsFromInvoice(bundle.Seller, &bundle.Invoice).Encode()
		if err != nil {
			g.metrics.ObserveQR(metrics.OutcomeEncodingError)
			return res, fmt.Errorf("failed to build QR payload: %w", err)
		}
		g.metrics.ObserveQR(metrics.OutcomeSuccess)

		qr, err = zatca.RenderQR(payload, g.qrSize)
		if err != nil {
			return res, fmt.Errorf("failed to render QR image: %w", err)
		}
		res.QRPayload = payload
	}

	res.Document = tmpl.Render(render.InputFromBundle(bundle, qr))
	if !g.writer.Fonts().Unicode {
		res.Warnings = append(res.Warnings, WarningFallbackFont)
	}
	return res, nil
}

// resolve applies the configured defaults to a shallow copy of b
func (g *Generator) resolve(b *model.Bundle) *model.Bundle {
	bundle := *b
	bundle.ApplyDefaultSeller(g.seller)
	if strings.TrimSpace(bundle.Invoice.Currency) == "" && g.currency != "" {
		bundle.Invoice.Currency = g.currency
	}
	return &bundle
}

// GenerateBatch renders bundles concurrently. Results keep the input order;
// the first error is returned alongside whatever succeeded.
func (g *Generator) GenerateBatch(ctx context.Context, bundles []*model.Bundle) ([]*Result, error) {
	results := make([]*Result, len(bundles))
	errCh := make(chan error, len(bundles))

	for i, b := range bundles {
		go func(idx int, b *model.Bundle) {
			res, err := g.Generate(ctx, b)
			if err != nil {
				errCh <- fmt.Errorf("record %d: %w", idx, err)
				return
			}
			results[idx] = res
			errCh <- nil
		}(i, b)
	}

	var firstErr error
	for range bundles {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// outcome classifies err for the render counter
func outcome(err error) string {
	var encErr *zatca.EncodingError
	var valErr *model.ValidationError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	case errors.As(err, &encErr):
		return metrics.OutcomeEncodingError
	case errors.As(err, &valErr):
		return metrics.OutcomeValidationError
	default:
		return metrics.OutcomeRenderError
	}
}

func invoiceNumber(b *model.Bundle) string {
	if b == nil {
		return ""
	}
	return b.Invoice.InvoiceNumber
}
