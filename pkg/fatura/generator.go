package fatura

import (
	"context"
	"io"

	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/validation"
)

var _ Renderer = (*Generator)(nil)

// Generator implements Renderer using the internal generator
type Generator struct {
	gen      *generator.Generator
	registry *loader.Registry
	options  Options
}

// NewGenerator creates a generator with the given options.
// It fails when a configured font cannot be loaded.
func NewGenerator(opts Options) (*Generator, error) {
	fonts, err := pdf.RegisterFonts(pdf.FontConfig{
		Family:      opts.FontFamily,
		RegularPath: opts.FontRegular,
		BoldPath:    opts.FontBold,
	})
	if err != nil {
		return nil, err
	}

	gen := generator.New(
		generator.WithWriter(pdf.NewWriter(pdf.WithFonts(fonts))),
		generator.WithLogger(opts.Logger),
		generator.WithQRSize(opts.QRSize),
		generator.WithStrictValidation(opts.Strict),
		generator.WithDefaultSeller(opts.Seller),
		generator.WithDefaultCurrency(opts.Currency),
	)

	return &Generator{
		gen:      gen,
		registry: loader.NewRegistry(),
		options:  opts,
	}, nil
}

// NewDefaultGenerator creates a generator with default options
func NewDefaultGenerator() *Generator {
	// the default options carry no font paths, so registration cannot fail
	g, _ := NewGenerator(DefaultOptions())
	return g
}

// Load parses a JSON record of either schema version
func (g *Generator) Load(ctx context.Context, data []byte) (*Bundle, error) {
	return g.registry.Parse(ctx, data)
}

// LoadFile parses a .json, .yaml or .yml record
func (g *Generator) LoadFile(ctx context.Context, path string) (*Bundle, error) {
	return g.registry.ParseFile(ctx, path)
}

// Validate checks a bundle after applying the configured seller default
func (g *Generator) Validate(b *Bundle) error {
	if b == nil {
		return model.NewValidationError("invoice", nil, validation.RuleRequired, "record is empty")
	}
	resolved := *b
	resolved.ApplyDefaultSeller(g.options.Seller)

	var opts []validation.Option
	if g.options.Strict {
		opts = append(opts, validation.Strict())
	}
	return validation.Validate(&resolved, opts...).Err()
}

// Render renders a loaded bundle
func (g *Generator) Render(ctx context.Context, b *Bundle) (*Result, error) {
	res, err := g.gen.Generate(ctx, b)
	if err != nil {
		return nil, err
	}
	return newResult(res), nil
}

// RenderReader loads a JSON record and renders it
func (g *Generator) RenderReader(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewLoadError("unknown", "root", "failed to read input", err)
	}

	b, err := g.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	return g.Render(ctx, b)
}

// RenderFile loads a record file and renders it
func (g *Generator) RenderFile(ctx context.Context, path string) (*Result, error) {
	b, err := g.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return g.Render(ctx, b)
}

// RenderBatch renders bundles concurrently. Results keep the input order;
// failed entries are nil and the first error is returned.
func (g *Generator) RenderBatch(ctx context.Context, bundles []*Bundle) ([]*Result, error) {
	generated, err := g.gen.GenerateBatch(ctx, bundles)

	results := make([]*Result, len(generated))
	for i, res := range generated {
		if res != nil {
			results[i] = newResult(res)
		}
	}
	return results, err
}

func newResult(res *generator.Result) *Result {
	return &Result{
		PDF:       res.PDF,
		Template:  res.Template,
		QRPayload: res.QRPayload,
		Warnings:  res.Warnings,
	}
}
