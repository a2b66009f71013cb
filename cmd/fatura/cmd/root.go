package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/fatura/internal/config"
	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/observability/logger"
	"github.com/rezonia/fatura/internal/pdf"
)

var (
	version = "1.0.0"

	cfg config.Config

	// Global flags
	verbose      bool
	outputFormat string
	fontFamily   string
	fontRegular  string
	fontBold     string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "fatura",
	Short: "Render ZATCA-compliant invoices as PDF",
	Long: `Fatura renders Saudi invoices and credit notes as bilingual PDF documents
and builds the ZATCA (phase 1) QR payload for tax invoices.

Input records are JSON or YAML exports of an invoice with its items, client
and seller settings. Both the current schema (invoice_type, document_kind)
and the legacy one (type) are accepted.

Examples:
  # Render one invoice next to the input file
  fatura render invoice.json

  # Render a directory of records into out/
  fatura render records/ -o out/

  # Build a QR payload
  fatura qr --seller-name "Bobs Records" --vat 310122393500003 \
    --timestamp 2022-04-25T15:30:00Z --total 1000.00 --vat-total 150.00

  # Decode a QR payload
  fatura decode AQxCb2JzIFJlY29yZHM...

  # Serve the HTTP API
  fatura serve --address :8080`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&fontFamily, "font-family", "", "Family name for the custom font (env: FATURA_FONT_FAMILY)")
	rootCmd.PersistentFlags().StringVar(&fontRegular, "font-regular", "", "Regular TTF font with Arabic glyphs (env: FATURA_FONT_REGULAR)")
	rootCmd.PersistentFlags().StringVar(&fontBold, "font-bold", "", "Bold TTF font (env: FATURA_FONT_BOLD)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env: FATURA_LOG_LEVEL)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	cfg = config.Load()

	if fontFamily == "" {
		fontFamily = cfg.FontFamily
	}
	if fontRegular == "" {
		fontRegular = cfg.FontRegular
	}
	if fontBold == "" {
		fontBold = cfg.FontBold
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
}

// newLogger builds the process logger; CLI commands log to stderr
func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     version,
		Level:       logLevel,
		Format:      cfg.LogFormat,
		Debug:       cfg.Debug,
	})
}

// newGenerator registers the configured fonts and builds a generator
func newGenerator(log *zap.Logger, opts ...generator.Option) (*generator.Generator, error) {
	fonts, err := pdf.RegisterFonts(pdf.FontConfig{
		Family:      fontFamily,
		RegularPath: fontRegular,
		BoldPath:    fontBold,
	})
	if err != nil {
		return nil, err
	}
	if fonts.Unicode {
		printVerbose("Using font family %s\n", fonts.Family)
	} else {
		printVerbose("No font configured, Arabic labels are omitted (set --font-regular)\n")
	}

	base := []generator.Option{
		generator.WithWriter(pdf.NewWriter(pdf.WithFonts(fonts))),
		generator.WithLogger(log),
		generator.WithQRSize(cfg.QRSize),
		generator.WithDefaultSeller(cfg.DefaultSeller()),
		generator.WithDefaultCurrency(cfg.Currency),
	}
	return generator.New(append(base, opts...)...), nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
