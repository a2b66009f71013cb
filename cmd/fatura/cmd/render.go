package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/model"
)

var (
	outputPathFlag string
	sellerFile     string
	strictRender   bool
	timeout        time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render [records...]",
	Short: "Render invoice records as PDF",
	Long: `Render one or more invoice records (JSON or YAML) as PDF documents.

The template follows the record: standard and simplified tax invoices carry a
ZATCA QR code, regular invoices and credit notes do not.

Seller details come from the record's seller/settings block, then from
--seller, then from the FATURA_SELLER_* environment variables.

Examples:
  fatura render invoice.json
  fatura render invoice.json -o /tmp/invoice.pdf
  fatura render records/ -o out/ --seller seller.json
  fatura render *.yaml -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&outputPathFlag, "output", "o", "", "Output .pdf file (single record) or directory (default: next to each record)")
	renderCmd.Flags().StringVar(&sellerFile, "seller", "", "JSON file with the seller block used when a record has none")
	renderCmd.Flags().BoolVar(&strictRender, "strict", false, "Refuse records that have validation warnings")
	renderCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Rendering timeout per record")
}

// RenderResult holds the result of rendering a single record
type RenderResult struct {
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
	Template  string   `json:"template,omitempty"`
	QRPayload string   `json:"qr_payload,omitempty"`
	Bytes     int      `json:"bytes,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func runRender(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, recordExts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no records found to render")
	}
	printVerbose("Found %d records to render\n", len(files))

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := []generator.Option{generator.WithStrictValidation(strictRender)}
	if sellerFile != "" {
		seller, err := readSeller(sellerFile)
		if err != nil {
			return err
		}
		opts = append(opts, generator.WithDefaultSeller(seller))
	}

	gen, err := newGenerator(log, opts...)
	if err != nil {
		return err
	}

	single := len(files) == 1
	if outputPathFlag != "" && !outputIsFile(outputPathFlag, single) {
		if err := os.MkdirAll(outputPathFlag, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	registry := loader.NewRegistry()
	results := make([]*RenderResult, 0, len(files))
	failed := 0
	for _, file := range files {
		printVerbose("Rendering: %s\n", file)

		result := renderFile(cmd.Context(), gen, registry, file, outputPath(file, outputPathFlag, single))
		results = append(results, result)

		if result.Error != "" {
			failed++
			printVerbose("  Error: %s\n", result.Error)
		} else {
			printVerbose("  Template: %s, %d bytes -> %s\n", result.Template, result.Bytes, result.Output)
		}
	}

	if err := outputRenderResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed to render", failed, len(files))
	}
	return nil
}

func renderFile(parent context.Context, gen *generator.Generator, registry *loader.Registry, file, output string) *RenderResult {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	result := &RenderResult{File: file}

	bundle, err := registry.ParseFile(ctx, file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	res, err := gen.Generate(ctx, bundle)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
		result.Error = fmt.Sprintf("failed to write %s: %v", output, err)
		return result
	}

	result.Output = output
	result.Template = string(res.Template)
	result.QRPayload = res.QRPayload
	result.Bytes = len(res.PDF)
	result.Warnings = res.Warnings
	return result
}

func readSeller(path string) (model.SellerInfo, error) {
	var seller model.SellerInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return seller, fmt.Errorf("failed to read seller file: %w", err)
	}
	if err := json.Unmarshal(data, &seller); err != nil {
		return seller, fmt.Errorf("failed to parse seller file %s: %w", path, err)
	}
	return seller, nil
}

func outputRenderResults(w io.Writer, results []*RenderResult) error {
	switch outputFormat {
	case "json":
		return writeJSON(w, results)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tTEMPLATE\tOUTPUT\tBYTES\tWARNINGS")
		fmt.Fprintln(tw, "----\t--------\t------\t-----\t--------")
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\n", r.File, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", r.File, r.Template, r.Output, r.Bytes, len(r.Warnings))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
