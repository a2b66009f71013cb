package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/validation"
)

var (
	strictValidation bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [records...]",
	Short: "Validate invoice records",
	Long: `Validate one or more invoice records before rendering.

Errors (the record cannot be rendered):
  - missing invoice number or line items
  - tax invoices without a seller name
  - seller name or VAT number longer than 255 bytes (ZATCA QR limit)

Warnings (rendered as-is, errors with --strict):
  - VAT number not 15 digits starting and ending with 3
  - subtotal or total not reconciling with the line items
  - non-positive quantities, negative prices, unparsable dates
  - credit notes without a reference to the original invoice

Examples:
  fatura validate invoice.json
  fatura validate records/ --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strictValidation, "strict", false, "Treat warnings as errors")
}

// ValidationResult holds the validation outcome of one record
type ValidationResult struct {
	File     string   `json:"file"`
	Template string   `json:"template,omitempty"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, recordExts)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no records found to validate")
	}

	registry := loader.NewRegistry()
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(cmd.Context(), registry, file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID (%s)\n", r.File, r.Template)
			} else {
				fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(out, "  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some records")
	}

	return nil
}

func validateFile(ctx context.Context, registry *loader.Registry, filePath string) *ValidationResult {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &ValidationResult{
		File:     filePath,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if _, err := os.Stat(filePath); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	bundle, err := registry.ParseFile(ctx, filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("parse error: %v", err))
		return result
	}

	// Seller defaults apply at render time, so validate with them in place
	bundle.ApplyDefaultSeller(cfg.DefaultSeller())

	var opts []validation.Option
	if strictValidation {
		opts = append(opts, validation.Strict())
	}
	report := validation.Validate(bundle, opts...)

	result.Template = string(render.SelectFor(&bundle.Invoice).Name())
	result.Valid = report.Valid()
	for _, e := range report.Errors {
		result.Errors = append(result.Errors, e.Error())
	}
	result.Warnings = append(result.Warnings, report.Warnings...)

	return result
}
