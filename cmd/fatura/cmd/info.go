package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	money "github.com/rezonia/fatura/internal/decimal"
	"github.com/rezonia/fatura/internal/format"
	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/render"
)

var infoCmd = &cobra.Command{
	Use:   "info [records...]",
	Short: "Show how invoice records will be rendered",
	Long: `Display information about invoice records without rendering them.

Shows:
  - Detected schema version (current or legacy)
  - Selected template and whether it carries a ZATCA QR code
  - Invoice number, dates, item count and totals

Examples:
  fatura info invoice.json
  fatura info records/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, recordExts)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no records found")
	}

	registry := loader.NewRegistry()
	for _, file := range files {
		printRecordInfo(cmd.Context(), cmd.OutOrStdout(), registry, file)
		fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func printRecordInfo(ctx context.Context, w io.Writer, registry *loader.Registry, filePath string) {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintf(w, "File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Size: %d bytes\n", info.Size())
	fmt.Fprintf(w, "  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error reading file: %v\n", err)
		return
	}
	if isYAML(filePath) {
		if data, err = loader.YAMLToJSON(data); err != nil {
			fmt.Fprintf(w, "  Error: %v\n", err)
			return
		}
	}

	adapter, err := registry.Detect(data)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Schema: %s\n", adapter.Schema())

	bundle, err := registry.Parse(ctx, data)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}

	inv := &bundle.Invoice
	tmpl := render.SelectFor(inv)
	fmt.Fprintf(w, "  Template: %s (QR: %t)\n", tmpl.Name(), tmpl.RequiresQR())
	fmt.Fprintf(w, "  Number: %s\n", format.SafeText(inv.InvoiceNumber))
	fmt.Fprintf(w, "  Issued: %s\n", format.DateTime(inv.IssueDate))
	fmt.Fprintf(w, "  Items: %d\n", len(bundle.Items))
	fmt.Fprintf(w, "  Subtotal: %s\n", format.Money(inv.Subtotal, inv.CurrencyCode()))
	fmt.Fprintf(w, "  Tax: %s (%s)\n", format.Money(inv.TaxAmount, inv.CurrencyCode()), format.Percent(inv.TaxRate))
	fmt.Fprintf(w, "  Total: %s\n", format.Money(inv.TotalAmount, inv.CurrencyCode()))
	if items := bundle.ItemsTotal(); !money.Round(items).Equal(money.Round(inv.Subtotal)) {
		fmt.Fprintf(w, "  Note: line items sum to %s\n", money.Fixed(items))
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
