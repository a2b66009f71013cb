package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/zatca"
)

var (
	qrFields zatca.Fields
	qrPNG    string
	qrSize   int
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Build a ZATCA QR payload",
	Long: `Encode the five ZATCA phase-1 fields as TLV records and print the
Base64 payload. Every value must be at most 255 bytes in UTF-8.

Examples:
  fatura qr --seller-name "Bobs Records" --vat 310122393500003 \
    --timestamp 2022-04-25T15:30:00Z --total 1000.00 --vat-total 150.00
  fatura qr ... --png qr.png --size 320`,
	Args: cobra.NoArgs,
	RunE: runQR,
}

func init() {
	rootCmd.AddCommand(qrCmd)

	qrCmd.Flags().StringVar(&qrFields.SellerName, "seller-name", "", "Seller name (tag 1)")
	qrCmd.Flags().StringVar(&qrFields.VATNumber, "vat", "", "Seller VAT registration number (tag 2)")
	qrCmd.Flags().StringVar(&qrFields.Timestamp, "timestamp", "", "Invoice timestamp, ISO-8601 (tag 3)")
	qrCmd.Flags().StringVar(&qrFields.InvoiceTotal, "total", "", "Invoice total with VAT (tag 4)")
	qrCmd.Flags().StringVar(&qrFields.VATTotal, "vat-total", "", "VAT total (tag 5)")
	qrCmd.Flags().StringVar(&qrPNG, "png", "", "Also write the QR code image to this PNG file")
	qrCmd.Flags().IntVar(&qrSize, "size", 0, "PNG edge in pixels (env: FATURA_QR_SIZE)")
	_ = qrCmd.MarkFlagRequired("seller-name")
}

func runQR(cmd *cobra.Command, args []string) error {
	payload, err := qrFields.Encode()
	if err != nil {
		return err
	}

	if qrPNG != "" {
		size := qrSize
		if size <= 0 {
			size = cfg.QRSize
		}
		img, err := zatca.RenderQR(payload, size)
		if err != nil {
			return err
		}
		if err := os.WriteFile(qrPNG, img, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", qrPNG, err)
		}
		printVerbose("Wrote %s (%dx%d)\n", qrPNG, size, size)
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"payload": payload})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), payload)
	return err
}
