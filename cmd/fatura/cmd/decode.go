package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/zatca"
)

var rawRecords bool

var tagNames = map[byte]string{
	zatca.TagSellerName:   "Seller name",
	zatca.TagVATNumber:    "VAT number",
	zatca.TagTimestamp:    "Timestamp",
	zatca.TagInvoiceTotal: "Invoice total",
	zatca.TagVATTotal:     "VAT total",
}

var decodeCmd = &cobra.Command{
	Use:   "decode <payload>",
	Short: "Decode a ZATCA QR payload",
	Long: `Decode a Base64 TLV payload as printed in a ZATCA QR code.

By default the payload must contain exactly tags 1 to 5 in order. Use --raw
to list whatever records it holds.

Examples:
  fatura decode AQxCb2JzIFJlY29yZHMCDzMxMDEyMjM5MzUwMDAwMw...
  fatura decode <payload> --raw -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&rawRecords, "raw", false, "List raw TLV records without checking tags")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var records []zatca.Record
	if rawRecords {
		var err error
		if records, err = zatca.DecodeBase64(args[0]); err != nil {
			return err
		}
	} else {
		fields, err := zatca.ParseTLVBase64(args[0])
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), fields)
		}
		records = fields.Records()
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), records)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tFIELD\tVALUE")
	for _, r := range records {
		name, ok := tagNames[r.Tag]
		if !ok {
			name = "unknown"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Tag, name, r.Value)
	}
	return tw.Flush()
}
