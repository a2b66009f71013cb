package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/pdf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Check generated PDF files",
	Long: `Validate PDF files and report their page count and version.

Examples:
  fatura inspect invoice.pdf
  fatura inspect out/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult holds the inspection outcome of one file
type InspectResult struct {
	File string `json:"file"`
	*pdf.Info
	Error string `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, pdfExts)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	results := make([]*InspectResult, 0, len(files))
	failed := 0
	for _, file := range files {
		result := &InspectResult{File: file}
		results = append(results, result)

		data, err := os.ReadFile(file)
		if err != nil {
			result.Error = fmt.Sprintf("failed to read file: %v", err)
			failed++
			continue
		}
		if result.Info, err = pdf.Inspect(data); err != nil {
			result.Error = err.Error()
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tVERSION\tPAGES\tBYTES")
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(tw, "%s\tERROR: %s\t\t\n", r.File, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", r.File, r.Version, r.Pages, r.Size)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files are not valid PDF documents", failed, len(files))
	}
	return nil
}
