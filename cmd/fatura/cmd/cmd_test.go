package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/zatca"
)

const knownPayload = "AQxCb2JzIFJlY29yZHMCDzMxMDEyMjM5MzUwMDAwMwMUMjAyMi0wNC0yNVQxNTozMDowMFoEBzEwMDAuMDAFBjE1MC4wMA=="

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outputPathFlag, sellerFile, qrPNG = "", "", ""
		qrFields, qrSize = zatca.Fields{}, 0
		rawRecords, strictValidation, strictRender = false, false, false
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "invoice.json")
	copyFixture(t, dir, "credit_note.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := collectFiles([]string{dir}, recordExts)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = collectFiles([]string{filepath.Join(dir, "*.json")}, recordExts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "invoice.json")}, files)

	// explicit names are kept whatever the extension
	files, err = collectFiles([]string{filepath.Join(dir, "notes.txt")}, recordExts)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.json")}, recordExts)
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, out string
		single     bool
		want       string
	}{
		{"records/a.json", "", true, filepath.Join("records", "a.pdf")},
		{"records/a.json", "out.pdf", true, "out.pdf"},
		{"records/a.json", "out", false, filepath.Join("out", "a.pdf")},
		{"records/a.yaml", "out.pdf", false, filepath.Join("out.pdf", "a.pdf")},
		{"records/a.json", "out.txt", true, filepath.Join("out.txt", "a.pdf")},
		{"records/a.json", "OUT.PDF", true, "OUT.PDF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, outputPath(tt.input, tt.out, tt.single))
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	record := copyFixture(t, dir, "invoice.json")
	copyFixture(t, dir, "credit_note.yaml")
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "render", dir, "-o", outDir, "-f", "json")
	require.NoError(t, err, out)

	var results []RenderResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	byFile := map[string]RenderResult{}
	for _, r := range results {
		assert.Empty(t, r.Error)
		byFile[filepath.Base(r.File)] = r
	}

	standard := byFile["invoice.json"]
	assert.Equal(t, "standard_tax", standard.Template)
	assert.Equal(t, filepath.Join(outDir, "invoice.pdf"), standard.Output)
	fields, err := zatca.ParseTLVBase64(standard.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, "17250.00", fields.InvoiceTotal)

	credit := byFile["credit_note.yaml"]
	assert.Equal(t, "credit_note", credit.Template)
	assert.Empty(t, credit.QRPayload)

	data, err := os.ReadFile(standard.Output)
	require.NoError(t, err)
	info, err := pdf.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)

	t.Run("single file output", func(t *testing.T) {
		target := filepath.Join(dir, "single.pdf")
		_, err := run(t, "render", record, "-o", target, "-f", "table")
		require.NoError(t, err)
		assert.FileExists(t, target)
	})
}

func TestRenderCommand_NonPDFOutputIsDirectory(t *testing.T) {
	dir := t.TempDir()
	record := copyFixture(t, dir, "invoice.json")
	target := filepath.Join(dir, "out.txt")

	out, err := run(t, "render", record, "-o", target, "-f", "table")
	require.NoError(t, err, out)
	assert.DirExists(t, target)
	assert.FileExists(t, filepath.Join(target, "invoice.pdf"))
}

func TestRenderCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "no_items.json")

	out, err := run(t, "render", dir, "-f", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 records failed")
	assert.Contains(t, out, "ERROR")
}

func TestRenderCommand_SellerFile(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(record, []byte(`{
		"invoice_number": "S-1", "invoice_type": "simplified",
		"subtotal": 100, "tax_rate": 15, "tax_amount": 15, "total_amount": 115,
		"items": [{"description": "Coffee", "quantity": 4, "unit_price": 25}]
	}`), 0o644))

	seller := filepath.Join(dir, "seller.json")
	require.NoError(t, os.WriteFile(seller, []byte(`{"name": "Bean House", "vat_number": "310123456700003"}`), 0o644))

	out, err := run(t, "render", record, "--seller", seller, "-f", "json")
	require.NoError(t, err, out)

	var results []RenderResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	fields, err := zatca.ParseTLVBase64(results[0].QRPayload)
	require.NoError(t, err)
	assert.Equal(t, "Bean House", fields.SellerName)
}

func TestQRCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "qr.png")

	out, err := run(t, "qr",
		"--seller-name", "Bobs Records",
		"--vat", "310122393500003",
		"--timestamp", "2022-04-25T15:30:00Z",
		"--total", "1000.00",
		"--vat-total", "150.00",
		"--png", png,
		"-f", "table",
	)
	require.NoError(t, err)
	assert.Equal(t, knownPayload+"\n", out)
	assert.FileExists(t, png)
}

func TestQRCommand_TooLong(t *testing.T) {
	long := string(bytes.Repeat([]byte("a"), 256))
	_, err := run(t, "qr", "--seller-name", long, "-f", "table")

	var encErr *zatca.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, zatca.ErrCodeValueTooLong, encErr.Code)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", knownPayload, "-f", "json")
	require.NoError(t, err)

	var fields zatca.Fields
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	assert.Equal(t, "Bobs Records", fields.SellerName)

	out, err = run(t, "decode", knownPayload, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice total")
	assert.Contains(t, out, "1000.00")

	_, err = run(t, "decode", "%%%", "-f", "table")
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := copyFixture(t, dir, "invoice.json")
	invalid := copyFixture(t, dir, "no_items.json")

	out, err := run(t, "validate", valid, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "VALID (standard_tax)")

	out, err = run(t, "validate", valid, invalid, "-f", "json")
	require.Error(t, err)

	var results []ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
	assert.NotEmpty(t, results[1].Errors)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "invoice.json")
	_, err := run(t, "render", dir, "-f", "table")
	require.NoError(t, err)

	out, err := run(t, "inspect", filepath.Join(dir, "invoice.pdf"), "-f", "json")
	require.NoError(t, err)

	var results []InspectResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Info)
	assert.Equal(t, 1, results[0].Pages)

	bogus := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(bogus, []byte("nope"), 0o644))
	_, err = run(t, "inspect", bogus, "-f", "table")
	require.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	record := copyFixture(t, dir, "credit_note.yaml")

	out, err := run(t, "info", record)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema: legacy")
	assert.Contains(t, out, "Template: credit_note (QR: false)")
	assert.Contains(t, out, "Total: 1,150.00 SAR")
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "Invoice record", schema["title"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "invoice")
	assert.Contains(t, props, "items")
	assert.Contains(t, props, "seller")
}
