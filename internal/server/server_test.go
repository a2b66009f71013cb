package server_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/observability/metrics"
	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/server"
	"github.com/rezonia/fatura/internal/zatca"
)

const standardRecord = `{
	"invoice": {
		"invoice_number": "INV-2025-0001",
		"issue_date": "2025-01-01T10:00:00Z",
		"status": "sent",
		"invoice_type": "standard",
		"document_kind": "invoice",
		"subtotal": "15000.00",
		"tax_rate": 15,
		"tax_amount": "2250.00",
		"total_amount": "17250.00"
	},
	"items": [
		{"description": "Consulting", "quantity": 10, "unit_price": "1500.00"}
	],
	"client": {"name": "Ahmed Ali"},
	"seller": {"name": "شركة تجريبية", "vat_number": "310123456700003"}
}`

const legacyRecord = `{
	"invoice_number": "L-1",
	"type": "non_tax",
	"subtotal": 500,
	"total_amount": 500,
	"items": [{"description": "Workshop", "quantity": 1, "unit_price": 500}]
}`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, metrics.Config{ServiceName: "fatura-test"})
	require.NoError(t, err)

	config := &server.Config{
		Address:      ":8080",
		MaxBodyBytes: 1 << 20,
		Debug:        true,
	}
	return server.NewServer(config,
		server.WithGenerator(generator.New(generator.WithMetrics(m))),
		server.WithGatherer(reg),
	)
}

func do(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	response := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestRenderPDFEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/invoices/pdf", standardRecord)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, string(render.TemplateStandardTax), w.Header().Get("X-Fatura-Template"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-2025-0001.pdf")

	fields, err := zatca.ParseTLVBase64(w.Header().Get("X-Fatura-QR"))
	require.NoError(t, err)
	assert.Equal(t, "17250.00", fields.InvoiceTotal)

	info, err := pdf.Inspect(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)

	t.Run("metrics are exported", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `fatura_renders_total{env="unknown",outcome="success",service="fatura-test",template="standard_tax"} 1`)
	})
}

func TestRenderPDFEndpoint_LegacyRecord(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/api/v1/invoices/pdf", legacyRecord)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, string(render.TemplateRegular), w.Header().Get("X-Fatura-Template"))
	assert.Empty(t, w.Header().Get("X-Fatura-QR"))
}

func TestRenderPDFEndpoint_Errors(t *testing.T) {
	longName := strings.Repeat("ش", 128) // 256 bytes
	tooLong := strings.Replace(standardRecord, "شركة تجريبية", longName, 1)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty body", "", http.StatusBadRequest, server.CodeBadRequest},
		{"malformed json", `{"invoice": `, http.StatusBadRequest, server.CodeInvalidRecord},
		{"not an object", `[1, 2]`, http.StatusBadRequest, server.CodeInvalidRecord},
		{"missing items", `{"invoice_number": "X", "invoice_type": "regular"}`, http.StatusUnprocessableEntity, server.CodeValidationFailed},
		{"seller name too long", tooLong, http.StatusUnprocessableEntity, server.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(t), http.MethodPost, "/api/v1/invoices/pdf", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			resp := decode[server.ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRenderPDFEndpoint_BodyTooLarge(t *testing.T) {
	srv := server.NewServer(&server.Config{MaxBodyBytes: 64, Debug: true}, server.WithGatherer(prometheus.NewRegistry()))

	w := do(t, srv, http.MethodPost, "/api/v1/invoices/pdf", standardRecord)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLayoutEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/api/v1/invoices/layout", standardRecord)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[server.LayoutResponse](t, w)
	assert.Equal(t, render.TemplateStandardTax, resp.Template)
	require.NotNil(t, resp.Document)

	total, ok := resp.Document.Total(render.TotalGrand)
	require.True(t, ok)
	assert.Equal(t, "17,250.00 SAR", total.Value)
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("valid", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/api/v1/invoices/validate", standardRecord)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[server.ValidationResponse](t, w)
		assert.True(t, resp.Valid)
		assert.Equal(t, render.TemplateStandardTax, resp.Template)
		assert.Empty(t, resp.Errors)
	})

	t.Run("missing seller", func(t *testing.T) {
		body := strings.Replace(standardRecord, `"name": "شركة تجريبية"`, `"name": ""`, 1)
		w := do(t, srv, http.MethodPost, "/api/v1/invoices/validate", body)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[server.ValidationResponse](t, w)
		assert.False(t, resp.Valid)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "seller.name", resp.Errors[0].Field)
	})

	t.Run("strict", func(t *testing.T) {
		body := strings.Replace(standardRecord, `"subtotal": "15000.00"`, `"subtotal": "14000.00"`, 1)

		w := do(t, srv, http.MethodPost, "/api/v1/invoices/validate", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[server.ValidationResponse](t, w).Warnings)

		w = do(t, srv, http.MethodPost, "/api/v1/invoices/validate?strict=true", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestQREndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := `{"seller_name": "Bobs Records", "vat_number": "310122393500003", "timestamp": "2022-04-25T15:30:00Z",
		"invoice_total": "1000.00", "vat_total": "150.00", "png": true, "size": 128}`
	w := do(t, srv, http.MethodPost, "/api/v1/zatca/qr", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[server.QRResponse](t, w)
	assert.Equal(t, "AQxCb2JzIFJlY29yZHMCDzMxMDEyMjM5MzUwMDAwMwMUMjAyMi0wNC0yNVQxNTozMDowMFoEBzEwMDAuMDAFBjE1MC4wMA==", resp.Payload)

	raw, err := base64.StdEncoding.DecodeString(resp.PNGBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestQREndpoint_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{`, http.StatusBadRequest, server.CodeBadRequest},
		{"missing seller", `{"vat_number": "310122393500003"}`, http.StatusUnprocessableEntity, zatca.ErrCodeMissingField},
		{"value too long", `{"seller_name": "` + strings.Repeat("a", 256) + `"}`, http.StatusUnprocessableEntity, zatca.ErrCodeValueTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/zatca/qr", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[server.ErrorResponse](t, w).Code)
		})
	}
}

func TestDecodeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/zatca/decode",
		`{"payload": "AQxCb2JzIFJlY29yZHMCDzMxMDEyMjM5MzUwMDAwMwMUMjAyMi0wNC0yNVQxNTozMDowMFoEBzEwMDAuMDAFBjE1MC4wMA=="}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[server.DecodeResponse](t, w)
	assert.Equal(t, "Bobs Records", resp.Fields.SellerName)
	assert.Equal(t, "150.00", resp.Fields.VATTotal)
	assert.Len(t, resp.Records, 5)

	w = do(t, srv, http.MethodPost, "/api/v1/zatca/decode", `{"payload": "not base64!"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, zatca.ErrCodeInvalidBase64, decode[server.ErrorResponse](t, w).Code)

	w = do(t, srv, http.MethodPost, "/api/v1/zatca/decode", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rendered := do(t, srv, http.MethodPost, "/api/v1/invoices/pdf", legacyRecord)
	require.Equal(t, http.StatusOK, rendered.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/inspect", bytes.NewReader(rendered.Body.Bytes()))
	req.Header.Set("Content-Type", "application/pdf")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[server.InspectResponse](t, w)
	assert.True(t, resp.Valid)
	assert.Equal(t, 1, resp.Pages)

	w = do(t, srv, http.MethodPost, "/api/v1/pdf/inspect", "hello")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, server.CodeNotPDF, decode[server.ErrorResponse](t, w).Code)

	w = do(t, srv, http.MethodPost, "/api/v1/pdf/inspect", "%PDF-1.4\ngarbage")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, server.CodeInvalidPDF, decode[server.ErrorResponse](t, w).Code)
}

func TestUnknownRoute(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func BenchmarkRenderPDFEndpoint(b *testing.B) {
	srv := server.NewServer(&server.Config{}, server.WithGatherer(prometheus.NewRegistry()))
	handler := srv.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/pdf", strings.NewReader(standardRecord))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}
}
