package server

import (
	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/zatca"
)

// Error codes returned alongside HTTP errors that are not encoding failures
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidRecord    = "INVALID_RECORD"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotPDF           = "NOT_PDF"
	CodeInvalidPDF       = "INVALID_PDF"
	CodeTimeout          = "TIMEOUT"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Field    string   `json:"field,omitempty"`
	Rule     string   `json:"rule,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidationIssue is one failed validation rule
type ValidationIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool                `json:"valid"`
	Template render.TemplateName `json:"template"`
	Errors   []ValidationIssue   `json:"errors,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
}

// LayoutResponse is the response for the layout endpoint
type LayoutResponse struct {
	Template  render.TemplateName `json:"template"`
	QRPayload string              `json:"qr_payload,omitempty"`
	Document  *render.Document    `json:"document"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// QRRequest carries the five ZATCA fields
type QRRequest struct {
	zatca.Fields
	// PNG asks for the rendered image alongside the payload
	PNG  bool `json:"png,omitempty"`
	Size int  `json:"size,omitempty"`
}

// QRResponse is the response for the QR endpoint
type QRResponse struct {
	Payload   string `json:"payload"`
	PNGBase64 string `json:"png_base64,omitempty"`
}

// DecodeRequest carries a Base64 QR payload
type DecodeRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// DecodeResponse is the response for the decode endpoint
type DecodeResponse struct {
	Fields  zatca.Fields   `json:"fields"`
	Records []zatca.Record `json:"records"`
}

// InspectResponse is the response for the PDF inspect endpoint
type InspectResponse struct {
	*pdf.Info
	Valid bool `json:"valid"`
}
