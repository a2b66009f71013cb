// Package server exposes the generator over a gin HTTP API.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rezonia/fatura/internal/generator"
	"github.com/rezonia/fatura/internal/loader"
	"github.com/rezonia/fatura/internal/model"
	"github.com/rezonia/fatura/internal/observability/logger"
	"github.com/rezonia/fatura/internal/pdf"
	"github.com/rezonia/fatura/internal/render"
	"github.com/rezonia/fatura/internal/validation"
	"github.com/rezonia/fatura/internal/zatca"
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	QRSize         int
	Debug          bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	generator *generator.Generator
	loader    *loader.Registry
	log       *zap.Logger
	gatherer  prometheus.Gatherer
}

// Option configures a Server
type Option func(*Server)

// WithGenerator sets the generator used by the render endpoints
func WithGenerator(g *generator.Generator) Option {
	return func(s *Server) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithLogger sets the request logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = logger.OrNop(log)
	}
}

// WithGatherer sets the registry served on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.QRSize <= 0 {
		config.QRSize = zatca.DefaultQRSize
	}

	s := &Server{
		config:    config,
		router:    gin.New(),
		generator: generator.New(),
		loader:    loader.NewRegistry(),
		log:       zap.NewNop(),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(logger.GinMiddleware(logger.MiddlewareConfig{Logger: s.log, Debug: config.Debug}))
	if config.MaxBodyBytes > 0 {
		s.router.Use(limitBody(config.MaxBodyBytes))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		// Invoice endpoints take a resolved record in either schema version
		v1.POST("/invoices/pdf", s.handleRenderPDF)
		v1.POST("/invoices/layout", s.handleLayout)
		v1.POST("/invoices/validate", s.handleValidate)

		v1.POST("/zatca/qr", s.handleQR)
		v1.POST("/zatca/decode", s.handleDecode)

		v1.POST("/pdf/inspect", s.handleInspect)
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRenderPDF(c *gin.Context) {
	bundle, ok := s.readRecord(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.generator.Generate(ctx, bundle)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Set("template", string(result.Template))
	c.Header("X-Fatura-Template", string(result.Template))
	if result.QRPayload != "" {
		c.Header("X-Fatura-QR", result.QRPayload)
	}
	if len(result.Warnings) > 0 {
		c.Header("X-Fatura-Warnings", strconv.Itoa(len(result.Warnings)))
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName(bundle)))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

func (s *Server) handleLayout(c *gin.Context) {
	bundle, ok := s.readRecord(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.generator.Layout(ctx, bundle)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Set("template", string(result.Template))
	c.JSON(http.StatusOK, LayoutResponse{
		Template:  result.Template,
		QRPayload: result.QRPayload,
		Document:  result.Document,
		Warnings:  result.Warnings,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	bundle, ok := s.readRecord(c)
	if !ok {
		return
	}

	var opts []validation.Option
	if strict, _ := strconv.ParseBool(c.Query("strict")); strict {
		opts = append(opts, validation.Strict())
	}

	report := validation.Validate(bundle, opts...)
	resp := ValidationResponse{
		Valid:    report.Valid(),
		Template: render.SelectFor(&bundle.Invoice).Name(),
		Warnings: report.Warnings,
	}
	for _, e := range report.Errors {
		resp.Errors = append(resp.Errors, ValidationIssue{Field: e.Field, Rule: e.Rule, Message: e.Message})
	}

	status := http.StatusOK
	if !resp.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

func (s *Server) handleQR(c *gin.Context) {
	var req QRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Code: CodeBadRequest})
		return
	}

	payload, err := req.Fields.Encode()
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := QRResponse{Payload: payload}
	if req.PNG {
		size := req.Size
		if size <= 0 {
			size = s.config.QRSize
		}
		img, err := zatca.RenderQR(payload, size)
		if err != nil {
			s.writeError(c, err)
			return
		}
		resp.PNGBase64 = base64.StdEncoding.EncodeToString(img)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Code: CodeBadRequest})
		return
	}

	records, err := zatca.DecodeBase64(req.Payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	fields, err := zatca.ParseTLVBase64(req.Payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, DecodeResponse{Fields: fields, Records: records})
}

func (s *Server) handleInspect(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	info, err := pdf.Inspect(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, InspectResponse{Info: info, Valid: true})
}

// readRecord parses the request body as an invoice record
func (s *Server) readRecord(c *gin.Context) (*model.Bundle, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}

	bundle, err := s.loader.Parse(c.Request.Context(), body)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return bundle, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: CodeBadRequest})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", Code: CodeBadRequest})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body", Code: CodeBadRequest})
		return nil, false
	}
	return body, true
}

// writeError maps pipeline errors onto HTTP responses
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		loadErr *model.LoadError
		valErr  *model.ValidationError
		encErr  *zatca.EncodingError
	)
	switch {
	case errors.As(err, &loadErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRecord, Field: loadErr.Field})
	case errors.As(err, &encErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: encErr.Code})
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(),
			Code:  CodeValidationFailed,
			Field: valErr.Field,
			Rule:  valErr.Rule,
		})
	case errors.Is(err, pdf.ErrNotPDF):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeNotPDF})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out", Code: CodeTimeout})
	case strings.HasPrefix(c.FullPath(), "/api/v1/pdf/"):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeInvalidPDF})
	default:
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: CodeInternal})
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func fileName(b *model.Bundle) string {
	name := strings.TrimSpace(b.Invoice.InvoiceNumber)
	if name == "" {
		name = "invoice"
	}
	return strings.NewReplacer("/", "-", "\\", "-", " ", "_").Replace(name) + ".pdf"
}
