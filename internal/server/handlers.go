package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/auth"
	"github.com/snapextract/snapextract/internal/consolidate"
	"github.com/snapextract/snapextract/internal/export"
	"github.com/snapextract/snapextract/internal/extract"
	"github.com/snapextract/snapextract/internal/models"
	"github.com/snapextract/snapextract/internal/profile"
	"github.com/snapextract/snapextract/internal/sheets"
)

// HandlerDeps bundles the collaborators the handlers call into.
type HandlerDeps struct {
	Auth               *auth.Service
	Profile            *profile.Store
	Extractor          extract.Extractor
	Summarizer         extract.Summarizer
	Converter          *extract.Converter
	Appender           sheets.Appender
	MaxFileSizeMB      int
	ExtractConcurrency int
	Logger             *zap.Logger
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps HandlerDeps
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps HandlerDeps) *Handlers {
	return &Handlers{deps: deps}
}

// Response is the standard JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExtractResponse is the payload returned by the extract endpoint.
type ExtractResponse struct {
	Record     models.BillRecord `json:"record"`
	Summary    string            `json:"summary,omitempty"`
	HasSummary bool              `json:"hasSummary"`
	ImageCount int               `json:"imageCount"`
	Warning    string            `json:"warning,omitempty"`
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "snapextract",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// LoginRequest is the credential payload for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the configured credential pair for a bearer token.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "username and password are required"})
		return
	}

	token, err := h.deps.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
			return
		}
		h.deps.Logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"token": token}})
}

// Extract accepts multipart bill uploads (field "images", PNG/JPEG/PDF),
// extracts each image, consolidates the results under the requested
// policies and attaches a summary.
func (h *Handlers) Extract(c *gin.Context) {
	datePolicy, err := consolidate.ParseDatePolicy(c.Query("date_policy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	vendorPolicy, err := consolidate.ParseVendorPolicy(c.Query("vendor_policy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "multipart form expected"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: consolidate.ErrNoRecords.Error()})
		return
	}

	maxBytes := int64(h.deps.MaxFileSizeMB) << 20
	var images [][]byte
	for _, fh := range files {
		if fh.Size > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, Response{
				Success: false,
				Error:   fmt.Sprintf("file %s exceeds the %d MB limit", fh.Filename, h.deps.MaxFileSizeMB),
			})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("failed to open upload %s", fh.Filename)})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("failed to read upload %s", fh.Filename)})
			return
		}

		converted, err := h.deps.Converter.Convert(fh.Filename, data)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}
		images = append(images, converted...)
	}

	records, err := extract.ExtractAll(c.Request.Context(), h.deps.Extractor, images, h.deps.ExtractConcurrency, h.deps.Logger)
	if err != nil {
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: fmt.Sprintf("extraction failed: %v", err)})
		return
	}

	record, err := consolidate.Consolidate(records, consolidate.Options{
		DatePolicy:   datePolicy,
		VendorPolicy: vendorPolicy,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	resp := ExtractResponse{Record: record, ImageCount: len(images)}

	serialized, err := json.Marshal(record)
	if err != nil {
		h.deps.Logger.Error("Failed to serialize record for summary", zap.Error(err))
		resp.Warning = "data extracted, but summarization was skipped"
	} else if summary, err := h.deps.Summarizer.Summarize(c.Request.Context(), string(serialized)); err != nil {
		h.deps.Logger.Warn("Summarization failed", zap.Error(err))
		resp.Warning = "data extracted, but summarization failed"
	} else {
		resp.Summary = summary
		resp.HasSummary = true
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// bindBundle decodes the export bundle from the request body and checks
// the record is present.
func (h *Handlers) bindBundle(c *gin.Context) (models.ExportBundle, bool) {
	var bundle models.ExportBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid export bundle"})
		return bundle, false
	}
	if bundle.Record == nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: export.ErrMissingRecord.Error()})
		return bundle, false
	}
	bundle.Record.NormalizeLineItems()
	return bundle, true
}

// ExportText returns the canonical plain-text block for the clipboard.
func (h *Handlers) ExportText(c *gin.Context) {
	bundle, ok := h.bindBundle(c)
	if !ok {
		return
	}

	text, err := export.RenderPlainText(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"text": text}})
}

// MailtoResponse is the payload for the mailto export path.
type MailtoResponse struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	URI     string `json:"uri"`
}

// ExportMailto builds the mailto URI for the configured profile email.
func (h *Handlers) ExportMailto(c *gin.Context) {
	bundle, ok := h.bindBundle(c)
	if !ok {
		return
	}

	email, err := h.deps.Profile.GetEmail(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load profile"})
		return
	}
	if email == "" {
		c.JSON(http.StatusConflict, Response{Success: false, Error: "no profile email set; the mailto export is disabled"})
		return
	}

	subject, err := export.RenderMailSubject(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	body, err := export.RenderPlainText(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	uri, err := export.RenderMailtoURI(bundle, email)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: MailtoResponse{
		To:      email,
		Subject: subject,
		Body:    body,
		URI:     uri,
	}})
}

// ExportCSV streams the CSV document as a download.
func (h *Handlers) ExportCSV(c *gin.Context) {
	bundle, ok := h.bindBundle(c)
	if !ok {
		return
	}

	doc, err := export.RenderCSV(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	filename := export.CSVFilename(bundle.Record)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.CSVContentType, []byte(doc))
}

// ExportXLSX streams the XLSX workbook as a download.
func (h *Handlers) ExportXLSX(c *gin.Context) {
	bundle, ok := h.bindBundle(c)
	if !ok {
		return
	}

	f, err := export.RenderWorkbook(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	defer f.Close()

	filename := export.WorkbookFilename(bundle.Record)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", export.WorkbookContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.deps.Logger.Error("Failed to stream workbook", zap.Error(err))
	}
}

// ExportSheets hands the sheet-row payload to the append sink.
func (h *Handlers) ExportSheets(c *gin.Context) {
	bundle, ok := h.bindBundle(c)
	if !ok {
		return
	}

	row, err := export.RenderSheetRow(bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	result, err := h.deps.Appender.Append(c.Request.Context(), row)
	if err != nil {
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: fmt.Sprintf("sheet append failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ProfileRequest is the payload for updating the profile email.
type ProfileRequest struct {
	Email string `json:"email" binding:"required"`
}

// GetProfile returns the stored export email address.
func (h *Handlers) GetProfile(c *gin.Context) {
	email, err := h.deps.Profile.GetEmail(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"email": email}})
}

// UpdateProfile stores a new export email address.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "email is required"})
		return
	}

	if err := h.deps.Profile.SetEmail(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"email": req.Email}})
}
