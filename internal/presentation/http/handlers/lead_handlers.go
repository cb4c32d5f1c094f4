package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/application/services"
	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/export"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// EmailLeadsRequest describes an export-and-deliver job.
type EmailLeadsRequest struct {
	FormID     string   `json:"formId" binding:"required"`
	PageToken  string   `json:"pageToken" binding:"required"`
	FormName   string   `json:"formName"`
	Range      string   `json:"range"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Format     string   `json:"format"`
	SplitCount int      `json:"splitCount"`
	Emails     []string `json:"emails" binding:"required"`
}

// RefreshLeadsRequest drops the memoized leads for a form.
type RefreshLeadsRequest struct {
	FormID string `json:"formId" binding:"required"`
}

// LeadHandlers contains the lead retrieval, download and email HTTP handlers
type LeadHandlers struct {
	leadService     *services.LeadService
	exportService   *services.ExportService
	deliveryService *services.DeliveryService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
	clock           func() time.Time
}

// NewLeadHandlers creates lead handlers with injected dependencies. A nil
// clock defaults to time.Now.
func NewLeadHandlers(leadService *services.LeadService, exportService *services.ExportService, deliveryService *services.DeliveryService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, clock func() time.Time) *LeadHandlers {
	if clock == nil {
		clock = time.Now
	}
	return &LeadHandlers{
		leadService:     leadService,
		exportService:   exportService,
		deliveryService: deliveryService,
		logger:          logger,
		perfTracker:     perfTracker,
		clock:           clock,
	}
}

// resolveWindow turns the range/from/to selection into a concrete window plus
// its display label. An empty selection means all time; a named bucket must
// be one of the predefined keys.
func resolveWindow(rangeKey, from, to string, now time.Time) (entities.RangeKey, entities.DateRange, string, error) {
	if rangeKey != "" && rangeKey != string(entities.RangeCustom) {
		key := entities.RangeKey(rangeKey)
		window, label := entities.ResolveRange(key, now)
		if label == "" {
			return "", entities.DateRange{}, "", apperr.InvalidInput("unknown date range: " + rangeKey)
		}
		return key, window, label, nil
	}

	if from == "" && to == "" {
		return entities.RangeAllTime, entities.DateRange{}, "All time", nil
	}

	window, err := entities.ParseCustomRange(from, to)
	if err != nil {
		return "", entities.DateRange{}, "", apperr.InvalidInput("dates must use the YYYY-MM-DD format")
	}
	return entities.RangeCustom, window, "", nil
}

// displayLabel renders the window for email bodies when no bucket label
// applies.
func displayLabel(label string, window entities.DateRange) string {
	if label != "" {
		return label
	}
	const day = "2006-01-02"
	switch {
	case !window.From.IsZero() && !window.To.IsZero():
		return window.From.Format(day) + " to " + window.To.Format(day)
	case !window.From.IsZero():
		return "from " + window.From.Format(day)
	case !window.To.IsZero():
		return "until " + window.To.Format(day)
	default:
		return "All time"
	}
}

// PreviewDirect performs a single bounded fetch with a caller-supplied token
func (h *LeadHandlers) PreviewDirect(c *gin.Context) {
	formID := c.Query("formId")
	pageToken := c.Query("pageToken")
	if formID == "" || pageToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "formId and pageToken are required"})
		return
	}

	_, window, _, err := resolveWindow(c.Query("range"), c.Query("from"), c.Query("to"), h.clock())
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.leadService.Preview(c.Request.Context(), formID, pageToken, window)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Upstream().Info("Lead preview completed", "formId", formID, "count", len(result.Leads), "hasMore", result.HasMore)
	c.JSON(http.StatusOK, gin.H{
		"leads":   result.Leads,
		"count":   len(result.Leads),
		"hasMore": result.HasMore,
	})
}

// DownloadDirect runs the full retrieval pipeline and streams the export.
// A split export is bundled into a single zip archive.
func (h *LeadHandlers) DownloadDirect(c *gin.Context) {
	start := time.Now()
	formID := c.Query("formId")
	pageToken := c.Query("pageToken")
	if formID == "" || pageToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "formId and pageToken are required"})
		return
	}

	marker := h.perfTracker.StartOperation("download_leads_request")
	defer marker.Complete()

	key, window, label, err := resolveWindow(c.Query("range"), c.Query("from"), c.Query("to"), h.clock())
	if err != nil {
		respondError(c, err)
		return
	}

	splitCount := 1
	if raw := c.Query("splitCount"); raw != "" {
		splitCount, err = strconv.Atoi(raw)
		if err != nil || splitCount < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "splitCount must be a positive integer"})
			return
		}
	}

	result, err := h.leadService.FetchWindow(c.Request.Context(), formID, pageToken, window)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	artifacts, err := h.exportService.Build(services.ExportRequest{
		Leads:      result.Leads,
		FormName:   c.Query("formName"),
		RangeKey:   key,
		Window:     window,
		RangeLabel: label,
		Format:     export.ParseFormat(c.Query("format")),
		SplitCount: splitCount,
	})
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	body := artifacts[0]
	if len(artifacts) > 1 {
		base := export.BaseFilename(c.Query("formName"), entities.FilenameLabel(key, window, label))
		body, err = h.exportService.Bundle(artifacts, base)
		if err != nil {
			marker.SetError(err)
			respondError(c, err)
			return
		}
	}

	marker.SetSuccess(true)
	h.logger.Export().Info("Download request completed",
		"formId", formID, "rows", body.RowCount, "parts", len(artifacts),
		"fromCache", result.FromCache, "duration", time.Since(start))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", body.Filename))
	c.Header("X-Has-More", strconv.FormatBool(result.HasMore))
	c.Data(http.StatusOK, body.ContentType, body.Data)
}

// RefreshLeads drops the cached leads for a form so the next retrieval goes
// back upstream
func (h *LeadHandlers) RefreshLeads(c *gin.Context) {
	var req RefreshLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "formId is required"})
		return
	}

	h.leadService.Invalidate(req.FormID)

	h.logger.Upstream().Info("Lead cache invalidated", "formId", req.FormID)
	c.JSON(http.StatusOK, gin.H{
		"message": "lead cache refreshed",
		"formId":  req.FormID,
	})
}

// EmailLeads runs the retrieval pipeline and emails each chunk concurrently
func (h *LeadHandlers) EmailLeads(c *gin.Context) {
	start := time.Now()
	h.logger.Email().Debug("Received email leads request", "method", c.Request.Method, "path", c.Request.URL.Path)

	marker := h.perfTracker.StartOperation("email_leads_request")
	defer marker.Complete()

	var req EmailLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid request body", "details": err.Error()})
		return
	}

	key, window, label, err := resolveWindow(req.Range, req.From, req.To, h.clock())
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.leadService.FetchWindow(c.Request.Context(), req.FormID, req.PageToken, window)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	artifacts, err := h.exportService.Build(services.ExportRequest{
		Leads:      result.Leads,
		FormName:   req.FormName,
		RangeKey:   key,
		Window:     window,
		RangeLabel: label,
		Format:     export.ParseFormat(req.Format),
		SplitCount: req.SplitCount,
	})
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	receipts, err := h.deliveryService.Deliver(c.Request.Context(), artifacts, req.Emails, req.FormName, displayLabel(label, window))
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for EmailLeads request", "duration", time.Since(start), "success", true, "parts", len(receipts))
	h.logger.Email().Info("Email leads request completed",
		"formId", req.FormID, "parts", len(receipts), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"message":  "lead data emailed",
		"parts":    len(receipts),
		"receipts": receipts,
		"hasMore":  result.HasMore,
	})
}
