package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/application/services"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// LeadFormHandlers contains the lead form listing HTTP handlers
type LeadFormHandlers struct {
	leadFormService *services.LeadFormService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewLeadFormHandlers creates lead form handlers with injected dependencies
func NewLeadFormHandlers(leadFormService *services.LeadFormService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadFormHandlers {
	return &LeadFormHandlers{
		leadFormService: leadFormService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// ListForms lists forms for a stored page, resolving the token from the
// account store
func (h *LeadFormHandlers) ListForms(c *gin.Context) {
	accountID := c.Query("accountId")
	pageID := c.Query("pageId")
	if accountID == "" || pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "accountId and pageId are required"})
		return
	}

	marker := h.perfTracker.StartOperation("list_forms_request")
	defer marker.Complete()

	forms, err := h.leadFormService.FormsForPage(c.Request.Context(), accountID, pageID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Upstream().Info("List forms request completed", "pageId", pageID, "count", len(forms))
	c.JSON(http.StatusOK, gin.H{
		"forms": forms,
		"count": len(forms),
	})
}

// ListFormsDirect lists forms for a page using a caller-supplied token
func (h *LeadFormHandlers) ListFormsDirect(c *gin.Context) {
	pageID := c.Query("pageId")
	pageToken := c.Query("pageToken")
	if pageID == "" || pageToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "pageId and pageToken are required"})
		return
	}

	marker := h.perfTracker.StartOperation("list_forms_direct_request")
	defer marker.Complete()

	forms, err := h.leadFormService.FormsDirect(c.Request.Context(), pageID, pageToken)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Upstream().Info("List forms direct request completed", "pageId", pageID, "count", len(forms))
	c.JSON(http.StatusOK, gin.H{
		"forms": forms,
		"count": len(forms),
	})
}
