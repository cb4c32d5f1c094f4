package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/application/services"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// SetCurrentRequest selects the active account.
type SetCurrentRequest struct {
	AccountID string `json:"accountId" binding:"required"`
}

// AddPageRequest attaches a page to an account.
type AddPageRequest struct {
	AccountID string        `json:"accountId" binding:"required"`
	Page      entities.Page `json:"page" binding:"required"`
}

// RefreshTokenRequest triggers the long-lived token exchange for an account.
type RefreshTokenRequest struct {
	AccountID string `json:"accountId" binding:"required"`
}

// AccountHandlers contains all account and token lifecycle HTTP handlers
type AccountHandlers struct {
	accountService *services.AccountService
	tokenService   *services.TokenService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAccountHandlers creates account handlers with injected dependencies
func NewAccountHandlers(accountService *services.AccountService, tokenService *services.TokenService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AccountHandlers {
	return &AccountHandlers{
		accountService: accountService,
		tokenService:   tokenService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// ListAccounts returns the full accounts document
func (h *AccountHandlers) ListAccounts(c *gin.Context) {
	doc, err := h.accountService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpsertAccount adds or updates an account by id
func (h *AccountHandlers) UpsertAccount(c *gin.Context) {
	start := time.Now()
	h.logger.Account().Debug("Received upsert account request", "method", c.Request.Method, "path", c.Request.URL.Path)

	marker := h.perfTracker.StartOperation("upsert_account_request")
	defer marker.Complete()

	var account entities.Account
	if err := c.ShouldBindJSON(&account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid request body", "details": err.Error()})
		return
	}

	doc, err := h.accountService.Upsert(account)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Account().Info("Upsert account request completed", "accountId", account.ID, "duration", time.Since(start))
	c.JSON(http.StatusOK, doc)
}

// SetCurrentAccount moves the current-selection pointer
func (h *AccountHandlers) SetCurrentAccount(c *gin.Context) {
	var req SetCurrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "accountId is required"})
		return
	}

	if err := h.accountService.SetCurrent(req.AccountID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Account().Info("Current account changed", "accountId", req.AccountID)
	c.JSON(http.StatusOK, gin.H{
		"message":   "current account updated",
		"accountId": req.AccountID,
	})
}

// AddPage adds or updates a page under an account
func (h *AccountHandlers) AddPage(c *gin.Context) {
	start := time.Now()
	h.logger.Account().Debug("Received add page request", "method", c.Request.Method, "path", c.Request.URL.Path)

	marker := h.perfTracker.StartOperation("add_page_request")
	defer marker.Complete()

	var req AddPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid request body", "details": err.Error()})
		return
	}

	updated, err := h.accountService.AddPage(req.AccountID, req.Page)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Account().Info("Add page request completed",
		"accountId", req.AccountID, "pageId", req.Page.ID, "updated", updated, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"message": "page saved",
		"pageId":  req.Page.ID,
		"updated": updated,
	})
}

// ListPermanentPages returns the permanent pages registry
func (h *AccountHandlers) ListPermanentPages(c *gin.Context) {
	doc, err := h.accountService.PermanentPages()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeletePermanentPage removes one registry entry by pageId query parameter
func (h *AccountHandlers) DeletePermanentPage(c *gin.Context) {
	pageID := c.Query("pageId")
	if pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "pageId is required"})
		return
	}

	if err := h.accountService.DeletePermanentPage(pageID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Account().Info("Permanent page removed", "pageId", pageID)
	c.JSON(http.StatusOK, gin.H{
		"message": "permanent page removed",
		"pageId":  pageID,
	})
}

// RefreshToken exchanges the account's short-lived token for a long-lived one
func (h *AccountHandlers) RefreshToken(c *gin.Context) {
	start := time.Now()
	h.logger.Account().Debug("Received refresh token request", "method", c.Request.Method, "path", c.Request.URL.Path)

	marker := h.perfTracker.StartOperation("refresh_token_request")
	defer marker.Complete()

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "accountId is required"})
		return
	}

	account, err := h.tokenService.Refresh(c.Request.Context(), req.AccountID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for RefreshToken request", "duration", time.Since(start), "success", true, "accountId", req.AccountID)
	h.logger.Account().Info("Refresh token request completed",
		"accountId", req.AccountID, "expiry", account.LongLivedTokenExpiry, "duration", time.Since(start))
	c.JSON(http.StatusOK, account)
}
