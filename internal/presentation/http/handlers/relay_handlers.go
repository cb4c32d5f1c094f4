package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/infrastructure/caching/stores"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/email"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// RelayHandlers exposes the raw email relay and the operational surface.
type RelayHandlers struct {
	emailService email.Service
	leadCache    *stores.LeadStore
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	startedAt    time.Time
}

// NewRelayHandlers creates relay handlers with injected dependencies
func NewRelayHandlers(emailService email.Service, leadCache *stores.LeadStore, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RelayHandlers {
	return &RelayHandlers{
		emailService: emailService,
		leadCache:    leadCache,
		logger:       logger,
		perfTracker:  perfTracker,
		startedAt:    time.Now(),
	}
}

// SendEmail relays one multipart message: to, subject, message, plus an
// optional attachment file part
func (h *RelayHandlers) SendEmail(c *gin.Context) {
	to := c.PostForm("to")
	subject := c.PostForm("subject")
	body := c.PostForm("message")

	if to == "" || subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "to and subject are required"})
		return
	}
	if !email.ValidAddress(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid email address: " + to})
		return
	}

	msg := email.Message{To: to, Subject: subject, Body: body}

	if fileHeader, err := c.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "attachment could not be read"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "attachment could not be read"})
			return
		}
		msg.Attachment = &email.Attachment{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	messageID, err := h.emailService.Send(msg)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Email().Info("Relay send completed", "to", to, "messageId", messageID)
	c.JSON(http.StatusOK, gin.H{
		"message":   "email sent",
		"messageId": messageID,
	})
}

// Health reports process liveness, cache occupancy and recent operation
// timings
func (h *RelayHandlers) Health(c *gin.Context) {
	markers := h.perfTracker.Recent()
	completed := 0
	failed := 0
	for _, m := range markers {
		if !m.Completed {
			continue
		}
		completed++
		if !m.Success {
			failed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(h.startedAt).String(),
		"cachedForms": h.leadCache.Len(),
		"operations": gin.H{
			"tracked":   len(markers),
			"completed": completed,
			"failed":    failed,
		},
	})
}
