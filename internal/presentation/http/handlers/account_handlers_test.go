package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadrelay/leadrelay-go/internal/application/services"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/persistence"
)

func newAccountRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	logger := logging.NewChanneledLogger(slog.LevelError)
	accountStore := persistence.NewAccountStore(dir, time.Now, logger)
	permanentStore := persistence.NewPermanentPageStore(dir, time.Now, logger)
	accountService := services.NewAccountService(accountStore, permanentStore)

	h := NewAccountHandlers(accountService, nil, logger, performance.NewTracker(16))

	r := gin.New()
	r.GET("/api/v1/accounts", h.ListAccounts)
	r.POST("/api/v1/accounts", h.UpsertAccount)
	r.POST("/api/v1/accounts/set-current", h.SetCurrentAccount)
	r.POST("/api/v1/accounts/add-page", h.AddPage)
	r.GET("/api/v1/accounts/permanent-pages", h.ListPermanentPages)
	r.DELETE("/api/v1/accounts/permanent-pages", h.DeletePermanentPage)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccountsEndpointFirstPostBecomesCurrent(t *testing.T) {
	r := newAccountRouter(t)

	w := postJSON(t, r, "/api/v1/accounts", entities.Account{
		ID: "a1", Name: "Acme", AppID: "app", AppSecret: "secret", ShortLivedToken: "short",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var doc entities.AccountsDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "a1", doc.CurrentAccountID)
	assert.Len(t, doc.Accounts, 1)
}

func TestAccountsEndpointRejectsIncompletePayload(t *testing.T) {
	r := newAccountRouter(t)

	w := postJSON(t, r, "/api/v1/accounts", entities.Account{ID: "a1", Name: "Acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}

func TestSetCurrentEndpointUnknownAccount(t *testing.T) {
	r := newAccountRouter(t)

	w := postJSON(t, r, "/api/v1/accounts/set-current", gin.H{"accountId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestPermanentPagesEndpointFlow(t *testing.T) {
	r := newAccountRouter(t)

	w := postJSON(t, r, "/api/v1/accounts", entities.Account{
		ID: "a1", Name: "Acme", AppID: "app", AppSecret: "secret", ShortLivedToken: "short",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/v1/accounts/add-page", gin.H{
		"accountId": "a1",
		"page":      gin.H{"id": "p1", "name": "Durable", "access_token": "t", "isPermanent": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/permanent-pages", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var registry entities.PermanentPagesDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registry))
	require.Len(t, registry.Pages, 1)
	assert.Equal(t, "a1", registry.Pages[0].AccountID)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/permanent-pages?pageId=p1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/permanent-pages", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	registry = entities.PermanentPagesDocument{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registry))
	assert.Empty(t, registry.Pages)
}
