package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/email"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/export"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// fakeSender records messages and optionally fails specific recipients.
type fakeSender struct {
	mu     sync.Mutex
	sent   []email.Message
	failTo string
}

func (f *fakeSender) Send(msg email.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.To == f.failTo {
		return "", errors.New("relay rejected recipient")
	}
	f.sent = append(f.sent, msg)
	return "msg-" + msg.To, nil
}

func testArtifacts(n int) []export.Artifact {
	artifacts := make([]export.Artifact, 0, n)
	for i := 0; i < n; i++ {
		artifacts = append(artifacts, export.Artifact{
			Filename:    export.PartFilename("form_all_time", i+1, n) + ".csv",
			ContentType: export.ContentTypeCSV,
			Data:        []byte("a,b\n1,2\n"),
			RowCount:    2,
		})
	}
	return artifacts
}

func newDeliveryService(sender email.Service) *DeliveryService {
	return NewDeliveryService(sender, testLogger(), performance.NewTracker(16))
}

func TestDeliverSingleRecipientGetsEveryChunk(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	receipts, err := svc.Deliver(context.Background(), testArtifacts(3), []string{"ops@example.com"}, "Spring Campaign", "All time")
	require.NoError(t, err)
	require.Len(t, receipts, 3)

	for _, r := range receipts {
		assert.Equal(t, "ops@example.com", r.To)
		assert.NotEmpty(t, r.MessageID)
	}
	assert.Len(t, sender.sent, 3)
}

func TestDeliverMatchingRecipientsGoPerChunk(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	receipts, err := svc.Deliver(context.Background(), testArtifacts(3), recipients, "Spring Campaign", "All time")
	require.NoError(t, err)
	require.Len(t, receipts, 3)

	for i, r := range receipts {
		assert.Equal(t, recipients[i], r.To, "chunk %d routes to its own recipient", i)
	}
}

func TestDeliverFewerRecipientsThanChunksFallsBackPerChunk(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	recipients := []string{"a@example.com", "b@example.com"}
	receipts, err := svc.Deliver(context.Background(), testArtifacts(3), recipients, "Spring Campaign", "All time")
	require.NoError(t, err)
	require.Len(t, receipts, 3)

	assert.Equal(t, "a@example.com", receipts[0].To)
	assert.Equal(t, "b@example.com", receipts[1].To, "second chunk keeps its own recipient")
	assert.Equal(t, "a@example.com", receipts[2].To, "unmatched chunk falls back to the first recipient")
}

func TestDeliverBlankOverrideFallsBackToFirstRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	recipients := []string{"a@example.com", "  ", "c@example.com"}
	receipts, err := svc.Deliver(context.Background(), testArtifacts(3), recipients, "Spring Campaign", "All time")
	require.NoError(t, err)
	require.Len(t, receipts, 3)

	assert.Equal(t, "a@example.com", receipts[0].To)
	assert.Equal(t, "a@example.com", receipts[1].To, "blank override falls back, not fails")
	assert.Equal(t, "c@example.com", receipts[2].To)
}

func TestDeliverIgnoresUnusedRecipients(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	// Only the first entry is routed to; the malformed extras are never used.
	receipts, err := svc.Deliver(context.Background(), testArtifacts(1), []string{"a@example.com", "not-an-address"}, "Spring Campaign", "All time")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "a@example.com", receipts[0].To)
}

func TestDeliverComposesSubjectAndBody(t *testing.T) {
	sender := &fakeSender{}
	svc := newDeliveryService(sender)

	_, err := svc.Deliver(context.Background(), testArtifacts(2), []string{"ops@example.com"}, "Spring Campaign", "Last 7 days")
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)

	subjects := map[string]bool{}
	for _, msg := range sender.sent {
		subjects[msg.Subject] = true
		assert.Contains(t, msg.Body, "Spring Campaign")
		assert.Contains(t, msg.Body, "Last 7 days")
		assert.Contains(t, msg.Body, "Leads in this file: 2")
		require.NotNil(t, msg.Attachment)
		assert.NotEmpty(t, msg.Attachment.Data)
	}
	assert.True(t, subjects["Lead Data: form_all_time_part1_of_2"])
	assert.True(t, subjects["Lead Data: form_all_time_part2_of_2"])
}

func TestDeliverFailedSendFailsBatch(t *testing.T) {
	sender := &fakeSender{failTo: "b@example.com"}
	svc := newDeliveryService(sender)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	_, err := svc.Deliver(context.Background(), testArtifacts(3), recipients, "Spring Campaign", "All time")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay rejected recipient")
}

func TestDeliverValidatesRecipients(t *testing.T) {
	svc := newDeliveryService(&fakeSender{})

	_, err := svc.Deliver(context.Background(), testArtifacts(1), nil, "form", "")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Deliver(context.Background(), testArtifacts(1), []string{"not-an-address"}, "form", "")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Deliver(context.Background(), nil, []string{"ops@example.com"}, "form", "")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}
