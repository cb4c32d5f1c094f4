package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/email"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/export"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// DeliveryReceipt reports one dispatched attachment.
type DeliveryReceipt struct {
	Filename  string `json:"filename"`
	To        string `json:"to"`
	MessageID string `json:"messageId"`
	RowCount  int    `json:"rowCount"`
}

// DeliveryService fans export artifacts out over email, one message per
// chunk, concurrently.
type DeliveryService struct {
	sender email.Service
	logger *logging.ChanneledLogger
	perf   *performance.Tracker
}

// NewDeliveryService creates a delivery service.
func NewDeliveryService(sender email.Service, logger *logging.ChanneledLogger, perf *performance.Tracker) *DeliveryService {
	return &DeliveryService{
		sender: sender,
		logger: logger,
		perf:   perf,
	}
}

// Deliver sends every artifact as its own message. Chunk i goes to
// recipients[i] when that entry exists and is non-blank, else to the first
// recipient; only the addresses actually used are validated. The batch is
// all-or-nothing: any failed send fails the call, and sends already in
// flight are not recalled.
func (s *DeliveryService) Deliver(ctx context.Context, artifacts []export.Artifact, recipients []string, formName, rangeLabel string) ([]DeliveryReceipt, error) {
	if len(artifacts) == 0 {
		return nil, apperr.InvalidInput("nothing to deliver")
	}
	if len(recipients) == 0 {
		return nil, apperr.InvalidInput("at least one recipient email is required")
	}

	targets := make([]string, len(artifacts))
	for i := range artifacts {
		to := recipients[0]
		if i < len(recipients) && strings.TrimSpace(recipients[i]) != "" {
			to = recipients[i]
		}
		if !email.ValidAddress(to) {
			return nil, apperr.InvalidInput(fmt.Sprintf("invalid email address: %s", to))
		}
		targets[i] = to
	}

	marker := s.perf.StartOperation("email_delivery")
	defer marker.Complete()

	receipts := make([]DeliveryReceipt, len(artifacts))

	g, ctx := errgroup.WithContext(ctx)
	for i, artifact := range artifacts {
		i, artifact := i, artifact
		to := targets[i]
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			msg := email.Message{
				To:      to,
				Subject: "Lead Data: " + trimExtension(artifact.Filename),
				Body:    composeBody(formName, rangeLabel, artifact, i+1, len(artifacts)),
				Attachment: &email.Attachment{
					Filename:    artifact.Filename,
					ContentType: artifact.ContentType,
					Data:        artifact.Data,
				},
			}
			id, err := s.sender.Send(msg)
			if err != nil {
				return err
			}
			receipts[i] = DeliveryReceipt{
				Filename:  artifact.Filename,
				To:        to,
				MessageID: id,
				RowCount:  artifact.RowCount,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		marker.SetError(err)
		return nil, err
	}
	marker.SetSuccess(true)

	s.logger.Email().Info("Delivered export batch",
		"form", formName, "parts", len(artifacts), "recipients", len(recipients))
	return receipts, nil
}

func trimExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}

func composeBody(formName, rangeLabel string, artifact export.Artifact, part, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attached is the lead data export for %q.\n\n", formName)
	if total > 1 {
		fmt.Fprintf(&b, "Part %d of %d.\n", part, total)
	}
	if rangeLabel != "" {
		fmt.Fprintf(&b, "Date range: %s\n", rangeLabel)
	}
	fmt.Fprintf(&b, "Leads in this file: %d\n", artifact.RowCount)
	return b.String()
}
