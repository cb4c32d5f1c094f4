// Package container wires the application's singletons: stores, the upstream
// client, the email relay and the services on top of them.
package container

import (
	"log/slog"
	"time"

	"github.com/leadrelay/leadrelay-go/internal/application/services"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/caching/stores"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/email"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/persistence"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/upstream"
	"github.com/leadrelay/leadrelay-go/pkg/config"
)

// Container holds every long-lived dependency for the process.
type Container struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker

	AccountStore       *persistence.AccountStore
	PermanentPageStore *persistence.PermanentPageStore
	LeadCache          *stores.LeadStore
	GraphClient        *upstream.GraphClient
	EmailService       email.Service

	AccountService  *services.AccountService
	TokenService    *services.TokenService
	LeadFormService *services.LeadFormService
	LeadService     *services.LeadService
	ExportService   *services.ExportService
	DeliveryService *services.DeliveryService
}

// NewContainer builds the full dependency graph from the resolved config.
func NewContainer() *Container {
	logger := logging.NewChanneledLogger(slog.LevelInfo)
	perfTracker := performance.NewTracker(1000)

	accountStore := persistence.NewAccountStore(config.DataDir, time.Now, logger)
	permanentStore := persistence.NewPermanentPageStore(config.DataDir, time.Now, logger)
	leadCache := stores.NewLeadStore(time.Now)

	graphClient := upstream.NewGraphClient(
		config.GraphAPIBaseURL,
		config.GraphAPIVersion,
		config.UpstreamTimeout,
		logger,
	)

	emailService := email.NewService(email.Config{
		Provider:     config.EmailProvider,
		FromAddress:  config.EmailFrom,
		FromName:     config.EmailFromName,
		SMTPHost:     config.SMTPHost,
		SMTPPort:     config.SMTPPort,
		SMTPUser:     config.SMTPUser,
		SMTPPass:     config.SMTPPass,
		ResendAPIKey: config.ResendAPIKey,
	}, logger)

	return &Container{
		Logger:      logger,
		PerfTracker: perfTracker,

		AccountStore:       accountStore,
		PermanentPageStore: permanentStore,
		LeadCache:          leadCache,
		GraphClient:        graphClient,
		EmailService:       emailService,

		AccountService:  services.NewAccountService(accountStore, permanentStore),
		TokenService:    services.NewTokenService(accountStore, graphClient, logger, config.TokenExpiryDays, time.Now),
		LeadFormService: services.NewLeadFormService(accountStore, graphClient),
		LeadService: services.NewLeadService(
			graphClient, leadCache, logger, perfTracker,
			config.LeadFetchCap, config.LeadPageSize, config.MaxLeadPages,
		),
		ExportService:   services.NewExportService(logger, perfTracker, config.MaxSplitCount, config.ColumnWidthCap),
		DeliveryService: services.NewDeliveryService(emailService, logger, perfTracker),
	}
}
