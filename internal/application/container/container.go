// Package container wires singleton services for dependency injection.
package container

import (
	"fmt"

	"github.com/ettle-app/ettle-go/internal/application/services"
	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/email"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/database"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/local"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/submissions"
	userRepo "github.com/ettle-app/ettle-go/internal/infrastructure/persistence/user"
	"github.com/ettle-app/ettle-go/internal/infrastructure/syncer"
	"github.com/ettle-app/ettle-go/pkg/config"
)

// Container holds every singleton service and its infrastructure.
type Container struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker

	Graph      *forms.Graph
	DB         *database.DB
	LocalStore *local.Store

	Submissions *submissions.Repository

	SyncService    *services.SyncService
	SessionService *services.SessionService
	LeadService    *services.LeadService
	AuthService    *services.AuthService
}

// New builds the container: question graph, stores, repositories, and
// services, failing fast on configuration that cannot work.
func New(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*Container, error) {
	graph, err := forms.LoadGraph(config.QuestionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load question graph: %w", err)
	}
	if err := forms.ValidateColumnMapping(graph); err != nil {
		return nil, fmt.Errorf("question graph does not match the column table: %w", err)
	}
	logger.Startup().Info("Question graph loaded",
		"questions", graph.Len(), "entryId", graph.EntryID(), "columnTableVersion", forms.ColumnTableVersion)

	db, err := database.Connect(database.ConfigFromEnv(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect submissions store: %w", err)
	}
	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	localStore, err := local.NewStore(config.SessionDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	submissionsRepo := submissions.NewRepository(db, logger)
	leadsRepo := userRepo.NewLeadRepository(db, logger)
	sessionsRepo := local.NewSessionRepository(localStore, logger)

	var emailSvc email.Service
	if config.ResendAPIKey != "" {
		emailSvc, err = email.NewService()
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
	} else {
		logger.Startup().Warn("RESEND_API_KEY not set, welcome emails disabled")
	}

	syncSvc := services.NewSyncService(submissionsRepo,
		syncer.NewDebouncer(config.SyncDebounceWindow, logger), logger)

	c := &Container{
		Logger:         logger,
		PerfTracker:    perfTracker,
		Graph:          graph,
		DB:             db,
		LocalStore:     localStore,
		Submissions:    submissionsRepo,
		SyncService:    syncSvc,
		SessionService: services.NewSessionService(graph, sessionsRepo, syncSvc, logger),
		LeadService:    services.NewLeadService(leadsRepo, emailSvc, config.SignupURL, logger),
		AuthService:    services.NewAuthService(config.AdminPasswordHash, config.JWTSecret, config.TokenLifetime, logger),
	}

	if !c.AuthService.Enabled() {
		logger.Startup().Warn("ADMIN_PASSWORD_HASH or JWT_SECRET not set, admin surface disabled")
	}

	return c, nil
}

// Shutdown drains pending sync writes and releases infrastructure.
func (c *Container) Shutdown() {
	c.Logger.Shutdown().Info("Draining pending submission writes")
	c.SyncService.Shutdown()

	if err := c.LocalStore.Close(); err != nil {
		c.Logger.Shutdown().Warn("Session store close failed", "error", err.Error())
	}
	if err := c.DB.Close(); err != nil {
		c.Logger.Shutdown().Warn("Submissions store close failed", "error", err.Error())
	}
}
