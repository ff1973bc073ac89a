// Package service provides the Job Service that integrates the repository,
// storage, and scheduler components into the running layout-solve daemon.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/StevenJWChen/layout-automation/internal/repository"
	"github.com/StevenJWChen/layout-automation/internal/scheduler"
	"github.com/StevenJWChen/layout-automation/internal/storage"
	"github.com/StevenJWChen/layout-automation/pkg/config"
	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

// Service is the Job Service: it accepts solve job submissions, persists
// them, and runs a scheduler that polls and solves them in the background.
type Service struct {
	config    *config.Config
	logger    utils.Logger
	db        *repository.Repositories
	storage   storage.Storage
	scheduler *scheduler.Scheduler

	running bool
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger) (*Service, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &Service{
		config: cfg,
		logger: logger,
	}, nil
}

// Initialize initializes all service components.
func (s *Service) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing service components...")

	if err := s.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := s.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	s.initScheduler()

	s.logger.Info("Service components initialized successfully")
	return nil
}

// initDatabase initializes the database connection and repositories.
func (s *Service) initDatabase() error {
	s.logger.Info("Connecting to database (%s)...", s.config.Database.Type)

	dbConfig := &repository.DBConfig{
		Type:     s.config.Database.Type,
		Host:     s.config.Database.Host,
		Port:     s.config.Database.Port,
		Database: s.config.Database.Database,
		User:     s.config.Database.User,
		Password: s.config.Database.Password,
		MaxConns: s.config.Database.MaxConns,
	}

	gormDB, err := repository.NewGormDB(dbConfig)
	if err != nil {
		return err
	}

	s.db = repository.NewRepositories(gormDB, s.config.Database.Type)
	s.logger.Info("Database connection established")

	return nil
}

// initStorage initializes the object storage.
func (s *Service) initStorage() error {
	s.logger.Info("Initializing storage (%s)...", s.config.Storage.Type)

	store, err := storage.NewStorage(&s.config.Storage)
	if err != nil {
		return err
	}

	s.storage = store
	s.logger.Info("Storage initialized")

	return nil
}

// initScheduler wires the fetcher, processor, and scheduler together.
func (s *Service) initScheduler() {
	s.logger.Info("Initializing scheduler...")

	processor := scheduler.NewDefaultJobProcessor(&scheduler.ProcessorConfig{
		Config:  s.config,
		Storage: s.storage,
		Jobs:    s.db.Job,
		Logger:  s.logger,
	})
	fetcher := scheduler.NewRepositoryJobFetcher(s.db.Job)

	schedulerConfig := scheduler.FromConfig(&s.config.Scheduler)
	s.scheduler = scheduler.New(schedulerConfig, fetcher, processor, s.logger)

	s.logger.Info("Scheduler initialized")
}

// SubmitJob uploads a job document to storage and creates its SolveJob
// record in pending status, for the scheduler to pick up on its next poll.
func (s *Service) SubmitJob(ctx context.Context, doc *model.JobDocument) (*model.SolveJob, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job document: %w", err)
	}

	jobUUID := uuid.NewString()
	inputKey := fmt.Sprintf("%s/input.json", jobUUID)
	if err := s.storage.Upload(ctx, inputKey, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to upload job document: %w", err)
	}

	job := &model.SolveJob{
		UUID:     jobUUID,
		InputKey: inputKey,
	}
	if err := s.db.Job.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job record: %w", err)
	}

	s.logger.Info("Submitted job %s (input: %s)", job.UUID, inputKey)
	return job, nil
}

// GetJob looks up a job's current status and result location by UUID.
func (s *Service) GetJob(ctx context.Context, jobUUID string) (*model.SolveJob, error) {
	return s.db.Job.GetByUUID(ctx, jobUUID)
}

// Start starts the service.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting service...")

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	s.running = true
	s.logger.Info("Service started successfully")

	return nil
}

// Stop stops the service gracefully.
func (s *Service) Stop() error {
	s.logger.Info("Stopping service...")

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection: %v", err)
		}
	}

	s.running = false
	s.logger.Info("Service stopped")

	return nil
}

// IsRunning returns whether the service is running.
func (s *Service) IsRunning() bool {
	return s.running
}

// Stats returns service statistics.
func (s *Service) Stats() ServiceStats {
	stats := ServiceStats{
		Running: s.running,
	}

	if s.scheduler != nil {
		stats.Scheduler = s.scheduler.Stats()
	}

	return stats
}

// HealthCheck performs a health check on the service.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}

	return nil
}

// ServiceStats holds service statistics.
type ServiceStats struct {
	Running   bool                     `json:"running"`
	Scheduler scheduler.SchedulerStats `json:"scheduler"`
}
