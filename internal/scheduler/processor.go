package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/StevenJWChen/layout-automation/internal/repository"
	"github.com/StevenJWChen/layout-automation/internal/storage"
	"github.com/StevenJWChen/layout-automation/pkg/cellmodel"
	"github.com/StevenJWChen/layout-automation/pkg/config"
	apperrors "github.com/StevenJWChen/layout-automation/pkg/errors"
	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/solver"
	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

// DefaultJobProcessor implements JobProcessor: it loads a job document from
// storage, builds the cell tree it describes, runs it through the solver,
// and persists the outcome.
type DefaultJobProcessor struct {
	config  *config.Config
	storage storage.Storage
	jobs    repository.JobRepository
	logger  utils.Logger
}

// ProcessorConfig holds processor configuration.
type ProcessorConfig struct {
	Config  *config.Config
	Storage storage.Storage
	Jobs    repository.JobRepository
	Logger  utils.Logger
}

// NewDefaultJobProcessor creates a new DefaultJobProcessor.
func NewDefaultJobProcessor(cfg *ProcessorConfig) *DefaultJobProcessor {
	if cfg.Logger == nil {
		cfg.Logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}
	return &DefaultJobProcessor{
		config:  cfg.Config,
		storage: cfg.Storage,
		jobs:    cfg.Jobs,
		logger:  cfg.Logger,
	}
}

// Process runs one solve job end to end: download its input document,
// reconstruct the cell tree, solve it, and persist the outcome -- a solved
// tree on success, or the infeasible/failed reason otherwise. The job's
// status is always updated, even when solving fails, so a job never gets
// stuck in "running".
func (p *DefaultJobProcessor) Process(ctx context.Context, job *model.SolveJob) error {
	tr := otel.Tracer("layoutctl")
	ctx, span := tr.Start(ctx, "layout.solve")
	defer span.End()
	span.SetAttributes(attribute.String("job.uuid", job.UUID))

	p.logger.Info("Solving job %s (input: %s)", job.UUID, job.InputKey)

	doc, err := p.loadDocument(ctx, job.InputKey)
	if err != nil {
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeDownloadError, "failed to load job document", err))
	}

	root, err := model.BuildCellTree(doc.Root)
	if err != nil {
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeParseError, "failed to build cell tree", err))
	}

	cellCount, constraintCount := model.CountTree(root)
	span.SetAttributes(
		attribute.Int("job.cell_count", cellCount),
		attribute.Int("job.constraint_count", constraintCount),
	)

	timeout, err := time.ParseDuration(p.config.Solver.DefaultTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	solveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := solver.Options{
		CoordMax:     int64(p.config.Solver.CoordMax),
		CenterWeight: int64(p.config.Solver.CenterWeight * 1000),
	}

	solveErr := solver.Solve(solveCtx, root, opts)

	var infeasible *solver.InfeasibleError
	var timeoutErr *solver.TimeoutError
	switch {
	case solveErr == nil:
		span.SetAttributes(attribute.String("job.outcome", "solved"))
		return p.succeed(ctx, job, root)
	case errors.As(solveErr, &infeasible):
		span.SetAttributes(attribute.String("job.outcome", "infeasible"))
		span.SetStatus(codes.Error, "infeasible")
		return p.infeasible(ctx, job, apperrors.Wrap(apperrors.CodeInfeasible, infeasible.Error(), solveErr))
	case errors.As(solveErr, &timeoutErr):
		span.SetAttributes(attribute.String("job.outcome", "timeout"))
		span.SetStatus(codes.Error, "timeout")
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeSolveTimeout, timeoutErr.Error(), solveErr))
	default:
		span.SetAttributes(attribute.String("job.outcome", "failed"))
		span.SetStatus(codes.Error, solveErr.Error())
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeAnalysisError, "solve failed", solveErr))
	}
}

func (p *DefaultJobProcessor) loadDocument(ctx context.Context, key string) (*model.JobDocument, error) {
	r, err := p.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc model.JobDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid job document: %w", err)
	}
	return &doc, nil
}

func (p *DefaultJobProcessor) succeed(ctx context.Context, job *model.SolveJob, root *cellmodel.Cell) error {
	resultDoc := model.DumpCellTree(root)
	data, err := json.Marshal(resultDoc)
	if err != nil {
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeUploadError, "failed to marshal solved tree", err))
	}

	resultKey := fmt.Sprintf("%s/result.json", job.UUID)
	if err := p.storage.Upload(ctx, resultKey, bytes.NewReader(data)); err != nil {
		return p.fail(ctx, job, apperrors.Wrap(apperrors.CodeUploadError, "failed to upload solved tree", err))
	}

	if err := p.jobs.MarkSolved(ctx, job.ID, resultKey); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to mark job solved", err)
	}

	job.Status = model.JobStatusSolved
	job.ResultKey = resultKey
	p.logger.Info("Job %s solved, result at %s", job.UUID, resultKey)
	return nil
}

func (p *DefaultJobProcessor) infeasible(ctx context.Context, job *model.SolveJob, cause error) error {
	if err := p.jobs.MarkInfeasible(ctx, job.ID, cause.Error()); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to mark job infeasible", err)
	}
	job.Status = model.JobStatusInfeasible
	job.Error = cause.Error()
	p.logger.Warn("Job %s infeasible: %v", job.UUID, cause)
	return nil
}

func (p *DefaultJobProcessor) fail(ctx context.Context, job *model.SolveJob, cause error) error {
	if err := p.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		p.logger.Error("Job %s failed (%v) and could not be persisted: %v", job.UUID, cause, err)
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to mark job failed", err)
	}
	job.Status = model.JobStatusFailed
	job.Error = cause.Error()
	p.logger.Error("Job %s failed: %v", job.UUID, cause)
	return cause
}
