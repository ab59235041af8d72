package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "catalog-admin/errors"
	"catalog-admin/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ImportQueueKey     = "catalog_import:queue"
	ImportJobKeyPrefix = "catalog_import:job:"
	ImportJobTTL       = 24 * time.Hour
)

// Job statuses.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobDone       = "done"
	JobFailed     = "failed"
)

// ImportJob is an import queued for the background worker.
type ImportJob struct {
	ID        string            `json:"id"`
	Page      string            `json:"page"`
	Params    map[string]string `json:"params,omitempty"`
	UserID    string            `json:"userId,omitempty"`
	Records   []models.Record   `json:"records,omitempty"`
	Status    string            `json:"status"`
	Outcome   string            `json:"outcome,omitempty"`
	Notices   []string          `json:"notices,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ImportResult is what the processor reports back for a job.
type ImportResult struct {
	Outcome string
	Notices []string
}

// ImportProcessor runs one job.
type ImportProcessor func(ctx context.Context, job *ImportJob) (*ImportResult, error)

// ImportJobs stores import jobs in Redis and feeds them to a worker through a list.
type ImportJobs struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewImportJobs(rdb *redis.Client) *ImportJobs {
	return &ImportJobs{redis: rdb, ttl: ImportJobTTL}
}

// Enqueue stores the job and pushes its id on the queue.
func (j *ImportJobs) Enqueue(ctx context.Context, page string, params map[string]string, userID string, records []models.Record) (*ImportJob, error) {
	now := time.Now().UTC()
	job := &ImportJob{
		ID:        uuid.NewString(),
		Page:      page,
		Params:    params,
		UserID:    userID,
		Records:   records,
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.save(ctx, job); err != nil {
		return nil, err
	}
	if err := j.redis.RPush(ctx, ImportQueueKey, job.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to queue import job: %w", err)
	}
	return job, nil
}

// Get returns a job without its records.
func (j *ImportJobs) Get(ctx context.Context, id string) (*ImportJob, error) {
	job, err := j.load(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Records = nil
	return job, nil
}

func (j *ImportJobs) load(ctx context.Context, id string) (*ImportJob, error) {
	val, err := j.redis.Get(ctx, ImportJobKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("Job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read import job: %w", err)
	}
	var job ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, fmt.Errorf("failed to parse import job: %w", err)
	}
	return &job, nil
}

func (j *ImportJobs) save(ctx context.Context, job *ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := j.redis.Set(ctx, ImportJobKeyPrefix+job.ID, b, j.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store import job: %w", err)
	}
	return nil
}

// ProcessNext waits up to timeout for a queued job and runs it. It returns
// false when no job arrived.
func (j *ImportJobs) ProcessNext(ctx context.Context, timeout time.Duration, process ImportProcessor) (bool, error) {
	res, err := j.redis.BLPop(ctx, timeout, ImportQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(res) < 2 {
		return false, nil
	}

	job, err := j.load(ctx, res[1])
	if err != nil {
		zap.L().Error("failed to read job metadata", zap.String("job", res[1]), zap.Error(err))
		return true, nil
	}

	job.Status = JobProcessing
	if err := j.save(ctx, job); err != nil {
		return true, err
	}

	result, err := process(ctx, job)
	if err != nil {
		zap.L().Error("import job failed", zap.String("job", job.ID), zap.String("page", job.Page), zap.Error(err))
		job.Status = JobFailed
		job.Error = err.Error()
	} else {
		job.Status = JobDone
	}
	if result != nil {
		job.Outcome = result.Outcome
		job.Notices = result.Notices
	}
	job.Records = nil
	return true, j.save(ctx, job)
}

// StartWorker drains the queue until ctx is cancelled.
func (j *ImportJobs) StartWorker(ctx context.Context, process ImportProcessor) {
	if j == nil || j.redis == nil || process == nil {
		zap.L().Warn("import worker not started: missing dependencies")
		return
	}

	go func() {
		zap.L().Info("import worker started", zap.String("queue", ImportQueueKey))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("import worker stopping")
				return
			default:
			}

			if _, err := j.ProcessNext(ctx, 5*time.Second, process); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				zap.L().Error("import worker iteration failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
			}
		}
	}()
}
