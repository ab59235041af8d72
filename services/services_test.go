package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "catalog-admin/errors"
	"catalog-admin/models"
	"catalog-admin/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	documents []string
	reply     string
	err       error
}

func (f *fakeExecutor) Execute(ctx context.Context, document string, out interface{}) error {
	f.documents = append(f.documents, document)
	if f.err != nil {
		return f.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCodesByNameCachesInRedis(t *testing.T) {
	mr, rdb := newRedis(t)
	exec := &fakeExecutor{reply: `{"commonCode":{"details":[{"name":"RAW","description":"Raw material"},{"name":"FIN","description":"Finished"}]}}`}
	svc := services.NewCodeService(exec, rdb, time.Minute)

	codes, err := svc.CodesByName(context.Background(), services.ProductTypeCodes)
	require.NoError(t, err)
	assert.Equal(t, []models.Code{{Name: "RAW", Description: "Raw material"}, {Name: "FIN", Description: "Finished"}}, codes)
	assert.Contains(t, exec.documents[0], `commonCode(name: "PRODUCT_TYPES")`)

	again, err := svc.CodesByName(context.Background(), services.ProductTypeCodes)
	require.NoError(t, err)
	assert.Equal(t, codes, again)
	assert.Len(t, exec.documents, 1)

	assert.True(t, mr.Exists(services.CodeCachePrefix+services.ProductTypeCodes))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(services.CodeCachePrefix+services.ProductTypeCodes))

	require.NoError(t, svc.Invalidate(context.Background(), services.ProductTypeCodes))
}

func TestCodesByNameMissingTable(t *testing.T) {
	svc := services.NewCodeService(&fakeExecutor{reply: `{"commonCode":null}`}, nil, 0)

	codes, err := svc.CodesByName(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.NotNil(t, codes)
}

func TestCodesByNamePropagatesErrors(t *testing.T) {
	svc := services.NewCodeService(&fakeExecutor{err: apperrors.Query([]string{"forbidden"})}, nil, 0)

	_, err := svc.CodesByName(context.Background(), services.PackingTypeCodes)
	assert.ErrorIs(t, err, apperrors.ErrQuery)
}

func TestImportJobLifecycle(t *testing.T) {
	_, rdb := newRedis(t)
	jobs := services.NewImportJobs(rdb)
	ctx := context.Background()

	job, err := jobs.Enqueue(ctx, "products", map[string]string{"productId": "p1"}, "user-1", []models.Record{{"name": "Bolt"}})
	require.NoError(t, err)

	queued, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, services.JobQueued, queued.Status)
	assert.Nil(t, queued.Records)

	var seen *services.ImportJob
	processed, err := jobs.ProcessNext(ctx, time.Second, func(ctx context.Context, j *services.ImportJob) (*services.ImportResult, error) {
		copied := *j
		seen = &copied
		return &services.ImportResult{Outcome: "applied", Notices: []string{"Data updated successfully"}}, nil
	})
	require.NoError(t, err)
	require.True(t, processed)
	assert.Equal(t, services.JobProcessing, seen.Status)
	assert.Equal(t, []models.Record{{"name": "Bolt"}}, seen.Records)
	assert.Equal(t, "p1", seen.Params["productId"])

	done, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, services.JobDone, done.Status)
	assert.Equal(t, "applied", done.Outcome)
	assert.Equal(t, []string{"Data updated successfully"}, done.Notices)
}

func TestImportJobFailure(t *testing.T) {
	_, rdb := newRedis(t)
	jobs := services.NewImportJobs(rdb)
	ctx := context.Background()

	job, err := jobs.Enqueue(ctx, "products", nil, "", nil)
	require.NoError(t, err)

	_, err = jobs.ProcessNext(ctx, time.Second, func(ctx context.Context, j *services.ImportJob) (*services.ImportResult, error) {
		return nil, errors.New("backend down")
	})
	require.NoError(t, err)

	failed, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, services.JobFailed, failed.Status)
	assert.Equal(t, "backend down", failed.Error)
}

func TestProcessNextEmptyQueue(t *testing.T) {
	_, rdb := newRedis(t)
	jobs := services.NewImportJobs(rdb)

	processed, err := jobs.ProcessNext(context.Background(), time.Second, func(ctx context.Context, j *services.ImportJob) (*services.ImportResult, error) {
		t.Fatal("no job expected")
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestGetUnknownJob(t *testing.T) {
	_, rdb := newRedis(t)

	_, err := services.NewImportJobs(rdb).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
