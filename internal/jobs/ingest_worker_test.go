package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/technova-labs/inductbot/internal/domain"
)

// MockIngestJobRepository is a mock implementation of IngestJobRepository
type MockIngestJobRepository struct {
	mock.Mock
}

func (m *MockIngestJobRepository) GetPendingJobs(ctx context.Context) ([]*domain.IngestJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IngestJob), args.Error(1)
}

func (m *MockIngestJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.IngestJobStatus, errMsg string) error {
	args := m.Called(ctx, jobID, status, errMsg)
	return args.Error(0)
}

func (m *MockIngestJobRepository) IncrementRetries(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func TestIngestWorker_ProcessJobs_Success(t *testing.T) {
	repo := new(MockIngestJobRepository)
	service := new(MockIngestService)
	worker := NewIngestWorker(repo, service)

	jobs := []*domain.IngestJob{
		{ID: "job-1", DocumentID: "doc-1", Status: domain.IngestJobStatusProcessing},
		{ID: "job-2", DocumentID: "doc-2", Status: domain.IngestJobStatusProcessing},
	}
	repo.On("GetPendingJobs", mock.Anything).Return(jobs, nil)
	service.On("IngestDocument", mock.Anything, "doc-1").Return(nil)
	service.On("IngestDocument", mock.Anything, "doc-2").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusCompleted, "").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-2", domain.IngestJobStatusCompleted, "").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	repo.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestIngestWorker_ProcessJobs_NoJobs(t *testing.T) {
	repo := new(MockIngestJobRepository)
	service := new(MockIngestService)
	worker := NewIngestWorker(repo, service)

	repo.On("GetPendingJobs", mock.Anything).Return([]*domain.IngestJob{}, nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	service.AssertNotCalled(t, "IngestDocument", mock.Anything, mock.Anything)
}

func TestIngestWorker_ProcessJobs_FetchError(t *testing.T) {
	repo := new(MockIngestJobRepository)
	worker := NewIngestWorker(repo, new(MockIngestService))

	repo.On("GetPendingJobs", mock.Anything).Return(nil, errors.New("connection refused"))

	err := worker.ProcessJobs(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch pending jobs")
}

func TestIngestWorker_JobFailureSchedulesRetry(t *testing.T) {
	repo := new(MockIngestJobRepository)
	service := new(MockIngestService)
	worker := NewIngestWorker(repo, service)

	jobs := []*domain.IngestJob{{ID: "job-1", DocumentID: "doc-1", Retries: 0}}
	repo.On("GetPendingJobs", mock.Anything).Return(jobs, nil)
	service.On("IngestDocument", mock.Anything, "doc-1").Return(errors.New("chunking failed"))
	repo.On("IncrementRetries", mock.Anything, "job-1").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusPending, "retry 1: chunking failed").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	repo.AssertExpectations(t)
}

func TestIngestWorker_JobFailureExceedsMaxRetries(t *testing.T) {
	repo := new(MockIngestJobRepository)
	service := new(MockIngestService)
	worker := NewIngestWorker(repo, service)

	jobs := []*domain.IngestJob{{ID: "job-1", DocumentID: "doc-1", Retries: MaxRetries - 1}}
	repo.On("GetPendingJobs", mock.Anything).Return(jobs, nil)
	service.On("IngestDocument", mock.Anything, "doc-1").Return(errors.New("chunking failed"))
	repo.On("IncrementRetries", mock.Anything, "job-1").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusFailed, "max retries exceeded: chunking failed").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	repo.AssertExpectations(t)
}

func TestIngestWorker_OneFailureDoesNotBlockOthers(t *testing.T) {
	repo := new(MockIngestJobRepository)
	service := new(MockIngestService)
	worker := NewIngestWorker(repo, service)

	jobs := []*domain.IngestJob{
		{ID: "job-1", DocumentID: "doc-1"},
		{ID: "job-2", DocumentID: "doc-2"},
	}
	repo.On("GetPendingJobs", mock.Anything).Return(jobs, nil)
	service.On("IngestDocument", mock.Anything, "doc-1").Return(errors.New("boom"))
	repo.On("IncrementRetries", mock.Anything, "job-1").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusPending, mock.Anything).Return(nil)
	service.On("IngestDocument", mock.Anything, "doc-2").Return(nil)
	repo.On("UpdateJobStatus", mock.Anything, "job-2", domain.IngestJobStatusCompleted, "").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	repo.AssertExpectations(t)
	service.AssertExpectations(t)
}
