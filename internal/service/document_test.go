package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/technova-labs/inductbot/internal/domain"
)

// MockDocumentRepository is a mock implementation of DocumentRepositoryInterface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetActive(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error {
	args := m.Called(ctx, id, status, chunkCount)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	args := m.Called(ctx, documentID, chunks)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chunk), args.Error(1)
}

// MockIngestJobRepo is a mock implementation of IngestJobRepositoryInterface
type MockIngestJobRepo struct {
	mock.Mock
}

func (m *MockIngestJobRepo) Create(ctx context.Context, job *domain.IngestJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Store(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// stubTxRunner passes the supplied repositories straight to the callback.
type stubTxRunner struct {
	repos stubTxRepos
	err   error
	calls int
}

type stubTxRepos struct {
	categories CategoryRepositoryInterface
	documents  DocumentRepositoryInterface
	ingestJobs IngestJobRepositoryInterface
}

func (r stubTxRepos) Categories() CategoryRepositoryInterface  { return r.categories }
func (r stubTxRepos) Documents() DocumentRepositoryInterface   { return r.documents }
func (r stubTxRepos) IngestJobs() IngestJobRepositoryInterface { return r.ingestJobs }

func (t *stubTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	return fn(t.repos)
}

func TestDocumentService_Upload(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	jobRepo := new(MockIngestJobRepo)
	store := new(MockObjectStore)
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	tx := &stubTxRunner{repos: stubTxRepos{documents: docRepo, ingestJobs: jobRepo}}
	svc := NewDocumentServiceWithUUIDGen(tx, docRepo, store, snap, &seqUUIDGen{})

	var createdDoc *domain.Document
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) {
			createdDoc = args.Get(1).(*domain.Document)
		}).Return(nil)

	var createdJob *domain.IngestJob
	jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.IngestJob")).
		Run(func(args mock.Arguments) {
			createdJob = args.Get(1).(*domain.IngestJob)
		}).Return(nil)

	store.On("Store", mock.Anything, "uuid-1/handbook.txt", []byte("Welcome to the company."), "text/plain").Return(nil)

	doc, err := svc.Upload(context.Background(), UploadInput{
		Filename: "handbook.txt",
		Content:  "Welcome to the company.",
	})

	require.NoError(t, err)
	assert.Equal(t, "uuid-1", doc.ID)
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)

	require.NotNil(t, createdDoc)
	require.NotNil(t, createdJob)
	assert.Equal(t, createdDoc.ID, createdJob.DocumentID)
	assert.Equal(t, domain.IngestJobStatusPending, createdJob.Status)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, snap.reloads)
	store.AssertExpectations(t)
}

func TestDocumentService_Upload_EmptyContent(t *testing.T) {
	tx := &stubTxRunner{}
	svc := NewDocumentService(tx, new(MockDocumentRepository), nil, &stubSnapshot{snap: &domain.Snapshot{}})

	_, err := svc.Upload(context.Background(), UploadInput{Content: "  \n "})

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Equal(t, 0, tx.calls)
}

func TestDocumentService_Upload_DefaultFilename(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	jobRepo := new(MockIngestJobRepo)
	tx := &stubTxRunner{repos: stubTxRepos{documents: docRepo, ingestJobs: jobRepo}}
	svc := NewDocumentServiceWithUUIDGen(tx, docRepo, nil, &stubSnapshot{snap: &domain.Snapshot{}}, &seqUUIDGen{})

	docRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	jobRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	doc, err := svc.Upload(context.Background(), UploadInput{Content: "text"})

	require.NoError(t, err)
	assert.Equal(t, "document.txt", doc.Filename)
}

func TestDocumentService_Upload_TxFailure(t *testing.T) {
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	tx := &stubTxRunner{err: errors.New("deadlock")}
	svc := NewDocumentService(tx, new(MockDocumentRepository), nil, snap)

	_, err := svc.Upload(context.Background(), UploadInput{Content: "text"})

	assert.Error(t, err)
	assert.Equal(t, 0, snap.reloads)
}

func TestDocumentService_Upload_ArchiveFailureIsNotFatal(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	jobRepo := new(MockIngestJobRepo)
	store := new(MockObjectStore)
	tx := &stubTxRunner{repos: stubTxRepos{documents: docRepo, ingestJobs: jobRepo}}
	svc := NewDocumentServiceWithUUIDGen(tx, docRepo, store, &stubSnapshot{snap: &domain.Snapshot{}}, &seqUUIDGen{})

	docRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	jobRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	store.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	_, err := svc.Upload(context.Background(), UploadInput{Content: "text"})

	assert.NoError(t, err)
}

func TestDocumentService_Get(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	svc := NewDocumentService(&stubTxRunner{}, docRepo, nil, &stubSnapshot{snap: &domain.Snapshot{}})

	docRepo.On("GetActive", mock.Anything).Return(nil, domain.ErrDocumentNotFound)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	store := new(MockObjectStore)
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	svc := NewDocumentService(&stubTxRunner{}, docRepo, store, snap)

	docRepo.On("GetActive", mock.Anything).Return(&domain.Document{ID: "doc-1", Filename: "handbook.txt"}, nil)
	docRepo.On("Delete", mock.Anything, "doc-1").Return(nil)
	store.On("Delete", mock.Anything, "doc-1/handbook.txt").Return(nil)

	require.NoError(t, svc.Delete(context.Background()))
	assert.Equal(t, 1, snap.reloads)
	docRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}
