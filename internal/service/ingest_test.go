package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/match"
)

func newIngestService(repo DocumentRepositoryInterface, snap *stubSnapshot) *IngestService {
	return NewIngestServiceWithUUIDGen(repo, match.NewChunker(match.DefaultChunkerConfig()), snap, &seqUUIDGen{})
}

func TestIngestService_IngestDocument(t *testing.T) {
	repo := new(MockDocumentRepository)
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	svc := newIngestService(repo, snap)

	repo.On("GetByID", mock.Anything, "doc-1").Return(&domain.Document{
		ID:      "doc-1",
		Content: "Welcome aboard. The first week covers systems access and introductions.",
		Status:  domain.DocumentStatusPending,
	}, nil)

	var stored []domain.Chunk
	repo.On("ReplaceChunks", mock.Anything, "doc-1", mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).([]domain.Chunk)
		}).Return(nil)
	repo.On("UpdateStatus", mock.Anything, "doc-1", domain.DocumentStatusReady, 1).Return(nil)

	require.NoError(t, svc.IngestDocument(context.Background(), "doc-1"))

	require.Len(t, stored, 1)
	assert.Equal(t, "uuid-1", stored[0].ID)
	assert.Equal(t, "doc-1", stored[0].DocumentID)
	assert.Equal(t, 1, snap.reloads)
	repo.AssertExpectations(t)
}

func TestIngestService_IngestDocument_EmptyContentFails(t *testing.T) {
	repo := new(MockDocumentRepository)
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	svc := newIngestService(repo, snap)

	repo.On("GetByID", mock.Anything, "doc-1").Return(&domain.Document{ID: "doc-1", Content: "   "}, nil)
	repo.On("UpdateStatus", mock.Anything, "doc-1", domain.DocumentStatusFailed, 0).Return(nil)

	err := svc.IngestDocument(context.Background(), "doc-1")

	assert.Error(t, err)
	assert.Equal(t, 0, snap.reloads)
	repo.AssertExpectations(t)
}

func TestIngestService_IngestDocument_UnknownDocument(t *testing.T) {
	repo := new(MockDocumentRepository)
	svc := newIngestService(repo, &stubSnapshot{snap: &domain.Snapshot{}})

	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrDocumentNotFound)

	err := svc.IngestDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestIngestService_IngestDocument_ReplaceChunksFailure(t *testing.T) {
	repo := new(MockDocumentRepository)
	snap := &stubSnapshot{snap: &domain.Snapshot{}}
	svc := newIngestService(repo, snap)

	repo.On("GetByID", mock.Anything, "doc-1").Return(&domain.Document{ID: "doc-1", Content: "some text"}, nil)
	repo.On("ReplaceChunks", mock.Anything, "doc-1", mock.Anything).Return(errors.New("disk full"))

	err := svc.IngestDocument(context.Background(), "doc-1")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, domain.DocumentStatusReady, mock.Anything)
	assert.Equal(t, 0, snap.reloads)
}
