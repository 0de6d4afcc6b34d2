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

func TestSnapshotHolder_CurrentNeverNil(t *testing.T) {
	h := NewSnapshotHolder(new(MockCategoryRepository), new(MockDocumentRepository))

	snap := h.Current()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Categories)
	assert.Nil(t, snap.Document)
}

func TestSnapshotHolder_Reload(t *testing.T) {
	catRepo := new(MockCategoryRepository)
	docRepo := new(MockDocumentRepository)
	h := NewSnapshotHolder(catRepo, docRepo)

	categories := []domain.Category{{Name: "benefits", Enabled: true}}
	chunks := []domain.Chunk{{ID: "c-1", DocumentID: "doc-1", Index: 0, Text: "hello"}}

	catRepo.On("ListWithItems", mock.Anything).Return(categories, nil)
	docRepo.On("GetActive", mock.Anything).Return(&domain.Document{ID: "doc-1", Status: domain.DocumentStatusReady}, nil)
	docRepo.On("ListChunks", mock.Anything, "doc-1").Return(chunks, nil)

	require.NoError(t, h.Reload(context.Background()))

	snap := h.Current()
	assert.Equal(t, categories, snap.Categories)
	require.NotNil(t, snap.Document)
	assert.Equal(t, "doc-1", snap.Document.ID)
	assert.Equal(t, chunks, snap.Chunks)
}

func TestSnapshotHolder_Reload_PendingDocumentHasNoChunks(t *testing.T) {
	catRepo := new(MockCategoryRepository)
	docRepo := new(MockDocumentRepository)
	h := NewSnapshotHolder(catRepo, docRepo)

	catRepo.On("ListWithItems", mock.Anything).Return([]domain.Category{}, nil)
	docRepo.On("GetActive", mock.Anything).Return(&domain.Document{ID: "doc-1", Status: domain.DocumentStatusPending}, nil)

	require.NoError(t, h.Reload(context.Background()))

	snap := h.Current()
	assert.Nil(t, snap.Document)
	assert.Empty(t, snap.Chunks)
	docRepo.AssertNotCalled(t, "ListChunks", mock.Anything, mock.Anything)
}

func TestSnapshotHolder_Reload_NoDocument(t *testing.T) {
	catRepo := new(MockCategoryRepository)
	docRepo := new(MockDocumentRepository)
	h := NewSnapshotHolder(catRepo, docRepo)

	catRepo.On("ListWithItems", mock.Anything).Return([]domain.Category{{Name: "benefits"}}, nil)
	docRepo.On("GetActive", mock.Anything).Return(nil, domain.ErrDocumentNotFound)

	require.NoError(t, h.Reload(context.Background()))
	assert.Len(t, h.Current().Categories, 1)
}

func TestSnapshotHolder_Reload_ErrorKeepsPreviousSnapshot(t *testing.T) {
	catRepo := new(MockCategoryRepository)
	docRepo := new(MockDocumentRepository)
	h := NewSnapshotHolder(catRepo, docRepo)

	catRepo.On("ListWithItems", mock.Anything).Return([]domain.Category{{Name: "benefits"}}, nil).Once()
	docRepo.On("GetActive", mock.Anything).Return(nil, domain.ErrDocumentNotFound).Once()
	require.NoError(t, h.Reload(context.Background()))

	catRepo.On("ListWithItems", mock.Anything).Return(nil, errors.New("db down")).Once()
	assert.Error(t, h.Reload(context.Background()))

	// the failed reload must not clobber the working snapshot
	assert.Len(t, h.Current().Categories, 1)
}
