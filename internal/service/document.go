package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// DocumentRepositoryInterface defines the repository interface for document persistence
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document) error
	GetActive(ctx context.Context) (*domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error
	Delete(ctx context.Context, id string) error
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}

// IngestJobRepositoryInterface defines the repository interface for ingest job persistence
type IngestJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.IngestJob) error
}

// ObjectStore archives uploaded document sources. Optional; a nil store means
// the database copy is the only one.
type ObjectStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// DocumentService manages the free-text knowledge source. Uploading replaces
// the previous document entirely; chunking happens asynchronously through the
// ingest worker.
type DocumentService struct {
	txRunner TxRunner
	repo     DocumentRepositoryInterface
	store    ObjectStore
	snapshot SnapshotReloader
	uuidGen  UUIDGenerator
}

func NewDocumentService(txRunner TxRunner, repo DocumentRepositoryInterface, store ObjectStore, snapshot SnapshotReloader) *DocumentService {
	return &DocumentService{
		txRunner: txRunner,
		repo:     repo,
		store:    store,
		snapshot: snapshot,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewDocumentServiceWithUUIDGen creates a DocumentService with a custom UUID generator (for testing)
func NewDocumentServiceWithUUIDGen(txRunner TxRunner, repo DocumentRepositoryInterface, store ObjectStore, snapshot SnapshotReloader, uuidGen UUIDGenerator) *DocumentService {
	return &DocumentService{
		txRunner: txRunner,
		repo:     repo,
		store:    store,
		snapshot: snapshot,
		uuidGen:  uuidGen,
	}
}

// UploadInput is the admin document upload payload.
type UploadInput struct {
	Filename string
	Content  string
}

// Upload stores a new document in pending state and queues its ingest job.
// The document and job are committed together so a crash between the two
// cannot strand an unchunked document.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*domain.Document, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrEmptyDocument
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = "document.txt"
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:         s.uuidGen.NewString(),
		Filename:   filename,
		Content:    input.Content,
		Status:     domain.DocumentStatusPending,
		UploadedAt: now,
	}

	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Upload", telemetry.SpanAttributes{
		DocumentID: doc.ID,
	})
	defer span.End()

	job := &domain.IngestJob{
		ID:         s.uuidGen.NewString(),
		DocumentID: doc.ID,
		Status:     domain.IngestJobStatusPending,
		CreatedAt:  now,
	}

	err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Documents().Create(ctx, doc); err != nil {
			return err
		}
		return repos.IngestJobs().Create(ctx, job)
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	// Replacing the document drops its chunks; clear them from the snapshot
	// until the ingest job finishes.
	if err := s.snapshot.Reload(ctx); err != nil {
		span.SetError(err)
		return nil, err
	}

	if s.store != nil {
		key := doc.ID + "/" + doc.Filename
		if err := s.store.Store(ctx, key, []byte(doc.Content), "text/plain"); err != nil {
			// archive copy only; the database stays authoritative
			log.Printf("document archive failed for %s: %v", doc.ID, err)
			telemetry.CaptureError(ctx, err)
		}
	}

	return doc, nil
}

// Get returns the active document's metadata.
func (s *DocumentService) Get(ctx context.Context) (*domain.Document, error) {
	return s.repo.GetActive(ctx)
}

// Delete removes the active document and its chunks.
func (s *DocumentService) Delete(ctx context.Context) error {
	doc, err := s.repo.GetActive(ctx)
	if err != nil {
		return err
	}

	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Delete", telemetry.SpanAttributes{
		DocumentID: doc.ID,
	})
	defer span.End()

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		span.SetError(err)
		return err
	}

	if s.store != nil {
		key := doc.ID + "/" + doc.Filename
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("document archive delete failed for %s: %v", doc.ID, err)
		}
	}

	return s.snapshot.Reload(ctx)
}
