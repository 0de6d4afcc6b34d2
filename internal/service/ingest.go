package service

import (
	"context"
	"fmt"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/match"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// IngestService chunks uploaded documents through the core chunker and
// publishes the result. Called by the background worker, never by handlers.
type IngestService struct {
	repo     DocumentRepositoryInterface
	chunker  *match.Chunker
	snapshot SnapshotReloader
	uuidGen  UUIDGenerator
}

func NewIngestService(repo DocumentRepositoryInterface, chunker *match.Chunker, snapshot SnapshotReloader) *IngestService {
	return &IngestService{
		repo:     repo,
		chunker:  chunker,
		snapshot: snapshot,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewIngestServiceWithUUIDGen creates an IngestService with a custom UUID generator (for testing)
func NewIngestServiceWithUUIDGen(repo DocumentRepositoryInterface, chunker *match.Chunker, snapshot SnapshotReloader, uuidGen UUIDGenerator) *IngestService {
	return &IngestService{
		repo:     repo,
		chunker:  chunker,
		snapshot: snapshot,
		uuidGen:  uuidGen,
	}
}

// IngestDocument splits the document into chunks, persists them and marks the
// document ready. The chunk set of any earlier ingest run is replaced.
func (s *IngestService) IngestDocument(ctx context.Context, documentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestDocument", telemetry.SpanAttributes{
		DocumentID: documentID,
	})
	defer span.End()

	doc, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		span.SetError(err)
		return err
	}

	chunks := s.chunker.Split(doc.Content)
	if len(chunks) == 0 {
		err := fmt.Errorf("document %s produced no chunks", documentID)
		span.SetError(err)
		if uerr := s.repo.UpdateStatus(ctx, documentID, domain.DocumentStatusFailed, 0); uerr != nil {
			return uerr
		}
		return err
	}

	for i := range chunks {
		chunks[i].ID = s.uuidGen.NewString()
		chunks[i].DocumentID = documentID
	}

	if err := s.repo.ReplaceChunks(ctx, documentID, chunks); err != nil {
		span.SetError(err)
		return err
	}
	if err := s.repo.UpdateStatus(ctx, documentID, domain.DocumentStatusReady, len(chunks)); err != nil {
		span.SetError(err)
		return err
	}

	return s.snapshot.Reload(ctx)
}
