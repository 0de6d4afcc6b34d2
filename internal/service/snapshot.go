package service

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// SnapshotHolder owns the single current knowledge-base snapshot. Readers get
// a consistent immutable view; Reload builds a fresh snapshot from the
// repositories and swaps it in atomically so in-flight queries never observe a
// partially rebuilt knowledge base.
type SnapshotHolder struct {
	categoryRepo CategoryRepositoryInterface
	documentRepo DocumentRepositoryInterface
	current      atomic.Pointer[domain.Snapshot]
}

func NewSnapshotHolder(categoryRepo CategoryRepositoryInterface, documentRepo DocumentRepositoryInterface) *SnapshotHolder {
	h := &SnapshotHolder{
		categoryRepo: categoryRepo,
		documentRepo: documentRepo,
	}
	h.current.Store(&domain.Snapshot{})
	return h
}

// Current returns the snapshot active right now. Never nil.
func (h *SnapshotHolder) Current() *domain.Snapshot {
	return h.current.Load()
}

// Reload rebuilds the snapshot from persistent state and swaps it in.
func (h *SnapshotHolder) Reload(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "SnapshotHolder.Reload", telemetry.SpanAttributes{})
	defer span.End()

	categories, err := h.categoryRepo.ListWithItems(ctx)
	if err != nil {
		span.SetError(err)
		return err
	}

	snap := &domain.Snapshot{Categories: categories}

	doc, err := h.documentRepo.GetActive(ctx)
	switch {
	case err == nil:
		if doc.Status == domain.DocumentStatusReady {
			chunks, err := h.documentRepo.ListChunks(ctx, doc.ID)
			if err != nil {
				span.SetError(err)
				return err
			}
			snap.Document = doc
			snap.Chunks = chunks
		}
	case errors.Is(err, domain.ErrDocumentNotFound):
		// no document loaded yet
	default:
		span.SetError(err)
		return err
	}

	h.current.Store(snap)
	log.Printf("snapshot reloaded: %d categories, %d chunks", len(snap.Categories), len(snap.Chunks))
	return nil
}
