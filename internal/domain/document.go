package domain

import (
	"fmt"
	"time"
)

// DocumentStatus represents the ingestion state of an uploaded document
type DocumentStatus string

const (
	DocumentStatusPending DocumentStatus = "pending"
	DocumentStatusReady   DocumentStatus = "ready"
	DocumentStatusFailed  DocumentStatus = "failed"
)

// Document is an uploaded free-text knowledge source. At most one document is
// active at a time; replacing it invalidates every chunk derived from the old
// one.
type Document struct {
	ID         string
	Filename   string
	Content    string
	Status     DocumentStatus
	ChunkCount int
	UploadedAt time.Time
}

// Chunk is a bounded slice of a document used as a retrieval unit. Chunks are
// derived deterministically at ingestion time and belong to exactly one
// document generation.
type Chunk struct {
	ID           string
	DocumentID   string
	Index        int
	SourceOffset int
	Text         string
}

// IngestJobStatus represents the status of a document ingest job
type IngestJobStatus string

const (
	IngestJobStatusPending    IngestJobStatus = "pending"
	IngestJobStatusProcessing IngestJobStatus = "processing"
	IngestJobStatusCompleted  IngestJobStatus = "completed"
	IngestJobStatusFailed     IngestJobStatus = "failed"
)

// IngestJob tracks the chunking of one uploaded document.
type IngestJob struct {
	ID          string
	DocumentID  string
	Status      IngestJobStatus
	Retries     int
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.Content == "" {
		return ErrEmptyDocument
	}

	if !isValidDocumentStatus(d.Status) {
		return fmt.Errorf("document status is invalid: %s", d.Status)
	}

	return nil
}

func isValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusReady, DocumentStatusFailed:
		return true
	}
	return false
}

func isValidIngestJobStatus(s IngestJobStatus) bool {
	switch s {
	case IngestJobStatusPending, IngestJobStatusProcessing, IngestJobStatusCompleted, IngestJobStatusFailed:
		return true
	}
	return false
}

// ValidateIngestJob validates an IngestJob instance
func ValidateIngestJob(j *IngestJob) error {
	if j == nil {
		return fmt.Errorf("ingest job cannot be nil")
	}

	if j.ID == "" {
		return fmt.Errorf("ingest job ID is required")
	}

	if j.DocumentID == "" {
		return fmt.Errorf("ingest job DocumentID is required")
	}

	if !isValidIngestJobStatus(j.Status) {
		return ErrInvalidIngestStatus
	}

	return nil
}
