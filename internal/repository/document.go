package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/technova-labs/inductbot/internal/domain"
)

type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Create inserts a new document. Exactly one document is active at a time:
// existing rows (and their chunks, via cascade) are removed first.
func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM documents`); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, filename, content, status, chunk_count, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Filename, d.Content, d.Status, d.ChunkCount, d.UploadedAt,
	)
	return err
}

func (r *DocumentRepository) GetActive(ctx context.Context) (*domain.Document, error) {
	var d domain.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, content, status, chunk_count, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC LIMIT 1`,
	).Scan(&d.ID, &d.Filename, &d.Content, &d.Status, &d.ChunkCount, &d.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, content, status, chunk_count, uploaded_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Filename, &d.Content, &d.Status, &d.ChunkCount, &d.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, chunk_count = $2 WHERE id = $3`,
		status, chunkCount, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM documents WHERE id = $1`, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ReplaceChunks swaps the chunk set of a document generation.
func (r *DocumentRepository) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM document_chunks WHERE document_id = $1`, documentID,
	); err != nil {
		return err
	}
	for _, chunk := range chunks {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO document_chunks (id, document_id, chunk_index, source_offset, content)
			 VALUES ($1, $2, $3, $4, $5)`,
			chunk.ID, documentID, chunk.Index, chunk.SourceOffset, chunk.Text,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *DocumentRepository) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, chunk_index, source_offset, content
		 FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.SourceOffset, &c.Text); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
