package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/pagination"
	"github.com/technova-labs/inductbot/internal/service"
)

type ChatRepository struct {
	db dbtx
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: pool}
}

func NewChatRepositoryWithTx(tx pgx.Tx) *ChatRepository {
	return &ChatRepository{db: tx}
}

func (r *ChatRepository) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_messages (id, session_id, role, message, match_type, confidence, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.SessionID, m.Role, m.Message, nullableString(string(m.MatchType)), m.Confidence, nullableString(m.Category), m.CreatedAt,
	)
	return err
}

// ListBySession returns the full history of a session in chronological order.
func (r *ChatRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, role, message, match_type, confidence, category, created_at
		 FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatRows(rows)
}

// ListSessionsWithCursor pages over per-session rollups, most recent activity
// first.
func (r *ChatRepository) ListSessionsWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.ChatSessionPage, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
			 FROM chat_messages
			 GROUP BY session_id
			 HAVING (MAX(created_at), session_id) < ($1, $2)
			 ORDER BY MAX(created_at) DESC, session_id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
			 FROM chat_messages
			 GROUP BY session_id
			 ORDER BY MAX(created_at) DESC, session_id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.SessionSummary
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.SessionID, &s.MessageCount, &s.StartedAt, &s.LastActivity); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(sessions) > limit
	if hasMore {
		sessions = sessions[:limit]
	}

	var nextCursor string
	if hasMore && len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		nextCursor = pagination.EncodeCursor(last.SessionID, last.LastActivity)
	}

	return &service.ChatSessionPage{
		Sessions:   sessions,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *ChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM chat_messages WHERE session_id = $1`, sessionID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Reset wipes the entire chat history.
func (r *ChatRepository) Reset(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_messages`)
	return err
}

// Analytics aggregates assistant answers grouped by matched category.
// Department rollups are derived by the service layer.
func (r *ChatRepository) Analytics(ctx context.Context) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{
		CategoryCounts:   make(map[string]int),
		DepartmentCounts: make(map[string]int),
	}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT session_id), COUNT(*) FILTER (WHERE role = $1)
		 FROM chat_messages`,
		domain.ChatRoleUser,
	).Scan(&summary.TotalSessions, &summary.TotalQuestions)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*)
		 FROM chat_messages
		 WHERE role = $1 AND category IS NOT NULL
		 GROUP BY category`,
		domain.ChatRoleAssistant,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		summary.CategoryCounts[category] = count
	}
	return summary, rows.Err()
}

func scanChatRows(rows pgx.Rows) ([]*domain.ChatMessage, error) {
	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var matchType, category pgtype.Text
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Message, &matchType, &m.Confidence, &category, &m.CreatedAt); err != nil {
			return nil, err
		}
		if matchType.Valid {
			m.MatchType = domain.MatchType(matchType.String)
		}
		if category.Valid {
			m.Category = category.String
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
