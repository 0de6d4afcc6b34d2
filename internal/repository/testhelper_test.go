//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/testutil"
)

// setupTestDB starts a postgres container with the schema applied and returns
// a connected pool. The container is torn down when the test finishes.
func setupTestDB(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() {
		if err := pc.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	t.Cleanup(pool.Close)

	return ctx, pool
}

func truncateAll(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := testutil.TruncateAll(ctx, pool); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// pgNow returns a timestamp that round-trips through postgres unchanged.
func pgNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func seedCategory(ctx context.Context, t *testing.T, repo *CategoryRepository, name string, position int) *domain.Category {
	t.Helper()
	now := pgNow()
	cat := &domain.Category{
		Name:       name,
		Department: domain.DepartmentFor(name),
		Enabled:    true,
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(ctx, cat); err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return cat
}
