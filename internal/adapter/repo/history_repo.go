package repo

import (
	"context"
	"fmt"

	"postforge/internal/domain"
	"postforge/internal/infra"
	"postforge/internal/sqlinline"
)

// HistoryRepositoryPG reads the historical reference posts. The pipeline
// never writes this table.
type HistoryRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewHistoryRepository(sql infra.SQLExecutor) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{sql: sql}
}

func (r *HistoryRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.HistoricalPost, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QHistoricalRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("list historical posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.HistoricalPost
	for rows.Next() {
		var p domain.HistoricalPost
		if err := rows.Scan(&p.ID, &p.Text, &p.PostedAt, &p.Reactions, &p.Comments, &p.Reposts, &p.ViralScore, &p.Tier); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

var _ domain.HistoryRepository = (*HistoryRepositoryPG)(nil)
