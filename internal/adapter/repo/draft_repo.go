package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"postforge/internal/domain"
	"postforge/internal/infra"
	"postforge/internal/sqlinline"
)

// DraftRepositoryPG implements domain.DraftRepository over Postgres.
type DraftRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewDraftRepository(sql infra.SQLExecutor) *DraftRepositoryPG {
	return &DraftRepositoryPG{sql: sql}
}

// Save inserts a draft. The (job_id, variant_number) unique constraint plus
// ON CONFLICT DO NOTHING makes replays from reclaimed tasks no-ops.
func (r *DraftRepositoryPG) Save(ctx context.Context, draft *domain.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	hashtags, err := json.Marshal(draft.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}
	meta, err := json.Marshal(draft.Meta)
	if err != nil {
		return fmt.Errorf("marshal draft meta: %w", err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertDraft,
		draft.ID,
		draft.JobID,
		draft.VariantNumber,
		draft.AgentName,
		draft.Body,
		hashtags,
		draft.VoiceFit,
		meta,
	); err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

// ListByJobID returns a job's drafts ordered by variant number.
func (r *DraftRepositoryPG) ListByJobID(ctx context.Context, jobID string) ([]domain.Draft, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QDraftsByJob, jobID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var (
			d        domain.Draft
			hashtags []byte
			meta     []byte
		)
		if err := rows.Scan(&d.ID, &d.JobID, &d.VariantNumber, &d.AgentName, &d.Body, &hashtags, &d.VoiceFit, &meta, &d.CreatedAt); err != nil {
			return nil, err
		}
		if len(hashtags) > 0 {
			if err := json.Unmarshal(hashtags, &d.Hashtags); err != nil {
				return nil, fmt.Errorf("decode draft %s hashtags: %w", d.ID, err)
			}
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &d.Meta); err != nil {
				return nil, fmt.Errorf("decode draft %s meta: %w", d.ID, err)
			}
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

var _ domain.DraftRepository = (*DraftRepositoryPG)(nil)
