package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// DraftRepository keeps unvalidated submission drafts in Redis. Drafts
// expire on their own; a real save clears them explicitly.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &DraftRepository{client: client, ttl: ttl}
}

func draftKey(studentID, weekStart string) string {
	return fmt.Sprintf("draft:%s:%s", studentID, weekStart)
}

// Save stores the draft, refreshing its TTL.
func (r *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.StudentID, draft.WeekStart), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Get loads a draft, returning nil when none exists.
func (r *DraftRepository) Get(ctx context.Context, studentID, weekStart string) (*models.Draft, error) {
	raw, err := r.client.Get(ctx, draftKey(studentID, weekStart)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Delete discards the draft after a successful save.
func (r *DraftRepository) Delete(ctx context.Context, studentID, weekStart string) error {
	if err := r.client.Del(ctx, draftKey(studentID, weekStart)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
