package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"doctor-survey-targeting/predictions/models"

	"github.com/redis/go-redis/v9"
)

const (
	viewStateKeyPrefix = "view_state:"
	maxUpdateRetries   = 10
)

type redisViewStateRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisViewStateRepository stores view state as JSON under view_state:<id>.
// Keys expire ttl after their last update, so Sweep has nothing to do.
func NewRedisViewStateRepository(client *redis.Client, ttl time.Duration) ViewStateRepository {
	return &redisViewStateRepository{client: client, ttl: ttl, now: time.Now}
}

func viewStateKey(viewID string) string {
	return viewStateKeyPrefix + viewID
}

func (r *redisViewStateRepository) Get(ctx context.Context, viewID string) (models.ViewState, error) {
	return r.load(ctx, r.client, viewID)
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisViewStateRepository) load(ctx context.Context, c stringGetter, viewID string) (models.ViewState, error) {
	var state models.ViewState
	data, err := c.Get(ctx, viewStateKey(viewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("get view state %s: %w", viewID, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("decode view state %s: %w", viewID, err)
	}
	return state, nil
}

// Update runs an optimistic WATCH/MULTI transaction, retrying when another
// writer changed the key in between.
func (r *redisViewStateRepository) Update(ctx context.Context, viewID string, fn func(*models.ViewState)) (models.ViewState, error) {
	key := viewStateKey(viewID)
	var result models.ViewState

	txf := func(tx *redis.Tx) error {
		state, err := r.load(ctx, tx, viewID)
		if err != nil {
			return err
		}
		fn(&state)
		state.UpdatedAt = r.now()

		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("encode view state %s: %w", viewID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			result = state
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return models.ViewState{}, err
		}
		return result, nil
	}
	return models.ViewState{}, fmt.Errorf("update view state %s: too many concurrent writers", viewID)
}

func (r *redisViewStateRepository) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
