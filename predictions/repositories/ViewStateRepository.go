package repositories

import (
	"context"
	"sync"
	"time"

	"doctor-survey-targeting/predictions/models"
)

// ViewStateRepository stores the state of each page view.
type ViewStateRepository interface {
	// Get returns the state for viewID, or an empty state when none exists.
	Get(ctx context.Context, viewID string) (models.ViewState, error)
	// Update applies fn to the stored state and saves the result atomically
	// with respect to other Update calls on the same view.
	Update(ctx context.Context, viewID string, fn func(*models.ViewState)) (models.ViewState, error)
	// Sweep removes states not updated since cutoff and reports how many went.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memoryViewStateRepository struct {
	mu     sync.Mutex
	states map[string]models.ViewState
	now    func() time.Time
}

// NewMemoryViewStateRepository keeps view state in process memory.
func NewMemoryViewStateRepository() ViewStateRepository {
	return &memoryViewStateRepository{
		states: make(map[string]models.ViewState),
		now:    time.Now,
	}
}

func (r *memoryViewStateRepository) Get(_ context.Context, viewID string) (models.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyState(r.states[viewID]), nil
}

func (r *memoryViewStateRepository) Update(_ context.Context, viewID string, fn func(*models.ViewState)) (models.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := copyState(r.states[viewID])
	fn(&state)
	state.UpdatedAt = r.now()
	r.states[viewID] = state
	return copyState(state), nil
}

func (r *memoryViewStateRepository) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, st := range r.states {
		if st.UpdatedAt.Before(cutoff) {
			delete(r.states, id)
			removed++
		}
	}
	return removed, nil
}

// copyState detaches the result slice so callers cannot mutate stored state.
func copyState(s models.ViewState) models.ViewState {
	if s.Results != nil {
		s.Results = append([]models.DoctorRecommendation(nil), s.Results...)
	}
	return s
}
