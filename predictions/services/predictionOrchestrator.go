package services

import (
	"context"
	"errors"
	"time"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/repositories"

	"go.uber.org/zap"
)

// StateNotifier is told about every state change of a page view.
type StateNotifier interface {
	PublishState(viewID string, state models.ViewState)
}

// PredictionOrchestrator runs the request/response cycle for a page view and
// owns its state: result list, loading flag and error message.
type PredictionOrchestrator struct {
	predictor Predictor
	states    repositories.ViewStateRepository
	notifier  StateNotifier
	now       func() time.Time
}

// NewPredictionOrchestrator wires the orchestrator. notifier may be nil.
func NewPredictionOrchestrator(predictor Predictor, states repositories.ViewStateRepository, notifier StateNotifier) *PredictionOrchestrator {
	return &PredictionOrchestrator{
		predictor: predictor,
		states:    states,
		notifier:  notifier,
		now:       time.Now,
	}
}

// State returns the current state of viewID.
func (o *PredictionOrchestrator) State(ctx context.Context, viewID string) (models.ViewState, error) {
	return o.states.Get(ctx, viewID)
}

// HandlePrediction fetches recommendations for timeOfDay into viewID's state.
//
// Loading is raised and the error cleared before the request, and loading is
// always lowered afterwards. On success the results are replaced wholesale; on
// failure only the error message changes. Prediction failures end up in the
// returned state; the error return reports storage problems only.
//
// Concurrent calls for the same view are not serialized: whichever finishes
// last leaves its outcome in place.
func (o *PredictionOrchestrator) HandlePrediction(ctx context.Context, viewID, timeOfDay string) (models.ViewState, error) {
	started, err := o.update(ctx, viewID, func(s *models.ViewState) {
		s.Loading = true
		s.Error = ""
	})
	if err != nil {
		return started, err
	}

	// The request outlives a client that navigated away.
	doctors, predictErr := o.predictor.Predict(context.WithoutCancel(ctx), timeOfDay)
	if predictErr != nil {
		config.Logger.Error("Error fetching predictions",
			zap.String("view", viewID), zap.String("time", timeOfDay), zap.Error(predictErr))
	} else {
		config.Logger.Info("Predictions received",
			zap.String("view", viewID), zap.String("time", timeOfDay), zap.Int("doctors", len(doctors)))
	}

	return o.update(context.WithoutCancel(ctx), viewID, func(s *models.ViewState) {
		s.Loading = false
		if predictErr != nil {
			s.Error = UserMessage(predictErr)
			return
		}
		s.Results = doctors
	})
}

// ExportCSV renders viewID's results as CSV. ok is false when there is nothing
// to export.
func (o *PredictionOrchestrator) ExportCSV(ctx context.Context, viewID string) (content, filename string, ok bool, err error) {
	st, err := o.states.Get(ctx, viewID)
	if err != nil {
		return "", "", false, err
	}
	content, ok = BuildCSV(st.Results)
	if !ok {
		return "", "", false, nil
	}
	return content, ExportFileName(o.now(), "csv"), true, nil
}

// ExportExcel renders viewID's results as an XLSX workbook. ok is false when
// there is nothing to export.
func (o *PredictionOrchestrator) ExportExcel(ctx context.Context, viewID string) (content []byte, filename string, ok bool, err error) {
	st, err := o.states.Get(ctx, viewID)
	if err != nil {
		return nil, "", false, err
	}
	content, ok, err = BuildExcel(st.Results)
	if err != nil || !ok {
		return nil, "", false, err
	}
	return content, ExportFileName(o.now(), "xlsx"), true, nil
}

func (o *PredictionOrchestrator) update(ctx context.Context, viewID string, fn func(*models.ViewState)) (models.ViewState, error) {
	st, err := o.states.Update(ctx, viewID, fn)
	if err != nil {
		config.Logger.Error("Failed to save view state", zap.String("view", viewID), zap.Error(err))
		return st, err
	}
	if o.notifier != nil {
		o.notifier.PublishState(viewID, st)
	}
	return st, nil
}

// UserMessage reduces a prediction error to the text shown to the user.
func UserMessage(err error) string {
	var pe *PredictionError
	switch {
	case errors.As(err, &pe):
		return pe.Message
	case errors.Is(err, ErrInvalidResponse):
		return InvalidResponseMessage
	default:
		return FetchFailedMessage
	}
}
