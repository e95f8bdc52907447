package utils

import (
	"context"
	"testing"
	"time"

	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiredViewStates(t *testing.T) {
	repo := repositories.NewMemoryViewStateRepository()
	ctx := context.Background()
	_, err := repo.Update(ctx, "v1", func(s *models.ViewState) { s.Error = "x" })
	require.NoError(t, err)

	removed, err := SweepExpiredViewStates(ctx, repo, time.Minute, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed, "fresh view kept")

	removed, err = SweepExpiredViewStates(ctx, repo, time.Minute, time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestRunScheduledCleanup_InvalidSchedule(t *testing.T) {
	_, err := RunScheduledCleanup("every now and then", repositories.NewMemoryViewStateRepository(), time.Minute)
	assert.Error(t, err)
}

func TestRunScheduledCleanup_StartsAndStops(t *testing.T) {
	c, err := RunScheduledCleanup("*/5 * * * *", repositories.NewMemoryViewStateRepository(), time.Minute)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	<-c.Stop().Done()
}
