package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestJobScheduler_AddJobRejectsBadSchedule(t *testing.T) {
	js := NewJobScheduler(zaptest.NewLogger(t))

	err := js.AddJob(ScheduledJob{Name: "bad", Schedule: "every day", Handler: func(context.Context) error { return nil }})
	assert.Error(t, err)
	assert.Empty(t, js.GetJobs())
}

func TestJobScheduler_RunNow(t *testing.T) {
	js := NewJobScheduler(zaptest.NewLogger(t))

	var gotDeadline bool
	require.NoError(t, js.AddJob(ScheduledJob{
		Name:     "snapshot",
		Schedule: "0 0 23 * * *",
		Timeout:  time.Second,
		Handler: func(ctx context.Context) error {
			_, gotDeadline = ctx.Deadline()
			return nil
		},
	}))
	require.NoError(t, js.AddJob(ScheduledJob{
		Name:     "failing",
		Schedule: "@every 1h",
		Handler:  func(context.Context) error { return errors.New("boom") },
	}))

	assert.NoError(t, js.RunNow(context.Background(), "snapshot"))
	assert.True(t, gotDeadline)
	assert.EqualError(t, js.RunNow(context.Background(), "failing"), "boom")
	assert.Error(t, js.RunNow(context.Background(), "missing"))
	assert.ElementsMatch(t, []string{"snapshot", "failing"}, js.GetJobs())

	js.RemoveJob("failing")
	assert.Equal(t, []string{"snapshot"}, js.GetJobs())
}

func TestJobScheduler_StartStop(t *testing.T) {
	js := NewJobScheduler(zaptest.NewLogger(t))
	js.Start()
	js.Stop()
}
