package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryLengthValid(t *testing.T) {
	assert.True(t, LengthShort.Valid())
	assert.True(t, LengthMedium.Valid())
	assert.True(t, LengthLong.Valid())
	assert.False(t, SummaryLength("").Valid())
	assert.False(t, SummaryLength("huge").Valid())
}

func TestSummaryJobLifecycle(t *testing.T) {
	job := NewSummaryJob("11111111-1111-1111-1111-111111111111", LengthMedium, []string{"a", "b"})

	assert.Equal(t, JobStatusPending, job.Status)
	assert.False(t, job.Finished())
	require.Nil(t, job.StartedAt)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)
	assert.False(t, job.Finished())

	results := json.RawMessage(`[{"index":0}]`)
	job.Complete(results)
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, results, job.Results)
	require.NotNil(t, job.CompletedAt)
	assert.True(t, job.Finished())
	assert.GreaterOrEqual(t, job.DurationMs, 0)
}

func TestSummaryJobFail(t *testing.T) {
	job := NewSummaryJob("22222222-2222-2222-2222-222222222222", LengthShort, []string{"a"})
	job.Start()
	job.Fail("all texts failed")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "all texts failed", job.ErrorMessage)
	assert.True(t, job.Finished())
}

func TestSummaryJobCancel(t *testing.T) {
	job := NewSummaryJob("33333333-3333-3333-3333-333333333333", LengthLong, []string{"a"})
	job.Cancel()

	assert.Equal(t, JobStatusCancelled, job.Status)
	assert.True(t, job.Finished())
	require.NotNil(t, job.CompletedAt)
}

func TestSummaryJobDurationFromStart(t *testing.T) {
	job := NewSummaryJob("44444444-4444-4444-4444-444444444444", LengthMedium, []string{"a"})
	started := time.Now().Add(-1500 * time.Millisecond)
	job.Status = JobStatusRunning
	job.StartedAt = &started

	job.Complete(nil)
	assert.GreaterOrEqual(t, job.DurationMs, 1500)
}

func TestSummaryJobUpdateProgressClamps(t *testing.T) {
	job := NewSummaryJob("55555555-5555-5555-5555-555555555555", LengthMedium, []string{"a"})

	job.UpdateProgress(-5)
	assert.Equal(t, 0, job.Progress)
	job.UpdateProgress(42)
	assert.Equal(t, 42, job.Progress)
	job.UpdateProgress(150)
	assert.Equal(t, 100, job.Progress)
}

func TestSummaryJobCanRetry(t *testing.T) {
	job := NewSummaryJob("66666666-6666-6666-6666-666666666666", LengthMedium, []string{"a"})
	assert.False(t, job.CanRetry(3))

	job.Fail("boom")
	assert.True(t, job.CanRetry(3))

	job.RetryCount = 3
	assert.False(t, job.CanRetry(3))
}
