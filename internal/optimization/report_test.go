package optimization

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	trials := []TrialResult{
		{Start: 0, Distance: 0.5},
		{Start: 1, Distance: 0.2},
		{Start: 2, Err: fmt.Errorf("diverged")},
		{Start: 3, Distance: 0.3},
	}

	s := Summarize(trials)
	assert.Equal(t, 4, s.Trials)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 0.2, s.Best)
	assert.InDelta(t, (0.2+0.3+0.5)/3, s.Mean, 1e-15)
	assert.Equal(t, 0.3, s.Median)
	assert.Greater(t, s.StdDev, 0.0)
}

func TestSummarizeSingleTrial(t *testing.T) {
	s := Summarize([]TrialResult{{Start: 0, Distance: 0.7}})
	assert.Equal(t, 1, s.Trials)
	assert.Equal(t, 0.7, s.Best)
	assert.Equal(t, 0.7, s.Mean)
	assert.Equal(t, 0.7, s.Median)
	assert.Zero(t, s.StdDev, "a single sample has no spread")
}

func TestSummarizeAllFailed(t *testing.T) {
	trials := []TrialResult{
		{Start: 0, Err: fmt.Errorf("diverged")},
		{Start: 1, Err: fmt.Errorf("diverged")},
	}

	s := Summarize(trials)
	assert.Equal(t, 2, s.Trials)
	assert.Equal(t, 2, s.Failed)
	assert.Zero(t, s.Best)
	assert.Zero(t, s.Mean)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Trials)
	assert.Zero(t, s.Failed)
}
