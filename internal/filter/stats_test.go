package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/filter"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

func TestComputeStats(t *testing.T) {
	bugs := []model.Bug{
		{ID: "BUG-001", Status: model.StatusOpen, Priority: model.PriorityCritical},
		{ID: "BUG-002", Status: model.StatusOpen, Priority: model.PriorityLow},
		{ID: "BUG-003", Status: model.StatusInProgress, Priority: model.PriorityHigh},
		{ID: "BUG-004", Status: model.StatusResolved, Priority: model.PriorityHigh},
		{ID: "BUG-005", Status: model.StatusClosed, Priority: model.PriorityMedium},
		{ID: "BUG-006", Status: model.StatusReopened, Priority: model.PriorityCritical},
	}

	stats := filter.ComputeStats(bugs)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Open)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Closed)
	assert.Equal(t, 2, stats.Critical)
	assert.Equal(t, 2, stats.High)

	// reopened is counted in total but in no status bucket
	assert.Equal(t, stats.Total-1, stats.Open+stats.InProgress+stats.Resolved+stats.Closed)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := filter.ComputeStats(nil)

	assert.Equal(t, model.BugStats{}, stats)
}

func TestComputeStatsMatchesDirectRecount(t *testing.T) {
	bugs := []model.Bug{
		{Status: model.StatusOpen, Priority: model.PriorityHigh},
		{Status: model.StatusOpen, Priority: model.PriorityHigh},
		{Status: model.StatusClosed, Priority: model.PriorityCritical},
	}

	stats := filter.ComputeStats(bugs)

	open := 0
	for _, b := range bugs {
		if b.Status == model.StatusOpen {
			open++
		}
	}
	assert.Equal(t, open, stats.Open)
	assert.Equal(t, len(bugs), stats.Total)
}
