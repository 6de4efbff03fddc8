package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meeting-collab-backend/models"
)

func TestBuildPollView_CountsAndTotal(t *testing.T) {
	poll := models.Poll{ID: "p1", Options: []string{"A", "B", "C"}}
	votes := []models.Vote{
		{PollID: "p1", UserID: "u1", OptionIndex: 0},
		{PollID: "p1", UserID: "u2", OptionIndex: 2},
		{PollID: "p1", UserID: "u3", OptionIndex: 2},
		{PollID: "other", UserID: "u4", OptionIndex: 1}, // different poll, ignored
	}

	view := BuildPollView(poll, votes)

	assert.Equal(t, int64(1), view.Votes[0])
	assert.Equal(t, int64(0), view.Votes[1])
	assert.Equal(t, int64(2), view.Votes[2])
	assert.Equal(t, int64(3), view.TotalVotes)

	// Total always equals the sum over all option indexes
	var sum int64
	for _, count := range view.Votes {
		sum += count
	}
	assert.Equal(t, view.TotalVotes, sum)
}

func TestBuildPollView_OutOfRangeIndexIgnored(t *testing.T) {
	poll := models.Poll{ID: "p1", Options: []string{"A", "B"}}
	votes := []models.Vote{
		{PollID: "p1", UserID: "u1", OptionIndex: 5},
		{PollID: "p1", UserID: "u2", OptionIndex: -1},
		{PollID: "p1", UserID: "u3", OptionIndex: 1},
	}

	view := BuildPollView(poll, votes)

	assert.Equal(t, int64(1), view.TotalVotes)
	assert.Equal(t, int64(1), view.Votes[1])
	assert.NotContains(t, view.Votes, 5)
	assert.NotContains(t, view.Votes, -1)
}

func TestBuildPollView_Deterministic(t *testing.T) {
	poll := models.Poll{ID: "p1", Options: []string{"A", "B"}}
	votes := []models.Vote{
		{PollID: "p1", UserID: "u1", OptionIndex: 0},
		{PollID: "p1", UserID: "u2", OptionIndex: 1},
	}

	first := BuildPollView(poll, votes)
	second := BuildPollView(poll, votes)

	assert.Equal(t, first, second)
}

func TestBuildPollViews_SortedNewestFirst(t *testing.T) {
	now := time.Now()
	polls := []models.Poll{
		{ID: "old", CreatedAt: now.Add(-2 * time.Hour), Options: []string{"A", "B"}},
		{ID: "new", CreatedAt: now, Options: []string{"A", "B"}},
		{ID: "mid", CreatedAt: now.Add(-1 * time.Hour), Options: []string{"A", "B"}},
	}

	views := BuildPollViews(polls, nil)

	assert.Len(t, views, 3)
	assert.Equal(t, "new", views[0].ID)
	assert.Equal(t, "mid", views[1].ID)
	assert.Equal(t, "old", views[2].ID)
}

func TestBuildPollViews_Empty(t *testing.T) {
	views := BuildPollViews(nil, nil)
	assert.Len(t, views, 0)
}
