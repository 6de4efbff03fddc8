package models

import "time"

// Poll represents a poll record as stored under the poll: namespace.
// Options are addressed by index; the index is the stable option identifier
// that vote records point at, so the slice is never reordered after creation.
type Poll struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Options     []string  `json:"options"`
	CreatorID   string    `json:"creator_id"`
	CreatorName string    `json:"creator_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Vote represents a single user's choice for one poll.
// It is stored under vote:{poll_id}:{user_id}, so a repeated vote by the
// same user overwrites the previous record instead of adding a second one.
type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	UserID      string    `json:"user_id"`
	OptionIndex int       `json:"option_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// PollView is a Poll enriched with aggregated vote counts. It is derived on
// read and never persisted.
type PollView struct {
	Poll
	Votes      map[int]int64 `json:"votes"`
	TotalVotes int64         `json:"totalVotes"`
}

// CreatePollInput defines the expected input structure for creating a poll
type CreatePollInput struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required,min=2,dive,required"`
}

// VoteInput defines the body of a vote submission.
// OptionIndex is a pointer so index 0 survives the required check.
type VoteInput struct {
	OptionIndex *int `json:"option_index" binding:"required"`
}
