package dto

import "time"

type EventResponse struct {
	Seq     int64     `json:"seq"`
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
	EntryID *int64    `json:"entry_id,omitempty"`
	Summary string    `json:"summary,omitempty"`
	Message string    `json:"message,omitempty"`
}

type EventsResponse struct {
	Events    []EventResponse `json:"events"`
	LastSeq   int64           `json:"last_seq"`
	LockDepth int             `json:"lock_depth"`
}
