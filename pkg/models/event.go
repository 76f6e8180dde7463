package models

import "time"

// ChangeOp is the kind of change a ChangeEvent announces.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
	// OpResync announces that changes may have been missed.
	OpResync ChangeOp = "resync"
)

// ChangeEvent announces that a persisted document changed on the server.
// Receivers re-fetch; the event carries no document body.
type ChangeEvent struct {
	Kind Kind      `json:"kind"`
	Op   ChangeOp  `json:"op"`
	Key  string    `json:"key"`
	At   time.Time `json:"at"`
}
