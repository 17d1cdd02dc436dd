package models

import (
	"time"
)

// Design is a named document holding an ordered set of user parameters.
type Design struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Parameter is a user parameter stored in a design
type Parameter struct {
	ID         string    `json:"id"`
	DesignID   string    `json:"design_id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Unit       string    `json:"unit,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Config represents the local config state
type Config struct {
	ActiveDesign string `json:"active_design,omitempty"`
	LastExport   string `json:"last_export,omitempty"` // Path of the most recent export, offered as the default next time
	LastImport   string `json:"last_import,omitempty"`
}

// ActionType represents the type of action that was performed
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Entity types recorded in the action log
const (
	EntityDesign    = "design"
	EntityParameter = "parameter"
)

// ActionLog represents a logged action that can be undone.
// Rows sharing a BatchID are undone together.
type ActionLog struct {
	ID           string     `json:"id"`
	BatchID      string     `json:"batch_id"`
	Label        string     `json:"label,omitempty"` // e.g. "Apply Params from JSON"
	ActionType   ActionType `json:"action_type"`
	EntityType   string     `json:"entity_type"` // design, parameter
	EntityID     string     `json:"entity_id"`
	DesignID     string     `json:"design_id,omitempty"`
	PreviousData string     `json:"previous_data"` // JSON snapshot before action
	NewData      string     `json:"new_data"`      // JSON snapshot after action
	Timestamp    time.Time  `json:"timestamp"`
	Undone       bool       `json:"undone"`
}

// Batch is a group of actions that are undone as one unit
type Batch struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	DesignID  string      `json:"design_id,omitempty"`
	Actions   []ActionLog `json:"actions"`
	Timestamp time.Time   `json:"timestamp"`
	Undone    bool        `json:"undone"`
}
