package leads

import (
	"errors"
	"time"
)

// Unassigned is the sentinel owner for leads with no agent.
const Unassigned = "-"

// Lead is a prospective customer tracked through assignment and follow-up.
// Field names mirror the customers table the dashboard reads.
type Lead struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	AssignedTo  string     `json:"userid"`
	Status      *string    `json:"status"`
	Remark      *string    `json:"remark"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Notification is materialized by the worker when an admin assigns leads.
type Notification struct {
	ID        string    `json:"id"`
	AgentID   int64     `json:"agent_id"`
	LeadCount int       `json:"lead_count"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrNotFound means no lead matched the id (or it is not owned by the caller).
	ErrNotFound = errors.New("lead not found")
	// ErrNoAgent means the assignment target does not exist with the Agent role.
	ErrNoAgent = errors.New("agent not found or invalid role")
)

// Queue message types published by this package.
const (
	EventAssigned = "leads.assigned"
	EventImported = "leads.imported"
)

// AssignedEvent is the payload for EventAssigned messages.
type AssignedEvent struct {
	BatchID    string  `json:"batch_id"`
	AgentID    int64   `json:"agent_id"`
	LeadIDs    []int64 `json:"lead_ids"`
	AssignedBy int64   `json:"assigned_by"`
}

// ImportedEvent is the payload for EventImported messages.
type ImportedEvent struct {
	BatchID string `json:"batch_id"`
	Count   int    `json:"count"`
}
