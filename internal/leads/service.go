package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"backoffice/internal/auth"
	"backoffice/internal/queue"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, l Lead) error
	List(ctx context.Context) ([]Lead, error)
	ListByAgent(ctx context.Context, agentID int64) ([]Lead, error)
	Exists(ctx context.Context, id int64) (bool, error)
	AssignAgent(ctx context.Context, leadIDs []int64, agentID int64) (int64, error)
	UpdateFollowUp(ctx context.Context, id int64, remark, status string) (*Lead, error)
	UpdateStatusForAgent(ctx context.Context, id, agentID int64, status, remark string) (*Lead, error)
	InsertNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, agentID int64) ([]Notification, error)
}

// AgentDirectory answers whether a user id is a valid assignment target.
type AgentDirectory interface {
	IsAgent(ctx context.Context, id int64) (bool, error)
}

// Service owns lead import, assignment, and follow-up updates.
type Service struct {
	store  Store
	agents AgentDirectory
	events queue.Queue
}

// NewService creates a service. events may be nil when no worker runs.
func NewService(store Store, agents AgentDirectory, events queue.Queue) *Service {
	return &Service{store: store, agents: agents, events: events}
}

// Import reads a CSV row source and inserts each row as an unassigned lead.
// Inserts are sequential and best-effort: rows before a failure stay
// committed, and the count of inserted rows is returned alongside the error.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, l := range rows {
		if err := s.store.Insert(ctx, l); err != nil {
			return inserted, err
		}
		inserted++
		importedTotal.Inc()
	}
	s.publish(ctx, EventImported, ImportedEvent{BatchID: uuid.NewString(), Count: inserted})
	return inserted, nil
}

// List returns all leads.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.store.List(ctx)
}

// Mine returns the caller's assigned leads. Only agents may call it.
func (s *Service) Mine(ctx context.Context, actor auth.Actor) ([]Lead, error) {
	if err := auth.Authorize(actor, auth.ActionViewOwnLeads); err != nil {
		return nil, err
	}
	return s.store.ListByAgent(ctx, actor.ID)
}

// Assign bulk-sets the owner on a set of leads. Admin only; the target must
// exist with the Agent role. A successful assignment publishes an event the
// worker turns into a notification for the agent.
func (s *Service) Assign(ctx context.Context, actor auth.Actor, leadIDs []int64, agentID int64) error {
	if err := auth.Authorize(actor, auth.ActionAssignLeads); err != nil {
		return err
	}
	ok, err := s.agents.IsAgent(ctx, agentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoAgent
	}
	n, err := s.store.AssignAgent(ctx, leadIDs, agentID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.publish(ctx, EventAssigned, AssignedEvent{
		BatchID:    uuid.NewString(),
		AgentID:    agentID,
		LeadIDs:    leadIDs,
		AssignedBy: actor.ID,
	})
	return nil
}

// UpdateFollowUp sets remark and status on a lead for the agent named in the
// request body. The caller must be that agent.
func (s *Service) UpdateFollowUp(ctx context.Context, actor auth.Actor, leadID int64, remark, status string, bodyUserID int64) (*Lead, error) {
	if err := auth.AuthorizeOwner(actor, auth.ActionUpdateLead, bodyUserID); err != nil {
		return nil, err
	}
	ok, err := s.store.Exists(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.UpdateFollowUp(ctx, leadID, remark, status)
}

// PatchStatus updates status and remark on a lead the caller owns; a lead
// that is absent or assigned elsewhere reports ErrNotFound.
func (s *Service) PatchStatus(ctx context.Context, actor auth.Actor, leadID int64, status, remark string) (*Lead, error) {
	if err := auth.Authorize(actor, auth.ActionUpdateLead); err != nil {
		return nil, err
	}
	return s.store.UpdateStatusForAgent(ctx, leadID, actor.ID, status, remark)
}

// Notifications returns the caller's assignment notifications.
func (s *Service) Notifications(ctx context.Context, actor auth.Actor) ([]Notification, error) {
	if err := auth.Authorize(actor, auth.ActionViewNotifications); err != nil {
		return nil, err
	}
	return s.store.ListNotifications(ctx, actor.ID)
}

// RecordAssignment materializes a notification row from an assignment event.
// Called by the worker.
func (s *Service) RecordAssignment(ctx context.Context, evt AssignedEvent) error {
	return s.store.InsertNotification(ctx, Notification{
		ID:        evt.BatchID,
		AgentID:   evt.AgentID,
		LeadCount: len(evt.LeadIDs),
		Message:   fmt.Sprintf("%d lead(s) assigned to you", len(evt.LeadIDs)),
	})
}

// publish best-effort enqueues an event; a queue failure is logged, never
// surfaced to the caller.
func (s *Service) publish(ctx context.Context, typ string, payload any) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s event failed: %v", typ, err)
		return
	}
	if err := s.events.Publish(ctx, queue.Message{Type: typ, Body: body}); err != nil {
		log.Printf("queue publish %s failed: %v", typ, err)
	}
}
