package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/events"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/persistence"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/pkg/util"
)

const (
	minTitleLen       = 3
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// TicketCreateInput describes ticket creation payload. Status defaults
// to open and priority to medium when omitted.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
}

// TicketUpdateInput is a partial merge; nil fields are left untouched.
// Owner, id and creation time can never change through an update.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// TicketService coordinates owner-scoped ticket workflows. Stateless;
// every call operates on the store's current snapshot.
type TicketService struct {
	records    *persistence.Records
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(records *persistence.Records, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{records: records, dispatcher: dispatcher, now: time.Now}
}

// List returns every ticket owned by ownerID, in insertion order.
func (s *TicketService) List(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	err := s.records.View(ctx, func(snap *domain.Snapshot) error {
		for _, ticket := range snap.Tickets {
			if ticket.UserID == ownerID {
				result = append(result, ticket)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get fetches a single ticket, enforcing ownership.
func (s *TicketService) Get(ctx context.Context, ownerID, ticketID string) (*domain.Ticket, error) {
	var found *domain.Ticket
	err := s.records.View(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Tickets {
			if snap.Tickets[i].ID == ticketID {
				if snap.Tickets[i].UserID != ownerID {
					return util.NewForbidden("ticket belongs to another user")
				}
				ticket := snap.Tickets[i]
				found = &ticket
				return nil
			}
		}
		return util.NewNotFound("ticket")
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Create validates and stores a new ticket for ownerID.
func (s *TicketService) Create(ctx context.Context, ownerID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	details := map[string]any{}
	validateTitle(title, details)
	validateDescription(description, details)
	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	} else if !domain.ValidStatus(status) {
		details["status"] = "status must be open, in_progress or closed"
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	} else if !domain.ValidPriority(priority) {
		details["priority"] = "priority must be low, medium or high"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("validation failed", details)
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.records.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Tickets = append(snap.Tickets, ticket)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		UserID:   ownerID,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Title: ticket.Title, Status: ticket.Status, Priority: ticket.Priority},
	})
	return &ticket, nil
}

// Update merges the supplied fields over the existing record. The
// updated timestamp advances on every call, even when nothing visible
// changes.
func (s *TicketService) Update(ctx context.Context, ownerID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	details := map[string]any{}
	if input.Title != nil {
		validateTitle(strings.TrimSpace(*input.Title), details)
	}
	if input.Description != nil {
		validateDescription(strings.TrimSpace(*input.Description), details)
	}
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		details["status"] = "status must be open, in_progress or closed"
	}
	if input.Priority != nil && !domain.ValidPriority(*input.Priority) {
		details["priority"] = "priority must be low, medium or high"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("validation failed", details)
	}

	var updated domain.Ticket
	err := s.records.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Tickets {
			if snap.Tickets[i].ID != ticketID {
				continue
			}
			if snap.Tickets[i].UserID != ownerID {
				return util.NewForbidden("ticket belongs to another user")
			}
			ticket := &snap.Tickets[i]
			if input.Title != nil {
				ticket.Title = strings.TrimSpace(*input.Title)
			}
			if input.Description != nil {
				ticket.Description = strings.TrimSpace(*input.Description)
			}
			if input.Status != nil {
				ticket.Status = *input.Status
			}
			if input.Priority != nil {
				ticket.Priority = *input.Priority
			}
			ticket.UpdatedAt = s.now()
			updated = *ticket
			return nil
		}
		return util.NewNotFound("ticket")
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		UserID:   ownerID,
		TicketID: updated.ID,
		Payload:  events.TicketUpdatedPayload{Status: updated.Status, Priority: updated.Priority},
	})
	return &updated, nil
}

// Delete removes the ticket after the same ownership check as Update.
func (s *TicketService) Delete(ctx context.Context, ownerID, ticketID string) error {
	err := s.records.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Tickets {
			if snap.Tickets[i].ID != ticketID {
				continue
			}
			if snap.Tickets[i].UserID != ownerID {
				return util.NewForbidden("ticket belongs to another user")
			}
			snap.Tickets = append(snap.Tickets[:i], snap.Tickets[i+1:]...)
			return nil
		}
		return util.NewNotFound("ticket")
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.EventTicketDeleted, UserID: ownerID, TicketID: ticketID})
	return nil
}

// Stats counts the owner's tickets by status. Statuses outside the
// enum cannot occur; create and update reject them.
func (s *TicketService) Stats(ctx context.Context, ownerID string) (*domain.TicketStats, error) {
	stats := &domain.TicketStats{}
	err := s.records.View(ctx, func(snap *domain.Snapshot) error {
		for _, ticket := range snap.Tickets {
			if ticket.UserID != ownerID {
				continue
			}
			stats.Total++
			switch ticket.Status {
			case domain.TicketStatusOpen:
				stats.Open++
			case domain.TicketStatusInProgress:
				stats.InProgress++
			case domain.TicketStatusClosed:
				stats.Closed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func validateTitle(title string, details map[string]any) {
	length := utf8.RuneCountInString(title)
	switch {
	case length < minTitleLen:
		details["title"] = "title must be at least 3 characters"
	case length > maxTitleLen:
		details["title"] = "title must be at most 100 characters"
	}
}

func validateDescription(description string, details map[string]any) {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		details["description"] = "description must be at most 500 characters"
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
