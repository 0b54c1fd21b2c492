package activity

import (
	"strconv"
	"strings"
	"time"
)

// Event types pushed to listeners after the change is committed.
const (
	QuoteCreated  = "quote.created"
	QuoteSent     = "quote.sent"
	QuoteAccepted = "quote.accepted"
	QuoteDeclined = "quote.declined"

	JobCreated         = "job.created"
	JobUpdated         = "job.updated"
	JobStatusChanged   = "job.status_changed"
	JobCompleted       = "job.completed"
	JobMembersAssigned = "job.members_assigned"
	JobOnMyWay         = "job.on_my_way"

	TaskAdded   = "task.added"
	TaskToggled = "task.toggled"

	InvoiceSent     = "invoice.sent"
	PaymentRecorded = "payment.recorded"
	InvoicePaid     = "invoice.paid"

	ClientCreated = "client.created"
	ClientUpdated = "client.updated"
	ClientDeleted = "client.deleted"
	CrewCreated   = "crew.created"
	CrewUpdated   = "crew.updated"
	CrewDeleted   = "crew.deleted"
	MemberCreated = "member.created"
	MemberUpdated = "member.updated"
	MemberDeleted = "member.deleted"
)

// TopicAll receives every event.
const TopicAll = "*"

type Event struct {
	Type     string    `json:"type"`
	Entity   string    `json:"entity"`
	EntityID int64     `json:"entity_id"`
	JobID    *int64    `json:"job_id,omitempty"`
	At       time.Time `json:"at"`
	Payload  any       `json:"payload,omitempty"`
}

// NewEvent builds an event; jobID is attached when non-zero.
func NewEvent(typ, entity string, entityID, jobID int64, at time.Time, payload any) Event {
	evt := Event{
		Type:     typ,
		Entity:   entity,
		EntityID: entityID,
		At:       at.UTC(),
		Payload:  payload,
	}
	if jobID != 0 {
		evt.JobID = &jobID
	}
	return evt
}

func JobTopic(jobID int64) string {
	return "job:" + strconv.FormatInt(jobID, 10)
}

// ValidTopic accepts "*" and "job:<id>".
func ValidTopic(topic string) bool {
	if topic == TopicAll {
		return true
	}
	raw, ok := strings.CutPrefix(topic, "job:")
	if !ok {
		return false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return err == nil && id > 0
}

// Matches reports whether evt belongs to topic.
func (e Event) Matches(topic string) bool {
	if topic == TopicAll {
		return true
	}
	return e.JobID != nil && topic == JobTopic(*e.JobID)
}
