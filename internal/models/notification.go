package models

import (
	"database/sql/driver"
	"time"
)

// Notification event types emitted by the review pipeline.
const (
	NotificationTicketApproved = "ticket.approved"
	NotificationTicketRejected = "ticket.rejected"
)

// RelatedEntityTicket marks notifications that point at a ticket.
const RelatedEntityTicket = "Ticket"

// NotificationData carries the structured payload of an event.
type NotificationData map[string]string

// Value marshals the payload to JSON for persistence.
func (d NotificationData) Value() (driver.Value, error) {
	if d == nil {
		d = NotificationData{}
	}
	return jsonValue(map[string]string(d), "notification data")
}

// Scan unmarshals JSON payloads into the map.
func (d *NotificationData) Scan(value interface{}) error {
	*d = nil
	return scanJSON(value, (*map[string]string)(d), "notification data")
}

// Notification is a logical event addressed to a single user.
type Notification struct {
	ID                string           `db:"id" json:"id"`
	UserID            string           `db:"user_id" json:"userId"`
	Type              string           `db:"type" json:"type"`
	Title             string           `db:"title" json:"title"`
	Message           string           `db:"message" json:"message"`
	RelatedEntityType string           `db:"related_entity_type" json:"relatedEntityType"`
	RelatedEntityID   string           `db:"related_entity_id" json:"relatedEntityId"`
	Data              NotificationData `db:"data" json:"data,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
}
