package shared

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyRecord struct {
	Key         string
	Endpoint    string
	RequestHash string
	BookingID   uuid.UUID
	ExpiresAt   time.Time
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

const (
	NotificationStatusQueued = "queued"
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"

	// MaxNotificationAttempts stops the relay from retrying a job forever.
	MaxNotificationAttempts = 5
)
