package entity

import "time"

// NotificationStatus estado de entrega del SMS (la entrega es simulada).
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "Sent"
	NotificationFailed NotificationStatus = "Failed"
)

// NotificationLog registro de un SMS emitido tras una liquidación. Se escribe una sola vez.
type NotificationLog struct {
	ID              string             `json:"id,omitempty"`
	Date            time.Time          `json:"date"`
	RecipientName   string             `json:"recipientName"`
	RecipientMobile string             `json:"recipientMobile"`
	Message         string             `json:"message"`
	Status          NotificationStatus `json:"status"`
}
