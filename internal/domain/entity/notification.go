package entity

import "time"

// Notification mensaje en la bandeja de un usuario.
type Notification struct {
	ID              string
	RecipientID     string
	Message         string
	RelatedEntityID string
	Read            bool
	CreatedAt       time.Time
}
