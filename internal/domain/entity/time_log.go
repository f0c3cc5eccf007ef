package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLogEntry registro de horas (solo inserción).
type TimeLogEntry struct {
	ID          string
	ProjectID   string
	UserID      string
	Username    string
	Date        time.Time
	Hours       decimal.Decimal
	Description string
	CreatedAt   time.Time
}
