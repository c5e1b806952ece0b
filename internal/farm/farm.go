package farm

import (
	"time"
)

// Farm represents a single farm: the isolation boundary every other
// record in the system belongs to.
type Farm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
