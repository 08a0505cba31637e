package models

import "time"

// Status is the lifecycle state of a stored secret. A missing record has no
// status of its own; callers see StatusUnknown for it.
type Status string

const (
	StatusPending Status = "pending"
	StatusViewed  Status = "viewed"
	StatusExpired Status = "expired"
	StatusUnknown Status = "unknown"
)

// Phase identifies the two timer-driven transitions: PhaseExpire burns a
// still-pending secret at its TTL, PhasePurge removes the record entirely
// once the retention window has passed.
type Phase int

const (
	PhaseExpire Phase = 1
	PhasePurge  Phase = 2
)

// Record is the durable state kept per identifier. Payload and Auxiliary are
// opaque to the service and are present only while Status is pending; a burn
// (view or expiry) clears them and leaves the remaining metadata for the
// retention window.
type Record struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	Payload   []byte `json:"-"`
	Auxiliary []byte `json:"-"`
	Protected bool   `json:"protected"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `gorm:"index" json:"expires_at"`
	ViewedAt  *time.Time `json:"viewed_at,omitempty"`

	Status     Status `gorm:"index" json:"status"`
	ViewerHint string `json:"viewer_hint,omitempty"`

	// CreatorRef is an opaque reference supplied by the caller and returned
	// unmodified. It is never interpreted or validated here.
	CreatorRef string `json:"creator_ref,omitempty"`
}

func (Record) TableName() string { return "records" }

// Clone returns a deep copy so callers can hold a Record without aliasing
// store-internal state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Payload != nil {
		out.Payload = append([]byte(nil), r.Payload...)
	}
	if r.Auxiliary != nil {
		out.Auxiliary = append([]byte(nil), r.Auxiliary...)
	}
	if r.ViewedAt != nil {
		t := *r.ViewedAt
		out.ViewedAt = &t
	}
	return &out
}

// TimerEntry is the durable schedule slot for one identifier: the next phase
// to deliver and when it is due. There is at most one entry per identifier;
// scheduling again replaces it.
type TimerEntry struct {
	ID    string    `gorm:"primaryKey;type:text"`
	Phase Phase     `gorm:"not null"`
	DueAt time.Time `gorm:"index;not null"`
}

func (TimerEntry) TableName() string { return "timers" }
