package entity

import "time"

// Status is the lifecycle state of a code. ACTIVE is the only state that
// can change and it only moves forward.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

func (s Status) String() string { return string(s) }

// IsTerminal reports whether no transition can leave s.
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusExpired
}

// Record is one issued code bound to a user and an operation. Code is only
// populated between generation and dispatch; storage keeps CodeHash.
type Record struct {
	ID          int64
	UserID      int64
	OperationID string
	Code        string
	CodeHash    string
	Channel     Channel
	Status      Status
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpiredAt reports whether the record is past its expiry at now. A record
// is still valid at exactly ExpiresAt.
func (r Record) IsExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
