package event

import "time"

const OTPLifecycleDestination string = "otp_lifecycle"
const OTPLifecycleDestinationConsumerAudit string = "otp_lifecycle_audit"

// Lifecycle event types.
const (
	OTPGenerated      = "generated"
	OTPDeliveryFailed = "delivery_failed"
	OTPValidated      = "validated"
	OTPExpired        = "expired"
)

type OTPLifecycleMessage struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	OTPID       int64     `json:"otp_id,string"`
	UserID      int64     `json:"user_id,string"`
	OperationID string    `json:"operation_id"`
	Channel     string    `json:"channel,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
