package entity

import "github.com/google/uuid"

type OTPStatus string

const (
	OTPStatusActive  OTPStatus = "ACTIVE"
	OTPStatusUsed    OTPStatus = "USED"
	OTPStatusExpired OTPStatus = "EXPIRED"
)

// OTPCode is one generated passcode. Lifecycle: ACTIVE -> USED on a
// successful validation, ACTIVE -> EXPIRED once older than the config TTL.
// USED and EXPIRED are terminal.
type OTPCode struct {
	BaseSimple
	UserID      uuid.UUID `db:"user_id"`
	OperationID *string   `db:"operation_id"`
	Code        string    `db:"code"`
	Status      OTPStatus `db:"status"`
}
