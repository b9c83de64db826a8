package models

import "tbs/src/types"

// CallbackLog keeps a raw copy of every gateway callback for audit. Matched
// is false when the payload resolved to no booking.
type CallbackLog struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	TxnID      string       `gorm:"index" json:"txnid,omitempty"`
	Status     string       `json:"status,omitempty"`
	HashValid  bool         `json:"hash_valid"`
	Matched    bool         `json:"matched"`
	BookingID  *uint        `json:"booking_id,omitempty"`
	RawPayload *types.JSONB `gorm:"type:jsonb" json:"raw_payload,omitempty"`

	types.Timestamps
}
