package models

import "time"

// CheckoutEntry is the per-user ledger record of currently held units.
// There is at most one entry per (user, item) pair; an entry whose
// quantity would reach zero is deleted instead of being kept at zero.
type CheckoutEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_checkout_user_item,priority:1" json:"user_id"`
	ItemID    string    `gorm:"not null;uniqueIndex:idx_checkout_user_item,priority:2" json:"item_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for CheckoutEntry model
func (CheckoutEntry) TableName() string {
	return "checkout_entries"
}
