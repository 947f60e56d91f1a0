package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/veldt-io/binstock/internal/location"
	"gorm.io/datatypes"
)

// Item represents a tracked inventory item. The string primary key is
// minted once at creation (name-derived prefix plus counter suffix) and
// never changes. OnHand, Quantity and RetailPrice are pointers because
// "unknown" is a valid state distinct from zero.
type Item struct {
	ID           string                              `gorm:"primaryKey" json:"id"`
	Name         string                              `gorm:"not null" json:"name"`
	Description  string                              `json:"description"`
	Supplier     string                              `json:"supplier"`
	SupplierURL  string                              `json:"supplier_url,omitempty"`
	OnHand       *int                                `json:"on_hand,omitempty"`
	Quantity     *int                                `json:"quantity,omitempty"`
	RetailPrice  *decimal.Decimal                    `gorm:"type:numeric(12,2)" json:"retail_price,omitempty"`
	CountDate    string                              `json:"count_date"`
	CountPerson  string                              `json:"count_person"`
	DeliveryDate string                              `json:"delivery_date"`
	Locations    datatypes.JSONSlice[location.Tuple] `json:"location"`
	CreatedAt    time.Time                           `json:"created_at"`
	UpdatedAt    time.Time                           `json:"updated_at"`
}

// TableName specifies the table name for Item model
func (Item) TableName() string {
	return "items"
}

// AddLocation appends a bin to the item. Adding a tuple the item already
// holds is a no-op, so an item never lists the same bin twice.
func (i *Item) AddLocation(t location.Tuple) bool {
	for _, existing := range i.Locations {
		if existing == t {
			return false
		}
	}
	i.Locations = append(i.Locations, t)
	return true
}

// HasLocation reports whether the item is stored in the given bin.
func (i *Item) HasLocation(t location.Tuple) bool {
	for _, existing := range i.Locations {
		if existing == t {
			return true
		}
	}
	return false
}
