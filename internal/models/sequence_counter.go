package models

// SequenceCounter is the single-row monotonic counter used to mint item
// id suffixes. It is only ever incremented, and only inside the same
// transaction that reads its prior value.
type SequenceCounter struct {
	ID    uint  `gorm:"primaryKey" json:"id"`
	Value int64 `gorm:"not null;default:0" json:"value"`
}

// TableName specifies the table name for SequenceCounter model
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
