package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// counterRowID is the primary key of the single counter row.
const counterRowID = 1

// Allocator issues monotonically increasing suffixes for item ids. The
// counter lives in its own table row; every increment happens inside the
// same transaction that reads the prior value, so concurrent callers can
// never draw the same suffix.
type Allocator struct {
	db *database.DB
}

// NewAllocator creates an allocator backed by the given database.
func NewAllocator(db *database.DB) *Allocator {
	return &Allocator{db: db}
}

// EnsureCounter creates the counter row if it does not exist yet. Called
// once at startup after migration so NextSuffix never races on creation.
func (a *Allocator) EnsureCounter(ctx context.Context) error {
	counter := models.SequenceCounter{ID: counterRowID}
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter).Error
}

// NextSuffix atomically increments the counter and returns the new value.
// The row is locked for the duration of the transaction; under N
// concurrent callers the N returned values are distinct and strictly
// increasing. A suffix handed out here is never reissued, even if the
// caller's subsequent item write fails. Gaps are acceptable, duplicate
// ids are not.
func (a *Allocator) NextSuffix(ctx context.Context) (int64, error) {
	var next int64
	err := a.db.RunInTransaction(ctx, func(tx *gorm.DB) error {
		var counter models.SequenceCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, counterRowID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.SequenceCounter{ID: counterRowID}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		counter.Value++
		next = counter.Value
		return tx.Save(&counter).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// BuildItemID derives an item id from a display name and a counter
// suffix: the name is lower-cased and stripped to [a-z0-9], then the
// suffix is appended. Uniqueness rests on the counter's monotonicity,
// not on the stripped name; the store still rejects the rare collision
// instead of overwriting.
func BuildItemID(name string, suffix int64) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	b.WriteString(strconv.FormatInt(suffix, 10))
	return b.String()
}
