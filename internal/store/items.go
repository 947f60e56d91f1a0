package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Draft holds the fields of an item before it has an id. Optional
// numerics stay nil when unknown; nil is not zero.
type Draft struct {
	Name         string
	Description  string
	Supplier     string
	SupplierURL  string
	OnHand       *int
	Quantity     *int
	RetailPrice  *decimal.Decimal
	CountDate    string
	CountPerson  string
	DeliveryDate string
	Locations    []location.Tuple
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name         *string
	Description  *string
	Supplier     *string
	SupplierURL  *string
	OnHand       *int
	Quantity     *int
	RetailPrice  *decimal.Decimal
	CountDate    *string
	CountPerson  *string
	DeliveryDate *string
	Locations    *[]location.Tuple
}

// ItemStore provides CRUD and live-snapshot access to item records.
type ItemStore struct {
	db       *database.DB
	alloc    *Allocator
	notifier *Notifier
}

// NewItemStore creates an item store with its own allocator.
func NewItemStore(db *database.DB) *ItemStore {
	return &ItemStore{
		db:       db,
		alloc:    NewAllocator(db),
		notifier: NewNotifier(),
	}
}

// Allocator exposes the store's id allocator.
func (s *ItemStore) Allocator() *Allocator {
	return s.alloc
}

// Create validates and persists a new item, minting its id from the
// allocator. The suffix draw is its own transaction: if the item write
// fails afterwards the suffix is simply burned, which keeps ids unique
// at the cost of gaps.
func (s *ItemStore) Create(ctx context.Context, d Draft) (*models.Item, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	normalizeDraft(&d)

	suffix, err := s.alloc.NextSuffix(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate suffix: %w", err)
	}

	item := &models.Item{
		ID:           BuildItemID(d.Name, suffix),
		Name:         strings.TrimSpace(d.Name),
		Description:  d.Description,
		Supplier:     d.Supplier,
		SupplierURL:  d.SupplierURL,
		OnHand:       d.OnHand,
		Quantity:     d.Quantity,
		RetailPrice:  d.RetailPrice,
		CountDate:    d.CountDate,
		CountPerson:  d.CountPerson,
		DeliveryDate: d.DeliveryDate,
		Locations:    datatypes.NewJSONSlice(dedupeLocations(d.Locations)),
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrIDCollision, item.ID)
		}
		return nil, err
	}

	s.NotifyChanged(ctx)
	return item, nil
}

// Get fetches a single item by id.
func (s *ItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns all items ordered by id.
func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial patch to an existing item under the same
// clamping rules as Create. Patching the name to blank is rejected.
func (s *ItemStore) Update(ctx context.Context, id string, p Patch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	normalizePatch(&p)

	err := s.db.RunInTransaction(ctx, func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		if err != nil {
			return err
		}

		applyPatch(&item, p)
		return tx.Save(&item).Error
	})
	if err != nil {
		return err
	}

	s.NotifyChanged(ctx)
	return nil
}

// Delete removes an item unconditionally. Checkout ledger entries are
// deliberately not cascaded: an item deleted while checked out leaves
// orphaned entries behind, and a later return surfaces the gap as an
// item-not-found error instead of silently repairing it.
func (s *ItemStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.NotifyChanged(ctx)
	return nil
}

// Subscribe registers fn to receive the full item set after every
// mutation. The returned handle stops further callbacks.
func (s *ItemStore) Subscribe(fn func([]models.Item)) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// NotifyChanged pushes the current snapshot to all subscribers. Called
// after every committed mutation, including checkout/return transactions
// that touch item rows from outside this package.
func (s *ItemStore) NotifyChanged(ctx context.Context) {
	if !s.notifier.HasSubscribers() {
		return
	}
	items, err := s.List(ctx)
	if err != nil {
		log.Printf("⚠️  Snapshot refresh failed: %v", err)
		return
	}
	s.notifier.Publish(items)
}

// normalizeDraft clamps provided numerics to their floors. Absent values
// stay absent.
func normalizeDraft(d *Draft) {
	d.OnHand = clampInt(d.OnHand)
	d.Quantity = clampInt(d.Quantity)
	d.RetailPrice = clampDecimal(d.RetailPrice)
}

func normalizePatch(p *Patch) {
	p.OnHand = clampInt(p.OnHand)
	p.Quantity = clampInt(p.Quantity)
	p.RetailPrice = clampDecimal(p.RetailPrice)
}

func clampInt(v *int) *int {
	if v != nil && *v < 0 {
		zero := 0
		return &zero
	}
	return v
}

func clampDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v != nil && v.IsNegative() {
		zero := decimal.Zero
		return &zero
	}
	return v
}

func applyPatch(item *models.Item, p Patch) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Supplier != nil {
		item.Supplier = *p.Supplier
	}
	if p.SupplierURL != nil {
		item.SupplierURL = *p.SupplierURL
	}
	if p.OnHand != nil {
		item.OnHand = p.OnHand
	}
	if p.Quantity != nil {
		item.Quantity = p.Quantity
	}
	if p.RetailPrice != nil {
		item.RetailPrice = p.RetailPrice
	}
	if p.CountDate != nil {
		item.CountDate = *p.CountDate
	}
	if p.CountPerson != nil {
		item.CountPerson = *p.CountPerson
	}
	if p.DeliveryDate != nil {
		item.DeliveryDate = *p.DeliveryDate
	}
	if p.Locations != nil {
		item.Locations = datatypes.NewJSONSlice(dedupeLocations(*p.Locations))
	}
}

// dedupeLocations drops repeated tuples, keeping first occurrence order.
// No two locations on the same item may be identical.
func dedupeLocations(in []location.Tuple) []location.Tuple {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[location.Tuple]struct{}, len(in))
	out := make([]location.Tuple, 0, len(in))
	for _, t := range in {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
