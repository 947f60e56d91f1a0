// Package checkout mutates on-hand stock and per-user checkout ledgers
// as single atomic transactions. Stock and ledger always move together:
// the store never decrements on-hand without the matching ledger write,
// and a transaction that observed stale reads is retried, not partially
// applied.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/models"
	"github.com/veldt-io/binstock/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficientStock reports a checkout larger than the on-hand
	// quantity observed inside the transaction.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNoActiveCheckout reports a return with no ledger entry for the
	// (user, item) pair.
	ErrNoActiveCheckout = errors.New("no active checkout")

	// ErrExcessReturn reports a return of more units than the user holds.
	ErrExcessReturn = errors.New("return exceeds checked-out quantity")
)

// Manager executes checkout and return transactions.
type Manager struct {
	db    *database.DB
	items *store.ItemStore
}

// NewManager creates a transaction manager sharing the item store's
// database and snapshot notifier.
func NewManager(db *database.DB, items *store.ItemStore) *Manager {
	return &Manager{db: db, items: items}
}

// Checkout removes qty units from an item's on-hand stock and records
// them on the user's ledger, all in one transaction. The on-hand check
// happens against the row locked inside the transaction, never against
// an earlier read, so two users racing for the last units cannot drive
// stock negative: the loser fails with ErrInsufficientStock.
func (m *Manager) Checkout(ctx context.Context, userID, itemID string, qty int) (*models.CheckoutEntry, error) {
	if err := validateRequest(userID, itemID, qty); err != nil {
		return nil, err
	}

	var entry models.CheckoutEntry
	err := m.db.RunInTransaction(ctx, func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", store.ErrItemNotFound, itemID)
		}
		if err != nil {
			return err
		}

		onHand := 0
		if item.OnHand != nil {
			onHand = *item.OnHand
		}
		if onHand < qty {
			return fmt.Errorf("%w: %d on hand, %d requested", ErrInsufficientStock, onHand, qty)
		}

		remaining := onHand - qty
		item.OnHand = &remaining
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			First(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.CheckoutEntry{UserID: userID, ItemID: itemID, Quantity: qty}
			return tx.Create(&entry).Error
		case err != nil:
			return err
		default:
			entry.Quantity += qty
			return tx.Save(&entry).Error
		}
	})
	if err != nil {
		return nil, err
	}

	m.items.NotifyChanged(ctx)
	return &entry, nil
}

// Return puts qty units back onto the item's on-hand stock and reduces
// the user's ledger entry, deleting it when it reaches zero. A return
// against an item that was deleted while checked out fails with
// ErrItemNotFound and leaves the orphaned entry in place; the gap is
// surfaced, never auto-repaired. The returned entry is nil when the
// checkout was fully returned.
func (m *Manager) Return(ctx context.Context, userID, itemID string, qty int) (*models.CheckoutEntry, error) {
	if err := validateRequest(userID, itemID, qty); err != nil {
		return nil, err
	}

	var remaining *models.CheckoutEntry
	err := m.db.RunInTransaction(ctx, func(tx *gorm.DB) error {
		remaining = nil

		var entry models.CheckoutEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s, item %s", ErrNoActiveCheckout, userID, itemID)
		}
		if err != nil {
			return err
		}

		if qty > entry.Quantity {
			return fmt.Errorf("%w: %d held, %d returned", ErrExcessReturn, entry.Quantity, qty)
		}

		var item models.Item
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", store.ErrItemNotFound, itemID)
		}
		if err != nil {
			return err
		}

		onHand := qty
		if item.OnHand != nil {
			onHand = *item.OnHand + qty
		}
		item.OnHand = &onHand
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		if qty == entry.Quantity {
			return tx.Delete(&entry).Error
		}
		entry.Quantity -= qty
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		remaining = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.items.NotifyChanged(ctx)
	return remaining, nil
}

// ListByUser returns the user's current ledger entries.
func (m *Manager) ListByUser(ctx context.Context, userID string) ([]models.CheckoutEntry, error) {
	var entries []models.CheckoutEntry
	err := m.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("item_id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func validateRequest(userID, itemID string, qty int) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id must not be empty", store.ErrValidation)
	}
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id must not be empty", store.ErrValidation)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", store.ErrValidation, qty)
	}
	return nil
}
