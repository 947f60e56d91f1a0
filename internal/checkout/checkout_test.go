package checkout

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/models"
	"github.com/veldt-io/binstock/internal/store"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set; skipping database-backed test")
	}

	db, err := database.OpenDSN(dsn)
	if err != nil {
		t.Fatalf("OpenDSN failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.AutoMigrate(&models.Item{}, &models.CheckoutEntry{}, &models.SequenceCounter{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	if err := db.Exec("TRUNCATE items, checkout_entries, sequence_counters").Error; err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}
	return db
}

// fixture creates an item with the given on-hand stock and returns the
// manager plus the item id.
func fixture(t *testing.T, db *database.DB, onHand int) (*Manager, *store.ItemStore, string) {
	t.Helper()
	ctx := context.Background()

	s := store.NewItemStore(db)
	if err := s.Allocator().EnsureCounter(ctx); err != nil {
		t.Fatalf("EnsureCounter failed: %v", err)
	}

	item, err := s.Create(ctx, store.Draft{Name: "Test stock", OnHand: &onHand})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return NewManager(db, s), s, item.ID
}

func onHandOf(t *testing.T, s *store.ItemStore, id string) int {
	t.Helper()
	item, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item.OnHand == nil {
		t.Fatal("OnHand is absent")
	}
	return *item.OnHand
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	db := testDB(t)
	m, s, id := fixture(t, db, 10)
	ctx := context.Background()

	_, err := m.Checkout(ctx, "alice", id, 15)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Checkout(15) against 10 = %v, want ErrInsufficientStock", err)
	}

	if got := onHandOf(t, s, id); got != 10 {
		t.Errorf("OnHand after rejected checkout = %d, want untouched 10", got)
	}

	entries, err := m.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Ledger entries = %v, want none after rejection", entries)
	}
}

func TestFullReturnDeletesLedgerEntry(t *testing.T) {
	db := testDB(t)
	m, s, id := fixture(t, db, 10)
	ctx := context.Background()

	entry, err := m.Checkout(ctx, "alice", id, 5)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if entry.Quantity != 5 {
		t.Errorf("Entry quantity = %d, want 5", entry.Quantity)
	}
	if got := onHandOf(t, s, id); got != 5 {
		t.Errorf("OnHand after checkout = %d, want 5", got)
	}

	remaining, err := m.Return(ctx, "alice", id, 5)
	if err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if remaining != nil {
		t.Errorf("Full return left entry %+v, want nil", remaining)
	}

	if got := onHandOf(t, s, id); got != 10 {
		t.Errorf("OnHand after full return = %d, want restored 10", got)
	}
	entries, _ := m.ListByUser(ctx, "alice")
	if len(entries) != 0 {
		t.Errorf("Ledger entries = %v, want none after full return", entries)
	}
}

func TestPartialReturn(t *testing.T) {
	db := testDB(t)
	m, s, id := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Checkout(ctx, "alice", id, 5); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	remaining, err := m.Return(ctx, "alice", id, 2)
	if err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if remaining == nil || remaining.Quantity != 3 {
		t.Fatalf("Remaining entry = %+v, want quantity 3", remaining)
	}
	if got := onHandOf(t, s, id); got != 7 {
		t.Errorf("OnHand after partial return = %d, want 7", got)
	}
}

func TestRepeatCheckoutIncrementsEntry(t *testing.T) {
	db := testDB(t)
	m, _, id := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Checkout(ctx, "alice", id, 3); err != nil {
		t.Fatalf("First checkout failed: %v", err)
	}
	entry, err := m.Checkout(ctx, "alice", id, 4)
	if err != nil {
		t.Fatalf("Second checkout failed: %v", err)
	}
	if entry.Quantity != 7 {
		t.Errorf("Entry quantity = %d, want accumulated 7", entry.Quantity)
	}

	entries, _ := m.ListByUser(ctx, "alice")
	if len(entries) != 1 {
		t.Errorf("Ledger entries = %d, want one per (user,item) pair", len(entries))
	}
}

func TestReturnErrors(t *testing.T) {
	db := testDB(t)
	m, _, id := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Return(ctx, "alice", id, 1); !errors.Is(err, ErrNoActiveCheckout) {
		t.Errorf("Return without checkout = %v, want ErrNoActiveCheckout", err)
	}

	if _, err := m.Checkout(ctx, "alice", id, 2); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if _, err := m.Return(ctx, "alice", id, 3); !errors.Is(err, ErrExcessReturn) {
		t.Errorf("Excess return = %v, want ErrExcessReturn", err)
	}
}

func TestCheckoutValidation(t *testing.T) {
	db := testDB(t)
	m, _, id := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Checkout(ctx, "alice", id, 0); !errors.Is(err, store.ErrValidation) {
		t.Errorf("Checkout(0) = %v, want ErrValidation", err)
	}
	if _, err := m.Checkout(ctx, "alice", id, -2); !errors.Is(err, store.ErrValidation) {
		t.Errorf("Checkout(-2) = %v, want ErrValidation", err)
	}
	if _, err := m.Checkout(ctx, "", id, 1); !errors.Is(err, store.ErrValidation) {
		t.Errorf("Checkout without user = %v, want ErrValidation", err)
	}
}

func TestCheckoutMissingItem(t *testing.T) {
	db := testDB(t)
	m, _, _ := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Checkout(ctx, "alice", "nosuchitem99", 1); !errors.Is(err, store.ErrItemNotFound) {
		t.Errorf("Checkout of missing item = %v, want ErrItemNotFound", err)
	}
}

func TestReturnAgainstDeletedItemLeavesOrphan(t *testing.T) {
	db := testDB(t)
	m, s, id := fixture(t, db, 10)
	ctx := context.Background()

	if _, err := m.Checkout(ctx, "alice", id, 4); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := m.Return(ctx, "alice", id, 4); !errors.Is(err, store.ErrItemNotFound) {
		t.Fatalf("Return against deleted item = %v, want ErrItemNotFound", err)
	}

	// The orphaned entry is surfaced, never auto-cleaned.
	entries, err := m.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Quantity != 4 {
		t.Errorf("Orphaned entries = %+v, want the original entry intact", entries)
	}
}

func TestConcurrentCheckoutsNeverOverdraw(t *testing.T) {
	db := testDB(t)
	m, s, id := fixture(t, db, 10)
	ctx := context.Background()

	// 6 users racing for 3 units each against 10 on hand: at most 3
	// can succeed, and stock must land exactly at 10 - 3*successes.
	const users = 6
	const each = 3

	var wg sync.WaitGroup
	errs := make([]error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := string(rune('a' + i))
			_, errs[i] = m.Checkout(ctx, user, id, each)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
			// expected for the losers
		default:
			t.Fatalf("Checkout %d failed unexpectedly: %v", i, err)
		}
	}

	if succeeded > 3 {
		t.Fatalf("%d checkouts of %d units succeeded against 10 on hand", succeeded, each)
	}

	got := onHandOf(t, s, id)
	if got != 10-succeeded*each {
		t.Errorf("OnHand = %d, want %d after %d committed checkouts", got, 10-succeeded*each, succeeded)
	}
	if got < 0 {
		t.Fatal("OnHand went negative")
	}
}
