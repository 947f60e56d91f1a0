// Command seed fills the database with a small demo inventory so the
// API has something to serve on a fresh install.
package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/veldt-io/binstock/internal/config"
	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/models"
	"github.com/veldt-io/binstock/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Item{}, &models.CheckoutEntry{}, &models.SequenceCounter{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	items := store.NewItemStore(db)
	if err := items.Allocator().EnsureCounter(ctx); err != nil {
		log.Fatalf("Failed to seed sequence counter: %v", err)
	}

	drafts := []store.Draft{
		demoDraft("M3 hex bolt", "Stainless, 12mm", "Würth", 250, "9.90", 1, 1, 1),
		demoDraft("M3 hex nut", "Stainless", "Würth", 400, "4.50", 1, 1, 2),
		demoDraft("Jumper wires", "40pc, female-female", "Reichelt", 12, "2.95", 2, 3, 1),
		demoDraft("Arduino Nano", "Clone, CH340", "AZ-Delivery", 8, "12.49", 2, 4, 2),
		demoDraft("Heat-shrink tube", "Assorted box", "Conrad", 3, "7.99", 3, 1, 4),
	}

	created := 0
	for _, d := range drafts {
		item, err := items.Create(ctx, d)
		if err != nil {
			log.Printf("⚠️  Seed: skipped %q: %v", d.Name, err)
			continue
		}
		created++
		log.Printf("✅ Seeded %s (%s)", item.Name, item.ID)
	}

	log.Printf("🌱 Seed complete: %d items created", created)
}

func demoDraft(name, desc, supplier string, onHand int, price string, cab, row, col int) store.Draft {
	p, _ := decimal.NewFromString(price)
	tuple, err := location.Encode(cab, row, col)
	if err != nil {
		log.Fatalf("Bad demo location for %q: %v", name, err)
	}
	return store.Draft{
		Name:        name,
		Description: desc,
		Supplier:    supplier,
		OnHand:      &onHand,
		RetailPrice: &p,
		CountDate:   "2025-01-15",
		CountPerson: "seed",
		Locations:   []location.Tuple{tuple},
	}
}
