// Package importer ingests CSV batches of item records. Parsing sorts
// rows into a valid and an error bucket; importing walks a bucket row by
// row, creating items sequentially so counter contention and progress
// reporting stay simple. A failing row is logged and skipped: one bad
// row never aborts the rest of the batch, and there is no rollback: a
// half-completed import leaves its created rows in place.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/models"
	"github.com/veldt-io/binstock/internal/store"
)

// placeholderName fills in for rows imported without a usable name.
const placeholderName = "Unnamed item"

// Creator is the slice of the item store the pipeline writes through.
type Creator interface {
	Create(ctx context.Context, d store.Draft) (*models.Item, error)
}

// Row is one parsed CSV line. A row with no Errors is importable as-is;
// Warnings record dropped location expressions, which are metadata and
// never fail a row.
type Row struct {
	Line     int
	Draft    store.Draft
	Errors   []string
	Warnings []string
}

// Valid reports whether the row belongs in the valid bucket.
func (r Row) Valid() bool {
	return len(r.Errors) == 0
}

// Batch is a parsed CSV file split into buckets.
type Batch struct {
	ID   uuid.UUID
	Rows []Row
}

// Valid returns the rows with no field errors.
func (b *Batch) Valid() []Row {
	var out []Row
	for _, r := range b.Rows {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// Invalid returns the rows routed to the error bucket.
func (b *Batch) Invalid() []Row {
	var out []Row
	for _, r := range b.Rows {
		if !r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// ProgressFunc receives (imported, total) after each row commits.
type ProgressFunc func(imported, total int)

// Pipeline parses and imports item batches.
type Pipeline struct {
	items Creator
}

// NewPipeline creates a pipeline writing through the given creator.
func NewPipeline(items Creator) *Pipeline {
	return &Pipeline{items: items}
}

// ParseBatch reads a CSV document with a header row and classifies every
// data row. A row is valid iff its name is non-blank and every numeric
// field that is present parses to a non-negative number; anything else
// routes the row, with per-field messages, into the error bucket.
func (p *Pipeline) ParseBatch(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	batch := &Batch{ID: uuid.New()}
	line := 1
	for {
		record, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		batch.Rows = append(batch.Rows, parseRow(line, cols, record))
	}
	return batch, nil
}

func parseRow(line int, cols map[string]int, record []string) Row {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{Line: line}
	row.Draft = store.Draft{
		Name:         cell("name"),
		Description:  cell("description"),
		Supplier:     cell("supplier"),
		SupplierURL:  cell("supplier_url"),
		CountDate:    cell("count_date"),
		CountPerson:  cell("count_person"),
		DeliveryDate: cell("delivery_date"),
	}

	if row.Draft.Name == "" {
		row.Errors = append(row.Errors, "name: must not be blank")
	}

	row.Draft.OnHand = parseOptionalInt("on_hand", cell("on_hand"), &row)
	row.Draft.Quantity = parseOptionalInt("quantity", cell("quantity"), &row)
	row.Draft.RetailPrice = parseOptionalDecimal("retail_price", cell("retail_price"), &row)
	row.Draft.Locations = parseLocations(cell("location"), &row)

	return row
}

// parseOptionalInt treats an empty cell as absent, not zero and not an
// error. A present value must be a non-negative integer; otherwise the
// field contributes a row error and stays absent.
func parseOptionalInt(field, cell string, row *Row) *int {
	if cell == "" {
		return nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		row.Errors = append(row.Errors, fmt.Sprintf("%s: %q is not a number", field, cell))
		return nil
	}
	if n < 0 {
		row.Errors = append(row.Errors, fmt.Sprintf("%s: must not be negative, got %d", field, n))
		return nil
	}
	return &n
}

func parseOptionalDecimal(field, cell string, row *Row) *decimal.Decimal {
	if cell == "" {
		return nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		row.Errors = append(row.Errors, fmt.Sprintf("%s: %q is not a number", field, cell))
		return nil
	}
	if d.IsNegative() {
		row.Errors = append(row.Errors, fmt.Sprintf("%s: must not be negative, got %s", field, d))
		return nil
	}
	return &d
}

// parseLocations splits the cell on semicolons and runs each expression
// through the legacy-tolerant codec. Location is optional metadata: an
// expression that fails to parse is dropped with a warning, never a row
// error.
func parseLocations(cell string, row *Row) []location.Tuple {
	if cell == "" {
		return nil
	}
	var tuples []location.Tuple
	for _, expr := range strings.Split(cell, ";") {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		coord, err := location.DecodeString(expr)
		if err != nil {
			row.Warnings = append(row.Warnings, fmt.Sprintf("location: dropped %q: %v", expr, err))
			continue
		}
		tuples = append(tuples, coord.Tuple())
	}
	return tuples
}

// ImportValid imports only the valid bucket. Returns the number of items
// created.
func (p *Pipeline) ImportValid(ctx context.Context, b *Batch, progress ProgressFunc) (int, error) {
	return p.importRows(ctx, b.Valid(), false, progress)
}

// ImportAll imports the valid bucket plus every error-bucket row coerced
// to a best-effort draft: a missing name gets a placeholder and fields
// that failed to parse are dropped rather than zeroed.
func (p *Pipeline) ImportAll(ctx context.Context, b *Batch, progress ProgressFunc) (int, error) {
	return p.importRows(ctx, b.Rows, true, progress)
}

func (p *Pipeline) importRows(ctx context.Context, rows []Row, coerce bool, progress ProgressFunc) (int, error) {
	total := len(rows)
	imported := 0
	for _, row := range rows {
		draft := row.Draft
		if coerce && strings.TrimSpace(draft.Name) == "" {
			draft.Name = placeholderName
		}
		if _, err := p.items.Create(ctx, draft); err != nil {
			// One failing row never aborts the rest of the batch.
			log.Printf("⚠️  Import: line %d skipped: %v", row.Line, err)
			continue
		}
		imported++
		if progress != nil {
			progress(imported, total)
		}
	}
	return imported, nil
}
