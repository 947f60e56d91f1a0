package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/services/printer"
	"github.com/veldt-io/binstock/internal/store"
)

// itemPayload is the request body for item creation and updates. All
// fields are pointers so an update can distinguish "leave alone" from
// "set to empty".
type itemPayload struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	Supplier     *string           `json:"supplier"`
	SupplierURL  *string           `json:"supplier_url"`
	OnHand       *int              `json:"on_hand"`
	Quantity     *int              `json:"quantity"`
	RetailPrice  *decimal.Decimal  `json:"retail_price"`
	CountDate    *string           `json:"count_date"`
	CountPerson  *string           `json:"count_person"`
	DeliveryDate *string           `json:"delivery_date"`
	Locations    *[]location.Tuple `json:"location"`
}

func (p itemPayload) draft() store.Draft {
	d := store.Draft{
		OnHand:      p.OnHand,
		Quantity:    p.Quantity,
		RetailPrice: p.RetailPrice,
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Supplier != nil {
		d.Supplier = *p.Supplier
	}
	if p.SupplierURL != nil {
		d.SupplierURL = *p.SupplierURL
	}
	if p.CountDate != nil {
		d.CountDate = *p.CountDate
	}
	if p.CountPerson != nil {
		d.CountPerson = *p.CountPerson
	}
	if p.DeliveryDate != nil {
		d.DeliveryDate = *p.DeliveryDate
	}
	if p.Locations != nil {
		d.Locations = *p.Locations
	}
	return d
}

func (p itemPayload) patch() store.Patch {
	return store.Patch{
		Name:         p.Name,
		Description:  p.Description,
		Supplier:     p.Supplier,
		SupplierURL:  p.SupplierURL,
		OnHand:       p.OnHand,
		Quantity:     p.Quantity,
		RetailPrice:  p.RetailPrice,
		CountDate:    p.CountDate,
		CountPerson:  p.CountPerson,
		DeliveryDate: p.DeliveryDate,
		Locations:    p.Locations,
	}
}

// listItems returns all items
func (r *Router) listItems(w http.ResponseWriter, req *http.Request) {
	items, err := r.items.List(req.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// getItem returns a single item
func (r *Router) getItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	item, err := r.items.Get(req.Context(), vars["id"])
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// createItem creates a new item
func (r *Router) createItem(w http.ResponseWriter, req *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	item, err := r.items.Create(req.Context(), payload.draft())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// updateItem applies a partial update to an item
func (r *Router) updateItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var payload itemPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.items.Update(req.Context(), vars["id"], payload.patch()); err != nil {
		respondEngineError(w, err)
		return
	}

	item, err := r.items.Get(req.Context(), vars["id"])
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// deleteItem deletes an item
func (r *Router) deleteItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	if err := r.items.Delete(req.Context(), vars["id"]); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item deleted successfully",
	})
}

// itemQRCode renders the item's id as a QR PNG
func (r *Router) itemQRCode(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	item, err := r.items.Get(req.Context(), vars["id"])
	if err != nil {
		respondEngineError(w, err)
		return
	}

	png, err := printer.GenerateItemQR(item.ID, r.labels.BaseURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
