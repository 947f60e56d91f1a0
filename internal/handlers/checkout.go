package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// checkoutPayload is the body of checkout and return requests.
type checkoutPayload struct {
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}

// checkoutItem removes units from stock onto the caller's ledger
func (r *Router) checkoutItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var payload checkoutPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	entry, err := r.checkout.Checkout(req.Context(), payload.UserID, vars["id"], payload.Quantity)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// returnItem puts units back from the caller's ledger onto stock
func (r *Router) returnItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var payload checkoutPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	entry, err := r.checkout.Return(req.Context(), payload.UserID, vars["id"], payload.Quantity)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	if entry == nil {
		// Fully returned; the ledger entry is gone
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Checkout fully returned",
		})
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// listCheckouts returns a user's current ledger entries
func (r *Router) listCheckouts(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	entries, err := r.checkout.ListByUser(req.Context(), vars["userId"])
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
