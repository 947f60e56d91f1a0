package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/veldt-io/binstock/internal/checkout"
	"github.com/veldt-io/binstock/internal/config"
	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/importer"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/store"
	"github.com/veldt-io/binstock/internal/websocket"
)

// Router wraps the mux router and the engine components it exposes
type Router struct {
	*mux.Router
	items    *store.ItemStore
	checkout *checkout.Manager
	importer *importer.Pipeline
	hub      *websocket.Hub
	labels   config.LabelConfig
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(items *store.ItemStore, manager *checkout.Manager, pipeline *importer.Pipeline, hub *websocket.Hub, labels config.LabelConfig) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		items:    items,
		checkout: manager,
		importer: pipeline,
		hub:      hub,
		labels:   labels,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Item routes
	itemsAPI := r.PathPrefix("/api/items").Subrouter()
	itemsAPI.HandleFunc("", r.listItems).Methods("GET")
	itemsAPI.HandleFunc("", r.createItem).Methods("POST")
	itemsAPI.HandleFunc("/{id}", r.getItem).Methods("GET")
	itemsAPI.HandleFunc("/{id}", r.updateItem).Methods("PUT")
	itemsAPI.HandleFunc("/{id}", r.deleteItem).Methods("DELETE")
	itemsAPI.HandleFunc("/{id}/qrcode", r.itemQRCode).Methods("GET")
	itemsAPI.HandleFunc("/{id}/checkout", r.checkoutItem).Methods("POST")
	itemsAPI.HandleFunc("/{id}/return", r.returnItem).Methods("POST")

	// Per-user checkout ledger
	r.HandleFunc("/api/users/{userId}/checkouts", r.listCheckouts).Methods("GET")

	// Bulk CSV import
	r.HandleFunc("/api/import", r.importBatch).Methods("POST")

	// Planogram projection and printable bin labels
	r.HandleFunc("/api/planogram/{cabinet}", r.getPlanogram).Methods("GET")
	r.HandleFunc("/api/planogram/{cabinet}/labels.pdf", r.getBinLabels).Methods("GET")

	// Live item snapshots
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "running",
		"ws_clients": r.hub.ClientCount(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondEngineError maps typed engine errors to HTTP statuses. Engine
// failures surface verbatim as the operation's failure reason.
func respondEngineError(w http.ResponseWriter, err error) {
	respondError(w, errStatus(err), err.Error())
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, location.ErrOutOfRange),
		errors.Is(err, location.ErrUnparseable):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrInsufficientStock),
		errors.Is(err, checkout.ErrNoActiveCheckout),
		errors.Is(err, checkout.ErrExcessReturn),
		errors.Is(err, store.ErrIDCollision):
		return http.StatusConflict
	case database.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
