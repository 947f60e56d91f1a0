package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/veldt-io/binstock/internal/location"
	"github.com/veldt-io/binstock/internal/services/printer"
)

// getPlanogram projects all item placements in one cabinet onto its
// row x column grid.
func (r *Router) getPlanogram(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	cabinet, err := strconv.Atoi(vars["cabinet"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid cabinet number")
		return
	}

	items, err := r.items.List(req.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}

	var placements []location.Placement
	for _, item := range items {
		for _, t := range item.Locations {
			placements = append(placements, location.Placement{ItemID: item.ID, At: t})
		}
	}

	grid, err := location.Planogram(cabinet, placements)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cabinet": cabinet,
		"rows":    location.MaxRow,
		"columns": location.MaxColumn,
		"grid":    grid,
	})
}

// getBinLabels renders a printable PDF sheet of QR labels for every bin
// of one cabinet.
func (r *Router) getBinLabels(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	cabinet, err := strconv.Atoi(vars["cabinet"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid cabinet number")
		return
	}

	cfg := printer.DefaultSheetConfig()
	cfg.BaseURL = r.labels.BaseURL

	pdf, err := printer.GenerateBinLabelsPDF(cabinet, cfg)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
