package handlers

import (
	"io"
	"log"
	"net/http"
)

// importBatch ingests a CSV batch. The file arrives either as multipart
// form field "file" or as the raw request body. Query parameter "mode"
// selects the strategy: "valid" (default) imports only clean rows, "all"
// additionally imports error rows as best-effort drafts.
func (r *Router) importBatch(w http.ResponseWriter, req *http.Request) {
	var src io.Reader = req.Body
	if file, _, err := req.FormFile("file"); err == nil {
		defer file.Close()
		src = file
	}

	batch, err := r.importer.ParseBatch(src)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid CSV: "+err.Error())
		return
	}

	mode := req.URL.Query().Get("mode")

	progress := func(imported, total int) {
		log.Printf("📥 Import %s: %d/%d", batch.ID, imported, total)
	}

	var imported int
	switch mode {
	case "all":
		imported, err = r.importer.ImportAll(req.Context(), batch, progress)
	case "", "valid":
		imported, err = r.importer.ImportValid(req.Context(), batch, progress)
	default:
		respondError(w, http.StatusBadRequest, "Unknown import mode: "+mode)
		return
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}

	// Per-row problems are reported, never thrown: the response carries
	// the error bucket alongside the running totals.
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id":   batch.ID,
		"imported":   imported,
		"total_rows": len(batch.Rows),
		"valid_rows": len(batch.Valid()),
		"error_rows": batch.Invalid(),
	})
}
