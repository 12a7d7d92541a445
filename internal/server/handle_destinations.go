package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/playperu/globetrotter/internal/game"
)

type DestinationsResponse struct {
	Destinations []DestinationSummary `json:"destinations"`
}

// handleListDestinations lists the catalog by name. limit is optional;
// zero or absent returns everything.
func handleListDestinations(logger *slog.Logger, catalog game.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		list, err := catalog.ListDestinations(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DestinationsResponse{Destinations: destinationSummaries(list)})
	}
}
