package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/models"
)

// RecordReader looks up the stored record for a date key.
type RecordReader interface {
	Record(ctx context.Context, date string) (*models.DailyRecord, error)
}

// RecordHandler serves stored daily records.
type RecordHandler struct {
	logger  *common.Logger
	records RecordReader
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(logger *common.Logger, records RecordReader) *RecordHandler {
	return &RecordHandler{logger: logger, records: records}
}

// RecordResponse is the body of GET /api/records/{date}.
type RecordResponse struct {
	State  models.RecordState  `json:"state"`
	Record *models.DailyRecord `json:"record"`
}

// ServeHTTP handles GET /api/records/{date}. "today" resolves to the current date key.
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date := r.PathValue("date")
	label := date
	if date == "today" {
		date = ""
	} else if _, err := common.ParseDateKey(date); err != nil {
		WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.records.Record(r.Context(), date)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "no record for "+label)
		return
	case err != nil:
		if h.logger != nil {
			h.logger.Error().Str("date", label).Str("error", err.Error()).Msg("failed to load record")
		}
		WriteError(w, http.StatusInternalServerError, "failed to load record")
		return
	}

	WriteJSON(w, http.StatusOK, RecordResponse{State: rec.State(), Record: rec})
}
