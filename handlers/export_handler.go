package handlers

import (
	"net/http"

	"github.com/Dosada05/pingpong-tournament/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(es services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ExportSnapshot(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, "export", result)
}
