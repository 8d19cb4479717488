package controllers

import (
	"net/http"
	"time"

	"markettakip/pkg/excel"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/response"
)

// ExportController serves the XLSX catalog download.
type ExportController struct {
	state *live.State
}

func NewExportController(state *live.State) *ExportController {
	return &ExportController{state: state}
}

// Catalog sends the two-sheet workbook built from the current snapshot. The
// workbook is fully built before any byte is written so a build failure can
// still produce a clean error response.
func (c *ExportController) Catalog(w http.ResponseWriter, r *http.Request) {
	f, err := excel.CatalogWorkbook(c.state.Products(), c.state.RegistryNames())
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog export failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Export failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+excel.Filename(time.Now())+`"`)

	if _, err := f.WriteTo(w); err != nil {
		logger.WithCtx(r.Context()).Warn("catalog export interrupted", "error", err)
	}
}
