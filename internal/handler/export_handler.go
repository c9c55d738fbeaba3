package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spedflow/internal/service"
)

// ExportHandler handles the period report download.
type ExportHandler struct {
	export *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Export handles GET /api/v1/empresas/:id/export?mes=&ano=
func (h *ExportHandler) Export(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	mes, err := strconv.Atoi(c.Query("mes"))
	if err != nil || mes < 1 || mes > 12 {
		RespondError(c, http.StatusBadRequest, "INVALID_MES", "mes must be between 1 and 12")
		return
	}
	ano, err := strconv.Atoi(c.Query("ano"))
	if err != nil || ano < 2000 || ano > 2100 {
		RespondError(c, http.StatusBadRequest, "INVALID_ANO", "ano must be a four-digit year")
		return
	}

	// The workbook is buffered so a failure mid-stream still produces a
	// clean JSON error instead of a truncated download.
	var buf bytes.Buffer
	if err := h.export.Export(c.Request.Context(), id, mes, ano, &buf, nopSink{}); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("relatorio_%02d_%04d.xlsx", mes, ano)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// nopSink discards progress; the synchronous download has nowhere to put it.
type nopSink struct{}

func (nopSink) Progress(int)  {}
func (nopSink) Status(string) {}
