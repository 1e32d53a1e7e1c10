package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary      Download workbook
// @Description  The Configuration and Data In sheets as an .xlsx file.
// @Tags         workbook
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/workbook.xlsx [get]
// @Security     BearerAuth
func (h *Handler) exportWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.services.Export.WriteXLSX(c.Request.Context(), &buf); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to export workbook", "workbook_export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="farmbeats.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
