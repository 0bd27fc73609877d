package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/service/export"
)

// AssetLister provides the records to export.
type AssetLister interface {
	List(ctx context.Context) ([]models.AssetRecord, error)
}

// SummaryProvider computes the inventory summary.
type SummaryProvider interface {
	Summary(ctx context.Context) (models.InventorySummary, error)
}

// ExportHandler serves the inventory as downloadable files and as a summary.
type ExportHandler struct {
	assets    AssetLister
	reporting SummaryProvider
	logger    *zap.Logger
}

// NewExportHandler constructs the export handler.
func NewExportHandler(assets AssetLister, reporting SummaryProvider, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{assets: assets, reporting: reporting, logger: logger}
}

// Spreadsheet streams the inventory as an XLSX workbook.
func (h *ExportHandler) Spreadsheet(c *gin.Context) {
	h.serve(c, export.SpreadsheetFilename, export.SpreadsheetMIME, export.Spreadsheet)
}

// Document streams the inventory as a PDF report.
func (h *ExportHandler) Document(c *gin.Context) {
	h.serve(c, export.DocumentFilename, export.DocumentMIME, export.Document)
}

// Summary returns per-room totals.
func (h *ExportHandler) Summary(c *gin.Context) {
	summary, err := h.reporting.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed computing summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ExportHandler) serve(c *gin.Context, filename, mime string, render func([]models.AssetRecord) ([]byte, error)) {
	records, err := h.assets.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading assets for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	data, err := render(records)
	if err != nil {
		h.logger.Error("failed rendering export", zap.String("file", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, mime, data)
}
