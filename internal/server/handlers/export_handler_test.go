package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/repository/memory"
	"github.com/lamic-ufsm/patrimonio/internal/service/export"
	"github.com/lamic-ufsm/patrimonio/internal/service/reporting"
)

func setupExportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo := memory.NewRepository()
	_, err := repo.Insert(context.Background(), models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab A", Quantity: 2, TotalValue: 1500})
	require.NoError(t, err)

	h := NewExportHandler(repo, reporting.NewService(repo, repo, nil, []string{"Lab A"}, nil), nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/exportar_excel", h.Spreadsheet)
	r.GET("/exportar_pdf", h.Document)
	r.GET("/resumo", h.Summary)
	return r
}

func TestExportSpreadsheet(t *testing.T) {
	w := perform(setupExportRouter(t), http.MethodGet, "/exportar_excel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.SpreadsheetMIME, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=inventario_lamic.xlsx", w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExportDocument(t *testing.T) {
	w := perform(setupExportRouter(t), http.MethodGet, "/exportar_pdf", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.DocumentMIME, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestSummary(t *testing.T) {
	w := perform(setupExportRouter(t), http.MethodGet, "/resumo", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"itens":1`)
	assert.Contains(t, w.Body.String(), `"sala":"Lab A"`)
}
