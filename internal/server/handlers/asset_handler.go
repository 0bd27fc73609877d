package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/service/assets"
)

// AssetService describes the inventory operations the HTTP layer can perform.
type AssetService interface {
	Rooms() models.RoomList
	List(ctx context.Context) ([]models.AssetRecord, error)
	Create(ctx context.Context, in models.AssetInput) (models.AssetRecord, error)
	Update(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error)
	Delete(ctx context.Context, room, id string) error
}

// AssetHandler exposes asset and room endpoints.
type AssetHandler struct {
	svc    AssetService
	logger *zap.Logger
}

// NewAssetHandler constructs the HTTP handler adapter.
func NewAssetHandler(svc AssetService, logger *zap.Logger) *AssetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetHandler{svc: svc, logger: logger}
}

// ListRooms returns the enumerable room set.
func (h *AssetHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Rooms())
}

// List returns every asset record.
func (h *AssetHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Create persists a new asset record.
func (h *AssetHandler) Create(c *gin.Context) {
	var in models.AssetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Update replaces the record addressed by room and id.
func (h *AssetHandler) Update(c *gin.Context) {
	var in models.AssetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Update(c.Request.Context(), c.Param("room"), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete removes the record addressed by room and id.
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("room"), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Item deletado com sucesso"})
}

func (h *AssetHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assets.ErrInvalidAsset), errors.Is(err, assets.ErrUnknownRoom):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item não encontrado"})
	case errors.Is(err, models.ErrDuplicateAssetNumber):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("asset operation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
