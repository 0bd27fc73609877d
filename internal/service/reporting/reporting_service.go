package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	repo "github.com/lamic-ufsm/patrimonio/internal/repository/sheets"
)

const (
	dateLayout       = "2006-01-02"
	inventoryRange   = "Inventario!A1:F"
	summaryHistRange = "Resumo!A:D"
)

// AssetLister provides the records to aggregate.
type AssetLister interface {
	List(ctx context.Context) ([]models.AssetRecord, error)
}

// SnapshotStore persists inventory summaries.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, summary models.InventorySummary) error
}

// Service aggregates the inventory and publishes periodic snapshots.
type Service struct {
	assets    AssetLister
	snapshots SnapshotStore
	sheets    repo.Repository
	rooms     []string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. sheets may be nil when the
// Google Sheets mirror is not configured.
func NewService(assets AssetLister, snapshots SnapshotStore, sheets repo.Repository, rooms []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assets:    assets,
		snapshots: snapshots,
		sheets:    sheets,
		rooms:     append([]string(nil), rooms...),
		logger:    logger,
		now:       time.Now,
	}
}

// Summary computes per-room totals of the current inventory.
func (s *Service) Summary(ctx context.Context) (models.InventorySummary, error) {
	records, err := s.assets.List(ctx)
	if err != nil {
		return models.InventorySummary{}, fmt.Errorf("load assets: %w", err)
	}
	return Summarize(records, s.rooms, s.now().UTC()), nil
}

// Snapshot stores the current summary and refreshes the spreadsheet mirror.
func (s *Service) Snapshot(ctx context.Context) error {
	records, err := s.assets.List(ctx)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	summary := Summarize(records, s.rooms, s.now().UTC())

	if err := s.snapshots.SaveSnapshot(ctx, summary); err != nil {
		return err
	}

	if s.sheets == nil {
		return nil
	}

	if err := s.sheets.ReplaceRange(ctx, inventoryRange, InventoryRows(records)); err != nil {
		return fmt.Errorf("mirror inventory: %w", err)
	}

	row := []interface{}{summary.CreatedAt.Format(dateLayout), summary.Items, summary.Quantity, summary.TotalValue}
	if err := s.sheets.WriteRow(ctx, summaryHistRange, row); err != nil {
		return fmt.Errorf("append summary row: %w", err)
	}

	s.logger.Info("inventory mirrored to sheets", zap.Int("records", len(records)))
	return nil
}

// Summarize aggregates records per room. Rooms are listed in the given order,
// followed by any room only present in the records.
func Summarize(records []models.AssetRecord, rooms []string, at time.Time) models.InventorySummary {
	index := make(map[string]int, len(rooms))
	summary := models.InventorySummary{Rooms: make([]models.RoomSummary, 0, len(rooms)), CreatedAt: at}

	for _, room := range rooms {
		index[room] = len(summary.Rooms)
		summary.Rooms = append(summary.Rooms, models.RoomSummary{Room: room})
	}

	for _, r := range records {
		i, ok := index[r.Room]
		if !ok {
			i = len(summary.Rooms)
			index[r.Room] = i
			summary.Rooms = append(summary.Rooms, models.RoomSummary{Room: r.Room})
		}

		room := &summary.Rooms[i]
		room.Items++
		room.Quantity += r.Quantity
		room.TotalValue += r.TotalValue

		summary.Items++
		summary.Quantity += r.Quantity
		summary.TotalValue += r.TotalValue
	}

	return summary
}

// InventoryRows lays records out as spreadsheet rows, header first.
func InventoryRows(records []models.AssetRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, []interface{}{"Patrimônio LAMIC", "Patrimônio UFSM", "Nome", "Sala", "Quantidade", "Valor Total"})
	for _, r := range records {
		rows = append(rows, []interface{}{r.AssetNumberPrimary, r.AssetNumberSecondary, r.Name, r.Room, r.Quantity, r.TotalValue})
	}
	return rows
}
