package assets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

var (
	// ErrInvalidAsset indicates the submitted fields violate a field constraint.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrUnknownRoom indicates the room is not part of the configured room set.
	ErrUnknownRoom = errors.New("unknown room")
)

// Repository is the storage the service persists asset records into.
type Repository interface {
	List(ctx context.Context) ([]models.AssetRecord, error)
	Get(ctx context.Context, room, id string) (models.AssetRecord, error)
	FindByAssetNumber(ctx context.Context, number string) (*models.AssetRecord, error)
	Insert(ctx context.Context, in models.AssetInput) (models.AssetRecord, error)
	Replace(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error)
	Delete(ctx context.Context, room, id string) error
}

// Service enforces the inventory rules on top of a Repository.
type Service struct {
	repo   Repository
	rooms  models.RoomList
	logger *zap.Logger
}

// NewService constructs the asset service for the given room set.
func NewService(repo Repository, rooms []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		rooms:  models.RoomList{Rooms: append([]string(nil), rooms...)},
		logger: logger,
	}
}

// Rooms returns the enumerable room set.
func (s *Service) Rooms() models.RoomList {
	return models.RoomList{Rooms: append([]string(nil), s.rooms.Rooms...)}
}

// List returns every stored record.
func (s *Service) List(ctx context.Context) ([]models.AssetRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return records, nil
}

// Create validates and persists a new record.
func (s *Service) Create(ctx context.Context, in models.AssetInput) (models.AssetRecord, error) {
	in, err := s.check(in)
	if err != nil {
		return models.AssetRecord{}, err
	}

	if err := s.ensureUniqueNumber(ctx, in.AssetNumberPrimary, ""); err != nil {
		return models.AssetRecord{}, err
	}

	record, err := s.repo.Insert(ctx, in)
	if err != nil {
		return models.AssetRecord{}, fmt.Errorf("create asset: %w", err)
	}

	s.logger.Info("asset created",
		zap.String("id", record.ID),
		zap.String("number", record.AssetNumberPrimary),
		zap.String("room", record.Room))
	return record, nil
}

// Update replaces the record addressed by room and id.
func (s *Service) Update(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error) {
	if !s.rooms.Contains(room) {
		return models.AssetRecord{}, models.ErrAssetNotFound
	}

	in, err := s.check(in)
	if err != nil {
		return models.AssetRecord{}, err
	}

	if err := s.ensureUniqueNumber(ctx, in.AssetNumberPrimary, id); err != nil {
		return models.AssetRecord{}, err
	}

	record, err := s.repo.Replace(ctx, room, id, in)
	if err != nil {
		return models.AssetRecord{}, fmt.Errorf("update asset: %w", err)
	}

	s.logger.Info("asset updated", zap.String("id", id), zap.String("room", room), zap.String("new_room", record.Room))
	return record, nil
}

// Delete removes the record addressed by room and id.
func (s *Service) Delete(ctx context.Context, room, id string) error {
	if !s.rooms.Contains(room) {
		return models.ErrAssetNotFound
	}

	if err := s.repo.Delete(ctx, room, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	s.logger.Info("asset deleted", zap.String("id", id), zap.String("room", room))
	return nil
}

func (s *Service) check(in models.AssetInput) (models.AssetInput, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	if !s.rooms.Contains(in.Room) {
		return in, fmt.Errorf("%w: %s", ErrUnknownRoom, in.Room)
	}
	return in, nil
}

func (s *Service) ensureUniqueNumber(ctx context.Context, number, exceptID string) error {
	existing, err := s.repo.FindByAssetNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("check asset number: %w", err)
	}
	if existing != nil && existing.ID != exceptID {
		return fmt.Errorf("%w: %s", models.ErrDuplicateAssetNumber, number)
	}
	return nil
}
