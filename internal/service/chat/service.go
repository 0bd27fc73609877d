package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/pkg/clients/anthropic"
)

const (
	autoNumberPrefix = "AUTO-"

	replyDisabled    = "O assistente de IA não está configurado neste servidor."
	replyUnparseable = "Entendi que você quer cadastrar, mas não consegui entender os dados. Tente reformular."
	replyUnavailable = "Não consegui falar com o assistente agora. Tente novamente em instantes."
)

// registrationKeywords mark a message as a request to register a new asset.
var registrationKeywords = []string{
	"preencher", "adicionar", "cadastrar", "registrar",
	"registre", "cria", "insira", "novo", "lançar",
}

// AssetCreator is the part of the asset service the assistant needs.
type AssetCreator interface {
	Create(ctx context.Context, in models.AssetInput) (models.AssetRecord, error)
	Rooms() models.RoomList
}

// Service turns chat messages into replies, creating assets for registration requests.
type Service struct {
	ai         anthropic.Client
	assets     AssetCreator
	logger     *zap.Logger
	autoNumber func() string
}

// NewService wires the chat assistant. A nil ai client disables language processing.
func NewService(ai anthropic.Client, assets AssetCreator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:         ai,
		assets:     assets,
		logger:     logger,
		autoNumber: newAutoNumber,
	}
}

// IsRegistration reports whether the message asks to register an asset.
func IsRegistration(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range registrationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Handle answers one chat turn. Failures are reported in the response, never returned.
func (s *Service) Handle(ctx context.Context, message string) models.ChatResponse {
	if s.ai == nil {
		return models.ChatResponse{Type: models.ResponseChat, Message: replyDisabled}
	}

	if IsRegistration(message) {
		s.logger.Debug("registration intent detected", zap.String("message", message))
		return s.register(ctx, message)
	}

	reply, err := s.ai.Reply(ctx, message)
	if err != nil {
		s.logger.Error("chat reply failed", zap.Error(err))
		return models.ChatResponse{Type: models.ResponseError, Message: replyUnavailable}
	}
	return models.ChatResponse{Type: models.ResponseChat, Message: reply}
}

func (s *Service) register(ctx context.Context, message string) models.ChatResponse {
	draft, err := s.ai.ExtractAsset(ctx, message, s.assets.Rooms().Rooms)
	if errors.Is(err, anthropic.ErrUnparseable) {
		s.logger.Warn("ai answer was not valid json", zap.Error(err))
		return models.ChatResponse{Type: models.ResponseChat, Message: replyUnparseable}
	}
	if err != nil {
		s.logger.Error("asset extraction failed", zap.Error(err))
		return models.ChatResponse{Type: models.ResponseError, Message: replyUnavailable}
	}

	in := models.AssetInput{
		Name:       draft.Name,
		Room:       draft.Room,
		Quantity:   draft.Quantity,
		TotalValue: draft.Value,
	}
	if draft.AssetNumber != nil {
		in.AssetNumberPrimary = strings.TrimSpace(*draft.AssetNumber)
	}
	if in.AssetNumberPrimary == "" {
		in.AssetNumberPrimary = s.autoNumber()
		s.logger.Debug("generated asset number", zap.String("number", in.AssetNumberPrimary))
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	record, err := s.assets.Create(ctx, in)
	if err != nil {
		s.logger.Error("failed to save asset from chat", zap.Error(err))
		return models.ChatResponse{Type: models.ResponseError, Message: fmt.Sprintf("Erro interno ao salvar: %v", err)}
	}

	return models.ChatResponse{
		Type:    models.ResponseSuccess,
		Message: fmt.Sprintf("Certo! Item '%s' (%s) registrado.", record.Name, record.AssetNumberPrimary),
		Data:    &record,
	}
}

func newAutoNumber() string {
	return autoNumberPrefix + strings.ToUpper(uuid.NewString()[:6])
}
