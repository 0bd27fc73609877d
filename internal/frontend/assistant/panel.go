// Package assistant holds the state of the chat assistant panel.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

const (
	// Greeting is the first assistant turn of every session.
	Greeting = "Olá! Como posso ajudar com o patrimônio hoje?"
	// ConnectionErrorText replaces the reply when the backend cannot be reached.
	ConnectionErrorText = "Erro de conexão com o servidor."
	// TypingIndicator is rendered while a request is in flight.
	TypingIndicator = "Digitando..."
)

// ErrBusy is returned by Send while a previous message is still in flight.
var ErrBusy = errors.New("assistant is busy")

// State is the panel's request state.
type State int

const (
	Idle State = iota
	// Sending means a chat request is in flight.
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Backend is the chat endpoint of the REST API.
type Backend interface {
	Chat(ctx context.Context, message string) (models.ChatResponse, error)
}

// InsertHandler receives records the assistant reports as created.
type InsertHandler func(models.AssetRecord)

// Panel keeps the transcript for one session. The transcript is not persisted.
type Panel struct {
	backend   Backend
	onNewItem InsertHandler
	logger    *zap.Logger

	mu    sync.Mutex
	turns []models.ConversationTurn
	state State
}

// NewPanel starts a session seeded with the greeting. onNewItem may be nil.
func NewPanel(backend Backend, onNewItem InsertHandler, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{
		backend:   backend,
		onNewItem: onNewItem,
		logger:    logger,
		turns:     []models.ConversationTurn{{Role: models.RoleAssistant, Text: Greeting}},
	}
}

// Send appends the user's turn, forwards it to the backend and appends exactly one
// assistant turn: the reply, or ConnectionErrorText if the request failed. Blank
// input is ignored. Only a success reply hands its record to onNewItem.
func (p *Panel) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	p.mu.Lock()
	if p.state == Sending {
		p.mu.Unlock()
		return ErrBusy
	}
	p.state = Sending
	p.turns = append(p.turns, models.ConversationTurn{Role: models.RoleUser, Text: text})
	p.mu.Unlock()

	resp, err := p.backend.Chat(ctx, text)

	reply := resp.Message
	if err != nil {
		p.logger.Warn("chat request failed", zap.Error(err))
		reply = ConnectionErrorText
	}

	p.mu.Lock()
	p.turns = append(p.turns, models.ConversationTurn{Role: models.RoleAssistant, Text: reply})
	p.state = Idle
	p.mu.Unlock()

	if err == nil && resp.IsCreation() && resp.Data != nil && p.onNewItem != nil {
		p.logger.Info("assistant created asset", zap.String("id", resp.Data.ID), zap.String("room", resp.Data.Room))
		p.onNewItem(*resp.Data)
	}
	return nil
}

// Turns returns a copy of the transcript.
func (p *Panel) Turns() []models.ConversationTurn {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]models.ConversationTurn(nil), p.turns...)
}

// State returns whether a request is in flight.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Typing reports whether the typing indicator should be shown.
func (p *Panel) Typing() bool {
	return p.State() == Sending
}

// Render writes the transcript, followed by the typing indicator when sending.
func (p *Panel) Render(w io.Writer) error {
	p.mu.Lock()
	turns := append([]models.ConversationTurn(nil), p.turns...)
	sending := p.state == Sending
	p.mu.Unlock()

	for _, t := range turns {
		label := "Assistente"
		if t.Role == models.RoleUser {
			label = "Você"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", label, t.Text); err != nil {
			return err
		}
	}
	if sending {
		_, err := fmt.Fprintln(w, TypingIndicator)
		return err
	}
	return nil
}
