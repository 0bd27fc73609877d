package assistant

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Chat(ctx context.Context, message string) (models.ChatResponse, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(models.ChatResponse), args.Error(1)
}

func turn(role models.Role, text string) models.ConversationTurn {
	return models.ConversationTurn{Role: role, Text: text}
}

func TestNewPanelStartsWithGreeting(t *testing.T) {
	p := NewPanel(new(MockBackend), nil, nil)

	assert.Equal(t, []models.ConversationTurn{turn(models.RoleAssistant, Greeting)}, p.Turns())
	assert.Equal(t, Idle, p.State())
	assert.False(t, p.Typing())
}

func TestSendAppendsReply(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Chat", mock.Anything, "  how many items?  ").
		Return(models.ChatResponse{Type: models.ResponseChat, Message: "There are 3."}, nil).Once()

	var inserted []models.AssetRecord
	p := NewPanel(backend, func(r models.AssetRecord) { inserted = append(inserted, r) }, nil)

	require.NoError(t, p.Send(context.Background(), "  how many items?  "))

	assert.Equal(t, []models.ConversationTurn{
		turn(models.RoleAssistant, Greeting),
		turn(models.RoleUser, "  how many items?  "),
		turn(models.RoleAssistant, "There are 3."),
	}, p.Turns())
	assert.Empty(t, inserted)
	assert.Equal(t, Idle, p.State())
}

func TestSendBlankIsNoop(t *testing.T) {
	backend := new(MockBackend)
	p := NewPanel(backend, nil, nil)

	require.NoError(t, p.Send(context.Background(), "   "))

	assert.Len(t, p.Turns(), 1)
	backend.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestSendTransportFailureAppendsFallback(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Chat", mock.Anything, "hello").Return(models.ChatResponse{}, errors.New("dial tcp: refused")).Once()

	called := false
	p := NewPanel(backend, func(models.AssetRecord) { called = true }, nil)

	require.NoError(t, p.Send(context.Background(), "hello"))

	turns := p.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, turn(models.RoleAssistant, ConnectionErrorText), turns[2])
	assert.False(t, called)
	assert.Equal(t, Idle, p.State())
}

func TestSendCreationNotifiesExactlyOnce(t *testing.T) {
	record := models.AssetRecord{ID: "x1", AssetNumberPrimary: "AUTO-1A2B3C", Name: "Chair", Room: "Lab A", Quantity: 4}
	backend := new(MockBackend)
	backend.On("Chat", mock.Anything, "add 4 chairs to Lab A").
		Return(models.ChatResponse{Type: models.ResponseSuccess, Message: "Certo!", Data: &record}, nil).Once()

	var inserted []models.AssetRecord
	p := NewPanel(backend, func(r models.AssetRecord) { inserted = append(inserted, r) }, nil)

	require.NoError(t, p.Send(context.Background(), "add 4 chairs to Lab A"))

	assert.Equal(t, []models.AssetRecord{record}, inserted)
	assert.Equal(t, "Certo!", p.Turns()[2].Text)
}

func TestSendWhileSendingIsRejected(t *testing.T) {
	backend := new(MockBackend)
	release := make(chan struct{})
	started := make(chan struct{})
	backend.On("Chat", mock.Anything, "first").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(models.ChatResponse{Message: "ok"}, nil).Once()

	p := NewPanel(backend, nil, nil)

	done := make(chan error)
	go func() { done <- p.Send(context.Background(), "first") }()
	<-started

	assert.True(t, p.Typing())
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.Contains(t, buf.String(), TypingIndicator)

	assert.ErrorIs(t, p.Send(context.Background(), "second"), ErrBusy)
	assert.Len(t, p.Turns(), 2)

	close(release)
	require.NoError(t, <-done)

	assert.Len(t, p.Turns(), 3)
	assert.False(t, p.Typing())
	backend.AssertNumberOfCalls(t, "Chat", 1)
}

func TestRender(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Chat", mock.Anything, "oi").Return(models.ChatResponse{Message: "Olá!"}, nil).Once()
	p := NewPanel(backend, nil, nil)
	require.NoError(t, p.Send(context.Background(), "oi"))

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.Equal(t, "Assistente: "+Greeting+"\nVocê: oi\nAssistente: Olá!\n", buf.String())
}

func TestSendOnlySuccessInserts(t *testing.T) {
	record := models.AssetRecord{ID: "x1", AssetNumberPrimary: "LM-009", Name: "Chair", Room: "Lab A", Quantity: 1}

	for _, kind := range []models.ChatResponseType{models.ResponseChat, models.ResponseError, ""} {
		t.Run(string(kind), func(t *testing.T) {
			backend := new(MockBackend)
			backend.On("Chat", mock.Anything, "hello").
				Return(models.ChatResponse{Type: kind, Message: "reply", Data: &record}, nil).Once()

			inserted := 0
			p := NewPanel(backend, func(models.AssetRecord) { inserted++ }, nil)

			require.NoError(t, p.Send(context.Background(), "hello"))

			assert.Equal(t, 0, inserted)
			turns := p.Turns()
			require.Len(t, turns, 3)
			assert.Equal(t, turn(models.RoleAssistant, "reply"), turns[2])
		})
	}
}
