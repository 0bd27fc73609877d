package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/frontend/assistant"
	"github.com/lamic-ufsm/patrimonio/internal/frontend/inventory"
	"github.com/lamic-ufsm/patrimonio/internal/repository/memory"
	"github.com/lamic-ufsm/patrimonio/internal/server/handlers"
	"github.com/lamic-ufsm/patrimonio/internal/service/assets"
	"github.com/lamic-ufsm/patrimonio/internal/service/chat"
	"github.com/lamic-ufsm/patrimonio/internal/service/reporting"
	"github.com/lamic-ufsm/patrimonio/pkg/clients/anthropic"
	"github.com/lamic-ufsm/patrimonio/pkg/clients/patrimonio"
)

var testRooms = []string{"Lab A", "Sala de Reuniões", "Sala 10/B"}

type MockAI struct {
	mock.Mock
}

func (m *MockAI) ExtractAsset(ctx context.Context, input string, rooms []string) (anthropic.AssetDraft, error) {
	args := m.Called(ctx, input, rooms)
	return args.Get(0).(anthropic.AssetDraft), args.Error(1)
}

func (m *MockAI) Reply(ctx context.Context, input string) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func newTestServer(t *testing.T, ai anthropic.Client) *httptest.Server {
	t.Helper()

	repo := memory.NewRepository()
	assetService := assets.NewService(repo, testRooms, nil)
	reportingService := reporting.NewService(repo, repo, nil, testRooms, nil)

	engine := New(Handlers{
		Assets: handlers.NewAssetHandler(assetService, nil),
		Export: handlers.NewExportHandler(repo, reportingService, nil),
		Chat:   handlers.NewChatHandler(chat.NewService(ai, assetService, nil), nil),
	}, []string{"http://localhost:5173"}, nil)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/patrimonios/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestInventoryRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()

	view := inventory.NewView(patrimonio.NewClient(srv.URL), inventory.ConfirmFunc(func(string) bool { return true }), nil)
	require.NoError(t, view.Load(ctx))
	assert.Equal(t, testRooms, view.Rooms())
	assert.Empty(t, view.Items())

	view.UpdateForm(func(f *inventory.Form) {
		f.AssetNumberPrimary = "LM-001"
		f.Name = "Microscope"
		f.Room = "Lab A"
		f.Quantity = 2
		f.SetValueDigits("150000")
	})
	require.NoError(t, view.Submit(ctx))

	items := view.Items()
	require.Len(t, items, 1)
	created := items[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "LM-001", created.AssetNumberPrimary)
	assert.Equal(t, 2, created.Quantity)
	assert.InDelta(t, 1500.00, created.TotalValue, 1e-9)
	assert.Equal(t, inventory.DefaultForm(), view.Form())

	view.BeginEdit(created)
	view.UpdateForm(func(f *inventory.Form) { f.Room = "Sala de Reuniões" })
	require.NoError(t, view.Submit(ctx))

	moved, ok := view.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Sala de Reuniões", moved.Room)

	view.BeginEdit(moved)
	view.UpdateForm(func(f *inventory.Form) { f.Room = "Sala 10/B" })
	require.NoError(t, view.Submit(ctx))

	moved, ok = view.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Sala 10/B", moved.Room)

	view.BeginEdit(moved)
	view.UpdateForm(func(f *inventory.Form) { f.Quantity = 7 })
	require.NoError(t, view.Submit(ctx))

	moved, ok = view.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Sala 10/B", moved.Room)
	assert.Equal(t, 7, moved.Quantity)

	confirmed, err := view.Delete(ctx, moved.Room, moved.ID)
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Empty(t, view.Items())
}

func TestDuplicateAssetNumberIsRejected(t *testing.T) {
	srv := newTestServer(t, nil)
	client := patrimonio.NewClient(srv.URL)
	ctx := context.Background()

	in := models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab A", Quantity: 1}
	_, err := client.CreateAsset(ctx, in)
	require.NoError(t, err)

	_, err = client.CreateAsset(ctx, in)
	var apiErr *patrimonio.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestChatRegistrationReachesInventory(t *testing.T) {
	ai := new(MockAI)
	ai.On("ExtractAsset", mock.Anything, "adicionar 4 cadeiras no Lab A", testRooms).
		Return(anthropic.AssetDraft{Name: "Cadeira", Room: "Lab A", Quantity: 4}, nil).Once()

	srv := newTestServer(t, ai)
	client := patrimonio.NewClient(srv.URL)
	ctx := context.Background()

	view := inventory.NewView(client, nil, nil)
	require.NoError(t, view.Load(ctx))

	panel := assistant.NewPanel(client, view.ApplyExternalInsert, nil)
	require.NoError(t, panel.Send(ctx, "adicionar 4 cadeiras no Lab A"))

	items := view.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Cadeira", items[0].Name)
	assert.Regexp(t, `^AUTO-[0-9A-F]{6}$`, items[0].AssetNumberPrimary)

	require.NoError(t, view.Load(ctx))
	assert.Len(t, view.Items(), 1)
	ai.AssertExpectations(t)
}
