package inventory

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

func (m *MockBackend) ListAssets(ctx context.Context) ([]models.AssetRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssetRecord), args.Error(1)
}

func (m *MockBackend) ListRooms(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) CreateAsset(ctx context.Context, in models.AssetInput) (models.AssetRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.AssetRecord), args.Error(1)
}

func (m *MockBackend) UpdateAsset(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error) {
	args := m.Called(ctx, room, id, in)
	return args.Get(0).(models.AssetRecord), args.Error(1)
}

func (m *MockBackend) DeleteAsset(ctx context.Context, room, id string) error {
	return m.Called(ctx, room, id).Error(0)
}

var (
	rooms      = []string{"Lab A", "Lab B"}
	microscope = models.AssetRecord{ID: "1", AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab A", Quantity: 2, TotalValue: 1500}
	centrifuge = models.AssetRecord{ID: "2", AssetNumberPrimary: "LM-002", Name: "Centrifuge", Room: "Lab B", Quantity: 1, TotalValue: 800}
)

func always(answer bool) ConfirmFunc {
	return func(string) bool { return answer }
}

func loadedView(t *testing.T, backend *MockBackend, items ...models.AssetRecord) *View {
	t.Helper()
	backend.On("ListAssets", mock.Anything).Return(items, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()

	v := NewView(backend, always(true), nil)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestLoadReplacesState(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope, centrifuge)

	assert.Equal(t, []models.AssetRecord{microscope, centrifuge}, v.Items())
	assert.Equal(t, rooms, v.Rooms())

	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{centrifuge}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()
	require.NoError(t, v.Load(context.Background()))

	assert.Equal(t, []models.AssetRecord{centrifuge}, v.Items())
}

func TestLoadFailureKeepsState(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope)

	backend.On("ListAssets", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Maybe()

	assert.Error(t, v.Load(context.Background()))
	assert.Equal(t, []models.AssetRecord{microscope}, v.Items())
}

func TestLoadKeepsPhantomEdit(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope)
	v.BeginEdit(microscope)

	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()
	require.NoError(t, v.Load(context.Background()))

	assert.Empty(t, v.Items())
	assert.Equal(t, "1", v.EditID())
	assert.Equal(t, FormFromRecord(microscope), v.Form())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	backend := new(MockBackend)
	v := NewView(backend, nil, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	backend.On("ListAssets", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]models.AssetRecord{microscope}, nil).Once()
	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{centrifuge}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil)

	done := make(chan error)
	go func() { done <- v.Load(context.Background()) }()
	<-started

	require.NoError(t, v.Load(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []models.AssetRecord{centrifuge}, v.Items())
}

func TestSubmitCreatesAndResets(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend)

	v.UpdateForm(func(f *Form) {
		f.AssetNumberPrimary = "LM-001"
		f.Name = "Microscope"
		f.Room = "Lab A"
		f.Quantity = 2
		f.SetValueDigits("150000")
	})

	want := models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab A", Quantity: 2, TotalValue: 1500}
	backend.On("CreateAsset", mock.Anything, want).Return(want.Record("srv-1"), nil).Once()
	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{want.Record("srv-1")}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()

	require.NoError(t, v.Submit(context.Background()))

	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv-1", items[0].ID)
	assert.Equal(t, want, items[0].Input())
	assert.Equal(t, DefaultForm(), v.Form())
	assert.Empty(t, v.EditID())
	backend.AssertExpectations(t)
}

func TestSubmitUpdatesEditTarget(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope)

	v.BeginEdit(microscope)
	v.UpdateForm(func(f *Form) {
		f.Room = "Lab B"
		f.Quantity = 3
	})

	changed := microscope
	changed.Room = "Lab B"
	changed.Quantity = 3
	backend.On("UpdateAsset", mock.Anything, "Lab A", "1", changed.Input()).Return(changed, nil).Once()
	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{changed}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()

	require.NoError(t, v.Submit(context.Background()))

	assert.Empty(t, v.EditID())
	assert.Equal(t, DefaultForm(), v.Form())
	assert.Equal(t, []models.AssetRecord{changed}, v.Items())
	backend.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend)

	err := v.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidForm)

	v.UpdateForm(func(f *Form) {
		f.AssetNumberPrimary = "LM-001"
		f.Name = "Microscope"
		f.Room = "Garage"
	})
	assert.ErrorIs(t, v.Submit(context.Background()), ErrInvalidForm)

	backend.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend)

	v.UpdateForm(func(f *Form) {
		f.AssetNumberPrimary = "LM-001"
		f.Name = "Microscope"
		f.Room = "Lab A"
	})
	form := v.Form()

	backend.On("CreateAsset", mock.Anything, mock.Anything).Return(models.AssetRecord{}, errors.New("conflict")).Once()

	assert.Error(t, v.Submit(context.Background()))
	assert.Equal(t, form, v.Form())
	assert.Empty(t, v.Items())
}

func TestBeginEditThenCancelRestoresDefaults(t *testing.T) {
	v := NewView(new(MockBackend), nil, nil)
	before := v.Form()

	v.BeginEdit(microscope)
	assert.Equal(t, "1", v.EditID())
	assert.Equal(t, "Microscope", v.Form().Name)

	v.CancelEdit()
	assert.Equal(t, before, v.Form())
	assert.Equal(t, DefaultForm(), v.Form())
	assert.Empty(t, v.EditID())
}

func TestBeginEditDiscardsPreviousEdit(t *testing.T) {
	v := NewView(new(MockBackend), nil, nil)

	v.BeginEdit(microscope)
	v.UpdateForm(func(f *Form) { f.Name = "unsaved" })
	v.BeginEdit(centrifuge)

	assert.Equal(t, "2", v.EditID())
	assert.Equal(t, FormFromRecord(centrifuge), v.Form())
}

func TestDeleteDeclinedMakesNoRequest(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope)
	v.confirm = always(false)

	confirmed, err := v.Delete(context.Background(), "Lab A", "1")

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, []models.AssetRecord{microscope}, v.Items())
	backend.AssertNotCalled(t, "DeleteAsset", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNumberOfCalls(t, "ListAssets", 1)
}

func TestDeleteConfirmedReloads(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope, centrifuge)

	var prompt string
	v.confirm = ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	})

	backend.On("DeleteAsset", mock.Anything, "Lab A", "1").Return(nil).Once()
	backend.On("ListAssets", mock.Anything).Return([]models.AssetRecord{centrifuge}, nil).Once()
	backend.On("ListRooms", mock.Anything).Return(rooms, nil).Once()

	confirmed, err := v.Delete(context.Background(), "Lab A", "1")
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, "Tem certeza?", prompt)
	assert.Equal(t, []models.AssetRecord{centrifuge}, v.Items())
}

func TestApplyExternalInsertAppendsWithoutDedup(t *testing.T) {
	backend := new(MockBackend)
	v := loadedView(t, backend, microscope)

	v.ApplyExternalInsert(centrifuge)
	assert.Equal(t, []models.AssetRecord{microscope, centrifuge}, v.Items())

	v.ApplyExternalInsert(centrifuge)
	assert.Len(t, v.Items(), 3)

	backend.AssertNumberOfCalls(t, "ListAssets", 1)
}

func TestFilter(t *testing.T) {
	v := loadedView(t, new(MockBackend), microscope, centrifuge)

	assert.Equal(t, []models.AssetRecord{microscope, centrifuge}, v.Filter(""))
	assert.Equal(t, []models.AssetRecord{microscope}, v.Filter("MICRO"))
	assert.Equal(t, []models.AssetRecord{centrifuge}, v.Filter("lm-002"))
	assert.Equal(t, []models.AssetRecord{centrifuge}, v.Filter("lab b"))
	assert.Empty(t, v.Filter("spectrometer"))

	assert.Len(t, v.Items(), 2)
}

func TestRender(t *testing.T) {
	v := loadedView(t, new(MockBackend), microscope)

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), "Lista de Ativos (1)")
	assert.Contains(t, buf.String(), "LM-001 - Microscope")
	assert.Contains(t, buf.String(), "R$ 1.500,00")

	v.SetQuery("nothing matches")
	buf.Reset()
	require.NoError(t, v.Render(&buf))
	assert.Equal(t, "Lista de Ativos (0)\n"+EmptyMessage+"\n", buf.String())
	assert.Equal(t, "nothing matches", v.Query())
}

func TestFormValueDigits(t *testing.T) {
	f := DefaultForm()
	f.SetValueDigits("1050")
	assert.InDelta(t, 10.50, f.TotalValue, 1e-9)
}
