// Package inventory holds the state of the inventory screen: the cached asset
// list, the create/edit form and the search filter.
package inventory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/pkg/currency"
)

const (
	// EmptyMessage is shown when the filtered list has no records.
	EmptyMessage = "Nenhum item encontrado."

	deletePrompt = "Tem certeza?"
)

// Backend is the part of the REST API the view calls.
type Backend interface {
	ListAssets(ctx context.Context) ([]models.AssetRecord, error)
	ListRooms(ctx context.Context) ([]string, error)
	CreateAsset(ctx context.Context, in models.AssetInput) (models.AssetRecord, error)
	UpdateAsset(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error)
	DeleteAsset(ctx context.Context, room, id string) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// View owns the canonical in-memory asset list. Create, update and delete always
// reload the list from the backend; ApplyExternalInsert is the only optimistic path.
type View struct {
	backend Backend
	confirm Confirmer
	logger  *zap.Logger

	mu         sync.Mutex
	items      []models.AssetRecord
	rooms      []string
	form       Form
	editID     string
	editRoom   string
	query      string
	loadSeq    uint64
	appliedSeq uint64
}

// NewView builds an empty view. Call Load to populate it.
func NewView(backend Backend, confirm Confirmer, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{
		backend: backend,
		confirm: confirm,
		logger:  logger,
		items:   []models.AssetRecord{},
		form:    DefaultForm(),
	}
}

// Load replaces the asset list and room set with the backend's. An active edit is
// left untouched even if its record no longer exists. A response that arrives after
// a newer load has already been applied is discarded.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	v.mu.Unlock()

	var (
		items []models.AssetRecord
		rooms []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = v.backend.ListAssets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = v.backend.ListRooms(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		v.logger.Warn("failed to load inventory", zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq <= v.appliedSeq {
		v.logger.Debug("discarding stale inventory load", zap.Uint64("seq", seq), zap.Uint64("applied", v.appliedSeq))
		return nil
	}
	v.appliedSeq = seq
	if items == nil {
		items = []models.AssetRecord{}
	}
	v.items = items
	v.rooms = rooms
	return nil
}

// Submit creates a record, or updates the one being edited, then resets the form
// and reloads the list. On failure the form and list are left unchanged.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	form := v.form
	editID := v.editID
	editRoom := v.editRoom
	rooms := append([]string(nil), v.rooms...)
	v.mu.Unlock()

	if err := form.check(rooms); err != nil {
		return err
	}

	var err error
	if editID != "" {
		// Records are stored by room, so the update targets the room the record was in.
		_, err = v.backend.UpdateAsset(ctx, editRoom, editID, form.Input())
	} else {
		_, err = v.backend.CreateAsset(ctx, form.Input())
	}
	if err != nil {
		v.logger.Warn("failed to save asset", zap.String("edit_id", editID), zap.Error(err))
		return err
	}

	v.mu.Lock()
	v.editID, v.editRoom = "", ""
	v.form = DefaultForm()
	v.mu.Unlock()

	return v.Load(ctx)
}

// BeginEdit loads record into the form and makes it the edit target, discarding
// any unsaved changes of a previous edit.
func (v *View) BeginEdit(record models.AssetRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form = FormFromRecord(record)
	v.editID = record.ID
	v.editRoom = record.Room
}

// CancelEdit clears the edit target and resets the form to its defaults.
func (v *View) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.editID, v.editRoom = "", ""
	v.form = DefaultForm()
}

// Delete removes the record after interactive confirmation, then reloads the list.
// It reports whether the user confirmed; declining makes no network call.
func (v *View) Delete(ctx context.Context, room, id string) (bool, error) {
	if v.confirm == nil || !v.confirm.Confirm(deletePrompt) {
		return false, nil
	}

	if err := v.backend.DeleteAsset(ctx, room, id); err != nil {
		v.logger.Warn("failed to delete asset", zap.String("room", room), zap.String("id", id), zap.Error(err))
		return true, err
	}
	return true, v.Load(ctx)
}

// ApplyExternalInsert appends a record created elsewhere (the chat assistant)
// without a round-trip. The record is trusted as-is and is not deduplicated by id.
func (v *View) ApplyExternalInsert(record models.AssetRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = append(v.items, record)
}

// SetQuery updates the search text used by Visible.
func (v *View) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.query = query
}

// Query returns the current search text.
func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.query
}

// Filter returns the records matching query without touching the canonical list.
func (v *View) Filter(query string) []models.AssetRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	return filter(v.items, query)
}

// Visible returns the records matching the current query.
func (v *View) Visible() []models.AssetRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	return filter(v.items, v.query)
}

// Items returns a copy of the canonical list.
func (v *View) Items() []models.AssetRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]models.AssetRecord(nil), v.items...)
}

// Rooms returns the room set from the last load.
func (v *View) Rooms() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]string(nil), v.rooms...)
}

// Form returns the current form state.
func (v *View) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.form
}

// UpdateForm applies edit to the form state.
func (v *View) UpdateForm(edit func(*Form)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	edit(&v.form)
}

// EditID returns the id of the record being edited, or "".
func (v *View) EditID() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.editID
}

// Find returns the record with id from the canonical list.
func (v *View) Find(id string) (models.AssetRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, r := range v.items {
		if r.ID == id {
			return r, true
		}
	}
	return models.AssetRecord{}, false
}

// Render writes the visible list, or EmptyMessage when nothing matches.
func (v *View) Render(w io.Writer) error {
	visible := v.Visible()

	if _, err := fmt.Fprintf(w, "Lista de Ativos (%d)\n", len(visible)); err != nil {
		return err
	}
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	for _, r := range visible {
		number := r.AssetNumberPrimary
		if r.AssetNumberSecondary != "" {
			number += " / " + r.AssetNumberSecondary
		}
		if _, err := fmt.Fprintf(w, "[%s] %s - %s\n    Sala: %s | Qtd: %d | %s\n",
			r.ID, number, r.Name, r.Room, r.Quantity, currency.Format(r.TotalValue)); err != nil {
			return err
		}
	}
	return nil
}

func filter(items []models.AssetRecord, query string) []models.AssetRecord {
	out := make([]models.AssetRecord, 0, len(items))
	for _, r := range items {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
