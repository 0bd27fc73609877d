package inventory

import (
	"errors"
	"strings"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/pkg/currency"
)

// ErrInvalidForm indicates a required field is missing or the room is not in the room set.
var ErrInvalidForm = errors.New("invalid form")

// Form is the create/edit form state.
type Form struct {
	AssetNumberPrimary   string
	AssetNumberSecondary string
	Name                 string
	Room                 string
	Quantity             int
	TotalValue           float64
}

// DefaultForm is the blank form: empty strings, quantity 1, value 0.
func DefaultForm() Form {
	return Form{Quantity: 1}
}

// FormFromRecord copies a record's fields into a form.
func FormFromRecord(r models.AssetRecord) Form {
	return Form{
		AssetNumberPrimary:   r.AssetNumberPrimary,
		AssetNumberSecondary: r.AssetNumberSecondary,
		Name:                 r.Name,
		Room:                 r.Room,
		Quantity:             r.Quantity,
		TotalValue:           r.TotalValue,
	}
}

// SetValueDigits stores masked currency entry: the digits are read as cents.
func (f *Form) SetValueDigits(digits string) {
	f.TotalValue = currency.ParseCents(digits)
}

// Input converts the form into the request body sent to the backend.
func (f Form) Input() models.AssetInput {
	return models.AssetInput{
		AssetNumberPrimary:   f.AssetNumberPrimary,
		AssetNumberSecondary: f.AssetNumberSecondary,
		Name:                 f.Name,
		Room:                 f.Room,
		Quantity:             f.Quantity,
		TotalValue:           f.TotalValue,
	}
}

func (f Form) check(rooms []string) error {
	switch {
	case strings.TrimSpace(f.AssetNumberPrimary) == "":
		return errors.Join(ErrInvalidForm, errors.New("nº patrimônio LAMIC é obrigatório"))
	case strings.TrimSpace(f.Name) == "":
		return errors.Join(ErrInvalidForm, errors.New("nome é obrigatório"))
	case f.Room == "":
		return errors.Join(ErrInvalidForm, errors.New("sala é obrigatória"))
	case f.Quantity < 0:
		return errors.Join(ErrInvalidForm, errors.New("quantidade não pode ser negativa"))
	case f.TotalValue < 0:
		return errors.Join(ErrInvalidForm, errors.New("valor não pode ser negativo"))
	}

	for _, room := range rooms {
		if room == f.Room {
			return nil
		}
	}
	return errors.Join(ErrInvalidForm, errors.New("sala desconhecida: "+f.Room))
}
