package models

import (
	"errors"
	"strings"
)

// AssetRecord is one inventoried item. ID is assigned by the backend only.
type AssetRecord struct {
	ID                   string  `json:"id" bson:"_id,omitempty"`
	AssetNumberPrimary   string  `json:"numero_patrimonio_lamic" bson:"numero_patrimonio_lamic"`
	AssetNumberSecondary string  `json:"numero_patrimonio_ufsm,omitempty" bson:"numero_patrimonio_ufsm,omitempty"`
	Name                 string  `json:"nome" bson:"nome"`
	Room                 string  `json:"sala" bson:"sala"`
	Quantity             int     `json:"quantidade" bson:"quantidade"`
	TotalValue           float64 `json:"valor_total" bson:"valor_total"`
}

// AssetInput carries the mutable fields of an AssetRecord, as sent on create and update.
type AssetInput struct {
	AssetNumberPrimary   string  `json:"numero_patrimonio_lamic"`
	AssetNumberSecondary string  `json:"numero_patrimonio_ufsm,omitempty"`
	Name                 string  `json:"nome"`
	Room                 string  `json:"sala"`
	Quantity             int     `json:"quantidade"`
	TotalValue           float64 `json:"valor_total"`
}

var (
	errMissingAssetNumber = errors.New("numero_patrimonio_lamic is required")
	errMissingName        = errors.New("nome is required")
	errMissingRoom        = errors.New("sala is required")
	errNegativeQuantity   = errors.New("quantidade must not be negative")
	errNegativeValue      = errors.New("valor_total must not be negative")
)

// Normalize trims whitespace from the textual fields.
func (in AssetInput) Normalize() AssetInput {
	in.AssetNumberPrimary = strings.TrimSpace(in.AssetNumberPrimary)
	in.AssetNumberSecondary = strings.TrimSpace(in.AssetNumberSecondary)
	in.Name = strings.TrimSpace(in.Name)
	in.Room = strings.TrimSpace(in.Room)
	return in
}

// Validate checks the field-level constraints. Room membership is checked by the caller
// because the room set is only known at runtime.
func (in AssetInput) Validate() error {
	switch {
	case strings.TrimSpace(in.AssetNumberPrimary) == "":
		return errMissingAssetNumber
	case strings.TrimSpace(in.Name) == "":
		return errMissingName
	case strings.TrimSpace(in.Room) == "":
		return errMissingRoom
	case in.Quantity < 0:
		return errNegativeQuantity
	case in.TotalValue < 0:
		return errNegativeValue
	}
	return nil
}

// Record materializes a record with the given id.
func (in AssetInput) Record(id string) AssetRecord {
	return AssetRecord{
		ID:                   id,
		AssetNumberPrimary:   in.AssetNumberPrimary,
		AssetNumberSecondary: in.AssetNumberSecondary,
		Name:                 in.Name,
		Room:                 in.Room,
		Quantity:             in.Quantity,
		TotalValue:           in.TotalValue,
	}
}

// Input strips the identity from a record.
func (r AssetRecord) Input() AssetInput {
	return AssetInput{
		AssetNumberPrimary:   r.AssetNumberPrimary,
		AssetNumberSecondary: r.AssetNumberSecondary,
		Name:                 r.Name,
		Room:                 r.Room,
		Quantity:             r.Quantity,
		TotalValue:           r.TotalValue,
	}
}

// Matches reports whether the record matches a free-text query. Matching is a
// case-insensitive substring test over name, primary asset number and room.
// An empty query matches every record.
func (r AssetRecord) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.AssetNumberPrimary), q) ||
		strings.Contains(strings.ToLower(r.Room), q)
}
