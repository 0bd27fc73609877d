package models

import "errors"

var (
	// ErrAssetNotFound indicates no record exists for the given room and id.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrDuplicateAssetNumber indicates another record already uses the primary asset number.
	ErrDuplicateAssetNumber = errors.New("duplicate asset number")
)
