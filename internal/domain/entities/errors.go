package entities

import "errors"

var (
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrInvalidDate      = errors.New("invalid date")
)
