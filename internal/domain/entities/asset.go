package entities

import (
	"fmt"
	"strings"
)

// AssetType is the closed set of asset classes the price layer understands
type AssetType string

const (
	AssetCrypto   AssetType = "crypto"
	AssetStock    AssetType = "stock"
	AssetIndex    AssetType = "index"
	AssetDomestic AssetType = "domestic"
)

// AllAssetTypes returns every asset type in a stable order
func AllAssetTypes() []AssetType {
	return []AssetType{AssetCrypto, AssetStock, AssetIndex, AssetDomestic}
}

// Valid reports whether t is one of the known asset types
func (t AssetType) Valid() bool {
	switch t {
	case AssetCrypto, AssetStock, AssetIndex, AssetDomestic:
		return true
	default:
		return false
	}
}

func (t AssetType) String() string {
	return string(t)
}

// ParseAssetType converts user input into an AssetType
func ParseAssetType(raw string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, raw)
	}
	return t, nil
}

// ParseAssetTypes parses a comma separated list, ignoring empty items
func ParseAssetTypes(raw string) ([]AssetType, error) {
	var types []AssetType
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseAssetType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// NormalizeSymbol trims and upper-cases a ticker so "btc" and "BTC" are the same asset
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SupportedAssets lists the symbols offered per asset type
type SupportedAssets struct {
	Crypto   []string `json:"crypto"`
	Stock    []string `json:"stock"`
	Index    []string `json:"index"`
	Domestic []string `json:"domestic"`
}

// ByType returns the symbols for one asset type
func (s SupportedAssets) ByType(t AssetType) []string {
	switch t {
	case AssetCrypto:
		return s.Crypto
	case AssetStock:
		return s.Stock
	case AssetIndex:
		return s.Index
	case AssetDomestic:
		return s.Domestic
	default:
		return nil
	}
}

// Contains reports whether symbol is listed for t
func (s SupportedAssets) Contains(t AssetType, symbol string) bool {
	symbol = NormalizeSymbol(symbol)
	for _, candidate := range s.ByType(t) {
		if candidate == symbol {
			return true
		}
	}
	return false
}
