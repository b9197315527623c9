package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AssetType
		wantErr bool
	}{
		{name: "crypto", input: "crypto", want: AssetCrypto},
		{name: "mixed case with spaces", input: "  Stock ", want: AssetStock},
		{name: "index", input: "INDEX", want: AssetIndex},
		{name: "domestic", input: "domestic", want: AssetDomestic},
		{name: "unknown", input: "bond", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssetType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownAssetType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssetTypes(t *testing.T) {
	types, err := ParseAssetTypes("crypto, stock,,index")
	require.NoError(t, err)
	assert.Equal(t, []AssetType{AssetCrypto, AssetStock, AssetIndex}, types)

	_, err = ParseAssetTypes("crypto,futures")
	assert.Error(t, err)

	types, err = ParseAssetTypes("")
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BTC", NormalizeSymbol("btc"))
	assert.Equal(t, "BTC", NormalizeSymbol(" BtC "))
	assert.Equal(t, "005930", NormalizeSymbol("005930"))
}

func TestSupportedAssets_Contains(t *testing.T) {
	assets := SupportedAssets{
		Crypto: []string{"BTC", "ETH"},
		Stock:  []string{"AAPL"},
	}

	assert.True(t, assets.Contains(AssetCrypto, "btc"))
	assert.False(t, assets.Contains(AssetStock, "BTC"))
	assert.False(t, assets.Contains(AssetIndex, "SPX"))
	assert.Equal(t, []string{"AAPL"}, assets.ByType(AssetStock))
	assert.Nil(t, assets.ByType(AssetType("bond")))
}
